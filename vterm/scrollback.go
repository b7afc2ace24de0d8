// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/scrollback.go
// Summary: Bounded FIFO log of rows evicted from the visible grid.

package vterm

// Scrollback stores rows scrolled off the top of the screen.
//
// Rows are kept in chronological order: index 0 is the oldest row,
// index Len()-1 is the most recently evicted one. Pushing beyond
// capacity drops the oldest rows first. A capacity of 0 disables
// archiving entirely (alternate-screen mode).
type Scrollback struct {
	rows [][]Cell
	max  int
}

// NewScrollback creates a scrollback log with the given capacity.
func NewScrollback(capacity int) *Scrollback {
	if capacity < 0 {
		capacity = 0
	}
	return &Scrollback{max: capacity}
}

// Len returns the number of archived rows.
func (s *Scrollback) Len() int { return len(s.rows) }

// Capacity returns the maximum number of rows retained.
func (s *Scrollback) Capacity() int { return s.max }

// Row returns the archived row at the given index, oldest first.
// Returns nil if the index is out of bounds.
func (s *Scrollback) Row(i int) []Cell {
	if i < 0 || i >= len(s.rows) {
		return nil
	}
	return s.rows[i]
}

// Push archives a row. With capacity 0 the row is discarded.
func (s *Scrollback) Push(row []Cell) {
	if s.max == 0 {
		return
	}
	s.rows = append(s.rows, row)
	if excess := len(s.rows) - s.max; excess > 0 {
		// Help GC by clearing evicted references.
		for i := 0; i < excess; i++ {
			s.rows[i] = nil
		}
		s.rows = s.rows[excess:]
	}
}

// Clear drops all archived rows.
func (s *Scrollback) Clear() {
	s.rows = nil
}
