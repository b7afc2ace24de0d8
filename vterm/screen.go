// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/screen.go
// Summary: Fixed-size grid of styled cells with a bounded scrollback log.
// Usage: Mutated by the escape-sequence interpreter, read by the render surface.
// Notes: Every operation clamps; malformed coordinates never panic.

package vterm

import "github.com/mattn/go-runewidth"

// Screen is a rows x cols grid of cells plus the scrollback of rows that
// scrolled off the top. cursorCol may equal cols: that is the deferred-wrap
// state, resolved by the next printable write.
type Screen struct {
	rows, cols           int
	cursorRow, cursorCol int
	savedRow, savedCol   int
	primary              [][]Cell
	scrollback           *Scrollback
}

// NewScreen creates a screen of the given size with the given scrollback
// capacity. Capacity 0 is the alternate-screen configuration: scrolled-off
// rows are discarded instead of archived.
func NewScreen(rows, cols, scrollbackCap int) *Screen {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}
	s := &Screen{
		rows:       rows,
		cols:       cols,
		scrollback: NewScrollback(scrollbackCap),
	}
	s.primary = make([][]Cell, rows)
	for r := range s.primary {
		s.primary[r] = blankRow(cols)
	}
	return s
}

// Size returns the grid dimensions.
func (s *Screen) Size() (rows, cols int) { return s.rows, s.cols }

// Cursor returns the cursor position. The column may equal Cols when a wrap
// is pending.
func (s *Screen) Cursor() (row, col int) { return s.cursorRow, s.cursorCol }

// Row returns the primary-grid row at the given index, or nil out of bounds.
func (s *Screen) Row(r int) []Cell {
	if r < 0 || r >= s.rows {
		return nil
	}
	return s.primary[r]
}

// Scrollback exposes the archive of evicted rows.
func (s *Screen) Scrollback() *Scrollback { return s.scrollback }

// Put writes a cell at the cursor. Control characters take fast paths:
// newline, carriage return, backspace and tab never store a glyph.
func (s *Screen) Put(c Cell) {
	switch c.Rune {
	case '\n':
		s.LineFeed()
		return
	case '\r':
		s.cursorCol = 0
		return
	case '\b':
		if s.cursorCol > 0 {
			s.cursorCol--
		}
		return
	case '\t':
		// Advance to the next multiple-of-8 column, writing styled spaces
		// so skipped cells pick up the current background.
		spaces := 8 - (s.cursorCol % 8)
		fill := c
		fill.Rune = ' '
		fill.Wide = false
		for i := 0; i < spaces; i++ {
			s.writeCell(fill, 1)
		}
		return
	}

	w := runewidth.RuneWidth(c.Rune)
	switch w {
	case 0:
		// Combining or zero-width rune; nothing to place on a cell grid.
		return
	case 2:
		c.Wide = true
		s.writeCell(c, 2)
	default:
		s.writeCell(c, 1)
	}
}

// writeCell stores a cell at the cursor, resolving a pending wrap first.
// width 2 reserves the following column as the wide-rune continuation.
func (s *Screen) writeCell(c Cell, width int) {
	if s.cursorCol+width > s.cols {
		s.LineFeed()
	}
	if s.cursorRow >= 0 && s.cursorRow < s.rows && s.cursorCol >= 0 && s.cursorCol < s.cols {
		s.primary[s.cursorRow][s.cursorCol] = c
		if width == 2 && s.cursorCol+1 < s.cols {
			cont := blankCell
			cont.FG, cont.BG, cont.Attr = c.FG, c.BG, c.Attr
			s.primary[s.cursorRow][s.cursorCol+1] = cont
		}
		s.cursorCol += width
	}
}

// LineFeed moves the cursor to column 0 of the next row, scrolling when the
// cursor is on the last row.
func (s *Screen) LineFeed() {
	s.cursorCol = 0
	s.cursorRow++
	if s.cursorRow >= s.rows {
		s.ScrollUp(1)
		s.cursorRow = s.rows - 1
	}
}

// ScrollUp evicts the top n rows into scrollback and appends n blank rows at
// the bottom. With a zero-capacity scrollback the evicted rows are discarded.
func (s *Screen) ScrollUp(n int) {
	// After rows+capacity iterations the grid is fully blank and every
	// further evicted row is itself blank, so larger counts end in the
	// same state. Clamping keeps hostile CSI S counts from stalling us.
	if limit := s.rows + s.scrollback.Capacity(); n > limit {
		n = limit
	}
	for i := 0; i < n; i++ {
		s.scrollback.Push(s.primary[0])
		copy(s.primary, s.primary[1:])
		s.primary[s.rows-1] = blankRow(s.cols)
	}
}

// EraseDisplay clears part of the grid: mode 0 cursor to end of screen,
// mode 1 start of screen to cursor (inclusive), mode 2 the whole screen.
// Scrollback is never touched.
func (s *Screen) EraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseLineSpan(s.cursorRow, s.clampedCursorCol(), s.cols-1)
		for r := s.cursorRow + 1; r < s.rows; r++ {
			s.primary[r] = blankRow(s.cols)
		}
	case 1:
		for r := 0; r < s.cursorRow; r++ {
			s.primary[r] = blankRow(s.cols)
		}
		s.eraseLineSpan(s.cursorRow, 0, s.clampedCursorCol())
	case 2:
		for r := 0; r < s.rows; r++ {
			s.primary[r] = blankRow(s.cols)
		}
	}
}

// EraseLine clears part of the cursor's row with the same mode semantics as
// EraseDisplay, restricted to a single line.
func (s *Screen) EraseLine(mode int) {
	switch mode {
	case 0:
		s.eraseLineSpan(s.cursorRow, s.clampedCursorCol(), s.cols-1)
	case 1:
		s.eraseLineSpan(s.cursorRow, 0, s.clampedCursorCol())
	case 2:
		s.eraseLineSpan(s.cursorRow, 0, s.cols-1)
	}
}

func (s *Screen) eraseLineSpan(row, from, to int) {
	if row < 0 || row >= s.rows {
		return
	}
	for c := from; c <= to && c < s.cols; c++ {
		if c >= 0 {
			s.primary[row][c] = blankCell
		}
	}
}

// clampedCursorCol resolves the deferred-wrap column into grid bounds.
func (s *Screen) clampedCursorCol() int {
	return clamp(s.cursorCol, 0, s.cols-1)
}

// MoveCursor places the cursor, saturating both coordinates to the grid.
func (s *Screen) MoveCursor(row, col int) {
	s.cursorRow = clamp(row, 0, s.rows-1)
	s.cursorCol = clamp(col, 0, s.cols-1)
}

// SaveCursor records the cursor position in the single save slot.
// Last write wins; there is no nesting.
func (s *Screen) SaveCursor() {
	s.savedRow, s.savedCol = s.cursorRow, s.clampedCursorCol()
}

// RestoreCursor returns the cursor to the saved position.
func (s *Screen) RestoreCursor() {
	s.MoveCursor(s.savedRow, s.savedCol)
}

// Resize changes the grid dimensions. Shrinking rows archives the top excess
// rows into scrollback before truncation; growing rows appends blank rows.
// Column changes truncate or pad each primary row; scrollback is not
// reflowed. The cursor is re-clamped afterwards.
func (s *Screen) Resize(rows, cols int) {
	if rows < 1 {
		rows = 1
	}
	if cols < 1 {
		cols = 1
	}

	if rows < s.rows {
		excess := s.rows - rows
		for i := 0; i < excess; i++ {
			s.scrollback.Push(s.primary[0])
			s.primary = s.primary[1:]
		}
	} else if rows > s.rows {
		for i := s.rows; i < rows; i++ {
			s.primary = append(s.primary, blankRow(s.cols))
		}
	}

	if cols != s.cols {
		for r := range s.primary {
			if cols > s.cols {
				pad := blankRow(cols - s.cols)
				s.primary[r] = append(s.primary[r], pad...)
			} else {
				s.primary[r] = s.primary[r][:cols]
			}
		}
	}

	s.rows = rows
	s.cols = cols
	s.cursorRow = clamp(s.cursorRow, 0, rows-1)
	s.cursorCol = clamp(s.cursorCol, 0, cols-1)
}

// Reset discards all content, including scrollback, and reinitializes the
// cursor and save slot.
func (s *Screen) Reset() {
	s.cursorRow, s.cursorCol = 0, 0
	s.savedRow, s.savedCol = 0, 0
	s.primary = make([][]Cell, s.rows)
	for r := range s.primary {
		s.primary[r] = blankRow(s.cols)
	}
	s.scrollback.Clear()
}

// TimelineLen returns the total number of addressable rows:
// scrollback followed by the primary grid.
func (s *Screen) TimelineLen() int {
	return s.scrollback.Len() + s.rows
}

// TimelineRow returns the timeline row at the given index, 0 being the
// oldest scrollback row. Returns nil out of bounds.
func (s *Screen) TimelineRow(i int) []Cell {
	if i < 0 {
		return nil
	}
	if i < s.scrollback.Len() {
		return s.scrollback.Row(i)
	}
	i -= s.scrollback.Len()
	if i >= s.rows {
		return nil
	}
	return s.primary[i]
}

// MaxScroll returns the largest valid viewport offset.
func (s *Screen) MaxScroll() int {
	if n := s.TimelineLen() - s.rows; n > 0 {
		return n
	}
	return 0
}

// Viewport returns the rows-sized window of the timeline starting at the
// given offset, clamped into range and padded with blank rows if the
// timeline is shorter than the grid. Rows are copies: later writes to the
// screen never show through, so callers may hold and read them unlocked.
func (s *Screen) Viewport(offset int) [][]Cell {
	offset = clamp(offset, 0, s.MaxScroll())
	out := make([][]Cell, s.rows)
	for r := 0; r < s.rows; r++ {
		src := s.TimelineRow(offset + r)
		if src == nil {
			out[r] = blankRow(s.cols)
			continue
		}
		row := make([]Cell, len(src))
		copy(row, src)
		out[r] = row
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
