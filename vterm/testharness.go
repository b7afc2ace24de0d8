// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/testharness.go
// Summary: Test harness for interpreter and screen-model verification.
// Usage: Used by test files to send sequences and assert buffer state.

package vterm

import (
	"strings"
	"testing"
)

// TestHarness bundles an interpreter and its screen for sequence tests.
type TestHarness struct {
	Interp *Interpreter
	screen *Screen
}

// NewTestHarness creates a harness with the given terminal size and
// scrollback capacity.
func NewTestHarness(rows, cols, scrollback int) *TestHarness {
	screen := NewScreen(rows, cols, scrollback)
	return &TestHarness{
		Interp: NewInterpreter(screen),
		screen: screen,
	}
}

// Send feeds a string (text and/or escape sequences) to the interpreter.
func (h *TestHarness) Send(seq string) {
	h.Interp.FeedString(seq)
}

// Cell returns the cell at (row, col) of the active screen.
func (h *TestHarness) Cell(row, col int) Cell {
	line := h.Interp.Screen().Row(row)
	if line == nil || col < 0 || col >= len(line) {
		return Cell{}
	}
	return line[col]
}

// RowText returns the text of a row of the active screen, trailing
// blanks trimmed.
func (h *TestHarness) RowText(row int) string {
	return rowString(h.Interp.Screen().Row(row))
}

// TimelineText returns the text of a timeline row of the active screen.
func (h *TestHarness) TimelineText(i int) string {
	return rowString(h.Interp.Screen().TimelineRow(i))
}

func rowString(row []Cell) string {
	var b strings.Builder
	for _, c := range row {
		if c.Rune == 0 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(c.Rune)
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// AssertCursor fails the test unless the cursor is at (row, col).
func (h *TestHarness) AssertCursor(t *testing.T, row, col int) {
	t.Helper()
	gotRow, gotCol := h.Interp.Screen().Cursor()
	if gotRow != row || gotCol != col {
		t.Errorf("cursor: expected (%d,%d), got (%d,%d)", row, col, gotRow, gotCol)
	}
}

// AssertRowText fails the test unless the row's trimmed text matches.
func (h *TestHarness) AssertRowText(t *testing.T, row int, want string) {
	t.Helper()
	if got := h.RowText(row); got != want {
		t.Errorf("row %d: expected %q, got %q", row, want, got)
	}
}
