// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/altscreen_test.go
// Summary: Tests for alternate-screen buffer switching (modes 47/1049).

package vterm

import "testing"

func TestAltScreenEnterLeave(t *testing.T) {
	for _, mode := range []string{"47", "1049"} {
		t.Run("mode "+mode, func(t *testing.T) {
			h := NewTestHarness(4, 20, 10)
			h.Send("primary text")

			h.Send("\x1b[?" + mode + "h")
			if !h.Interp.AltActive() {
				t.Fatal("alt screen not active after h")
			}
			// The alternate buffer starts blank; primary content is hidden.
			h.Send("\x1b[2J\x1b[HALT")
			h.AssertRowText(t, 0, "ALT")

			h.Send("\x1b[?" + mode + "l")
			if h.Interp.AltActive() {
				t.Fatal("alt screen still active after l")
			}
			h.AssertRowText(t, 0, "primary text")
		})
	}
}

func TestAltScreenCursorCarriesOver(t *testing.T) {
	h := NewTestHarness(10, 40, 0)
	h.Send("\x1b[5;7H")
	h.Send("\x1b[?1049h")
	h.AssertCursor(t, 4, 6)
}

func TestAltScreenHasNoScrollback(t *testing.T) {
	h := NewTestHarness(2, 10, 100)
	h.Send("\x1b[?1049h")
	h.Send("a\r\nb\r\nc\r\nd")
	if got := h.Interp.Screen().Scrollback().Len(); got != 0 {
		t.Errorf("alt screen archived %d rows", got)
	}
	if got := h.Interp.Screen().MaxScroll(); got != 0 {
		t.Errorf("alt screen max scroll: %d", got)
	}
}

// Entering twice is a no-op beyond the cursor move; there is no nesting to
// unwind.
func TestAltScreenReentry(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("\x1b[?47h")
	h.Send("ALT")
	h.Send("\x1b[?1049h")
	if !h.Interp.AltActive() {
		t.Fatal("alt screen dropped on re-entry")
	}
	h.AssertRowText(t, 0, "ALT")

	// One leave returns to primary regardless of how many enters came in.
	h.Send("\x1b[?47l")
	if h.Interp.AltActive() {
		t.Fatal("still in alt screen")
	}
}

func TestAltScreenContentPersistsAcrossVisits(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("\x1b[?47hfirst visit\x1b[?47l")
	h.Send("\x1b[?47h")
	h.AssertRowText(t, 0, "first visit")
}

func TestLeaveWithoutEnterIsNoop(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("text\x1b[?1049l")
	h.AssertRowText(t, 0, "text")
	if h.Interp.AltActive() {
		t.Fatal("alt screen active without enter")
	}
}

func TestResizeWhileInAltScreen(t *testing.T) {
	h := NewTestHarness(4, 20, 10)
	h.Send("primary")
	h.Send("\x1b[?1049h")
	h.Interp.Resize(6, 30)

	rows, cols := h.Interp.Screen().Size()
	if rows != 6 || cols != 30 {
		t.Fatalf("alt size: expected 6x30, got %dx%d", rows, cols)
	}
	// The primary buffer resizes in lockstep.
	rows, cols = h.Interp.Primary().Size()
	if rows != 6 || cols != 30 {
		t.Fatalf("primary size: expected 6x30, got %dx%d", rows, cols)
	}

	h.Send("\x1b[?1049l")
	h.AssertRowText(t, 0, "primary")
}

// Other private modes are ignored without disturbing the stream.
func TestUnknownPrivateModes(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("\x1b[?25l\x1b[?2004hok")
	h.AssertRowText(t, 0, "ok")
	if h.Interp.AltActive() {
		t.Fatal("unexpected alt screen")
	}
}
