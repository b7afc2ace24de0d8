// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/parser_test.go
// Summary: Tests for the streaming byte decoder: chunking, UTF-8, OSC and
// garbage robustness.

package vterm

import "testing"

func TestSequenceSplitAcrossChunks(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Interp.Feed([]byte("\x1b["))
	h.Interp.Feed([]byte("3"))
	h.Interp.Feed([]byte("1mX"))
	if got := h.Cell(0, 0).FG; got != (Color{Mode: ColorModeStandard, Value: 1}) {
		t.Errorf("split sequence lost: %+v", got)
	}
}

func TestUTF8SplitAcrossChunks(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	raw := []byte("héllo") // é is two bytes
	h.Interp.Feed(raw[:2]) // ends mid-rune
	h.Interp.Feed(raw[2:])
	h.AssertRowText(t, 0, "héllo")
}

func TestInvalidUTF8BecomesReplacement(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Interp.Feed([]byte{'a', 0xff, 0xfe, 'b'})
	h.AssertRowText(t, 0, "a��b")
}

// A continuation byte with no lead must not stall waiting for more input.
func TestStrayContinuationByte(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Interp.Feed([]byte{0x80})
	h.Interp.Feed([]byte("ok"))
	h.AssertRowText(t, 0, "�ok")
}

func TestOSCTitleStripped(t *testing.T) {
	t.Run("BEL terminator", func(t *testing.T) {
		h := NewTestHarness(4, 40, 0)
		h.Send("before\x1b]0;window title\aafter")
		h.AssertRowText(t, 0, "beforeafter")
	})

	t.Run("ST terminator", func(t *testing.T) {
		h := NewTestHarness(4, 40, 0)
		h.Send("before\x1b]2;window title\x1b\\after")
		h.AssertRowText(t, 0, "beforeafter")
	})
}

func TestCharsetDesignationStripped(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("a\x1b(Bb\x1b)0c")
	h.AssertRowText(t, 0, "abc")
}

func TestBareSaveRestoreEscapesStripped(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("a\x1b7b\x1b8c")
	h.AssertRowText(t, 0, "abc")
}

func TestUnknownEscapeDiscarded(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("a\x1bMb")
	h.AssertRowText(t, 0, "ab")
}

func TestOtherC0ControlsIgnored(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("a\x00\x01\x05\x7fb")
	h.AssertRowText(t, 0, "ab")
	h.AssertCursor(t, 0, 2)
}

// Arbitrary binary input must never panic or wedge the state machine.
func TestGarbageRobustness(t *testing.T) {
	h := NewTestHarness(6, 30, 20)
	chunk := make([]byte, 256)
	for i := range chunk {
		chunk[i] = byte(i)
	}
	for i := 0; i < 8; i++ {
		h.Interp.Feed(chunk)
	}
	// Still responsive afterwards.
	h.Send("\x1b[2J\x1b[Hstill alive")
	h.AssertRowText(t, 0, "still alive")
}

func TestUnknownCSIFinalByteDiscarded(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("a\x1b[5Zb\x1b[>1;2cc")
	// Unknown finals consume their sequence without printing.
	h.AssertRowText(t, 0, "abc")
}

func TestZeroWidthRunesIgnored(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("áb") // combining acute
	h.AssertCursor(t, 0, 2)
	h.AssertRowText(t, 0, "ab")
}

func TestFlushEmitsPendingPartialRune(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Interp.Feed([]byte("ok"))
	h.Interp.Feed([]byte{0xe6, 0xbc}) // truncated three-byte rune
	h.AssertRowText(t, 0, "ok")

	h.Interp.Flush()
	h.AssertRowText(t, 0, "ok�")

	// Flushing an empty buffer changes nothing.
	h.Interp.Flush()
	h.AssertRowText(t, 0, "ok�")
	h.AssertCursor(t, 0, 3)
}
