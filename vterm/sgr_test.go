// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/sgr_test.go
// Summary: Tests for SGR attribute and color handling.

package vterm

import "testing"

func TestSGRAttributes(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		want     Attribute
	}{
		{"bold", "\x1b[1m", AttrBold},
		{"italic", "\x1b[3m", AttrItalic},
		{"underline", "\x1b[4m", AttrUnderline},
		{"inverse", "\x1b[7m", AttrInverse},
		{"combined", "\x1b[1;4;7m", AttrBold | AttrUnderline | AttrInverse},
		{"bold then not-bold", "\x1b[1m\x1b[22m", 0},
		{"italic then not-italic", "\x1b[3m\x1b[23m", 0},
		{"underline then not-underline", "\x1b[4m\x1b[24m", 0},
		{"inverse then not-inverse", "\x1b[7m\x1b[27m", 0},
		{"clear keeps others", "\x1b[1;4m\x1b[22m", AttrUnderline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(4, 20, 0)
			h.Send(tt.sequence + "X")
			if got := h.Cell(0, 0).Attr; got != tt.want {
				t.Errorf("attr: expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSGRStandardColors(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		fg       Color
		bg       Color
	}{
		{"red fg", "\x1b[31m", Color{Mode: ColorModeStandard, Value: 1}, DefaultBG},
		{"green bg", "\x1b[42m", DefaultFG, Color{Mode: ColorModeStandard, Value: 2}},
		{"bright cyan fg", "\x1b[96m", Color{Mode: ColorModeStandard, Value: 14}, DefaultBG},
		{"bright black bg", "\x1b[100m", DefaultFG, Color{Mode: ColorModeStandard, Value: 8}},
		{"fg then default fg", "\x1b[31;39m", DefaultFG, DefaultBG},
		{"bg then default bg", "\x1b[41;49m", DefaultFG, DefaultBG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(4, 20, 0)
			h.Send(tt.sequence + "X")
			c := h.Cell(0, 0)
			if c.FG != tt.fg {
				t.Errorf("fg: expected %+v, got %+v", tt.fg, c.FG)
			}
			if c.BG != tt.bg {
				t.Errorf("bg: expected %+v, got %+v", tt.bg, c.BG)
			}
		})
	}
}

func TestSGRExtendedColors(t *testing.T) {
	tests := []struct {
		name     string
		sequence string
		fg       Color
		bg       Color
	}{
		{"256 fg", "\x1b[38;5;196m", Color{Mode: ColorMode256, Value: 196}, DefaultBG},
		{"256 bg", "\x1b[48;5;21m", DefaultFG, Color{Mode: ColorMode256, Value: 21}},
		{"rgb fg", "\x1b[38;2;10;20;30m", Color{Mode: ColorModeRGB, R: 10, G: 20, B: 30}, DefaultBG},
		{"rgb bg", "\x1b[48;2;200;100;50m", DefaultFG, Color{Mode: ColorModeRGB, R: 200, G: 100, B: 50}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTestHarness(4, 20, 0)
			h.Send(tt.sequence + "X")
			c := h.Cell(0, 0)
			if c.FG != tt.fg {
				t.Errorf("fg: expected %+v, got %+v", tt.fg, c.FG)
			}
			if c.BG != tt.bg {
				t.Errorf("bg: expected %+v, got %+v", tt.bg, c.BG)
			}
		})
	}
}

// A malformed extended-color introducer must not abort the rest of the
// parameter list.
func TestSGRMalformedExtendedColor(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("\x1b[38;9;1m\x1b[1mX")
	c := h.Cell(0, 0)
	if c.FG != DefaultFG {
		t.Errorf("fg: expected default, got %+v", c.FG)
	}
	if c.Attr&AttrBold == 0 {
		t.Error("bold was lost after malformed color introducer")
	}
}

func TestSGRResetMatchesFreshState(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("X")
	fresh := h.Cell(0, 0)

	h.Send("\x1b[1;4;31;48;5;17m\x1b[0mY")
	reset := h.Cell(0, 1)
	reset.Rune = 'X'
	if reset != fresh {
		t.Errorf("reset cell %+v differs from fresh cell %+v", reset, fresh)
	}

	// Bare ESC[m is the same as ESC[0m.
	h.Send("\x1b[7m\x1b[mZ")
	c := h.Cell(0, 2)
	if c.Attr != 0 || c.FG != DefaultFG || c.BG != DefaultBG {
		t.Errorf("bare SGR did not reset: %+v", c)
	}
}

// Style is captured at write time: changing SGR state later must not
// restyle cells already on the grid.
func TestSGRStyleCapturedAtWrite(t *testing.T) {
	h := NewTestHarness(4, 20, 0)
	h.Send("\x1b[31mA\x1b[32mB")
	if got := h.Cell(0, 0).FG; got != (Color{Mode: ColorModeStandard, Value: 1}) {
		t.Errorf("first cell restyled: %+v", got)
	}
	if got := h.Cell(0, 1).FG; got != (Color{Mode: ColorModeStandard, Value: 2}) {
		t.Errorf("second cell: %+v", got)
	}
}

func TestAttributeString(t *testing.T) {
	if got := (AttrBold | AttrInverse).String(); got != "bold|inverse" {
		t.Errorf("unexpected attribute string %q", got)
	}
	if got := Attribute(0).String(); got != "none" {
		t.Errorf("unexpected zero attribute string %q", got)
	}
	if got := Attribute(1 << 5).String(); got != "unknown" {
		t.Errorf("unexpected unknown-bit attribute string %q", got)
	}
}
