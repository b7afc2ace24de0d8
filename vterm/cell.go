// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/cell.go
// Summary: Cell, attribute and color types for the terminal screen model.
// Usage: Consumed by the screen buffer and the escape-sequence interpreter.
// Notes: Cells are plain values; styling is copied in at write time.

package vterm

// Attribute is a bitmask of text attributes applied to a cell.
type Attribute uint16

const (
	AttrBold Attribute = 1 << iota
	AttrItalic
	AttrUnderline
	AttrInverse
)

// String returns a human-readable representation of the attribute flags.
func (a Attribute) String() string {
	if a == 0 {
		return "none"
	}
	var parts []string
	if a&AttrBold != 0 {
		parts = append(parts, "bold")
	}
	if a&AttrItalic != 0 {
		parts = append(parts, "italic")
	}
	if a&AttrUnderline != 0 {
		parts = append(parts, "underline")
	}
	if a&AttrInverse != 0 {
		parts = append(parts, "inverse")
	}
	if len(parts) == 0 {
		return "unknown"
	}
	result := parts[0]
	for i := 1; i < len(parts); i++ {
		result += "|" + parts[i]
	}
	return result
}

// ColorMode defines the type of color stored.
type ColorMode int

const (
	ColorModeDefault  ColorMode = iota // Default terminal color
	ColorModeStandard                  // The basic 16 ANSI colors
	ColorMode256                       // 256-color palette
	ColorModeRGB                       // Direct RGB triple
)

// Color represents a color in potentially different modes.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Palette index for Standard (0-15) and 256-mode (0-255)
	R, G, B uint8 // Channel values for RGB mode
}

// Predefined default colors for convenience.
var (
	DefaultFG = Color{Mode: ColorModeDefault}
	DefaultBG = Color{Mode: ColorModeDefault}
)

// Cell represents a single character position on the screen.
type Cell struct {
	Rune rune
	FG   Color
	BG   Color
	Attr Attribute
	Wide bool // True if this cell holds a wide (2-column) character
}

// blankCell is what erase operations and fresh rows are filled with.
var blankCell = Cell{Rune: ' '}

// blankRow returns a freshly allocated row of default cells.
func blankRow(cols int) []Cell {
	row := make([]Cell, cols)
	for i := range row {
		row[i] = blankCell
	}
	return row
}
