// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/style.go
// Summary: Maps screen-model cells to tcell styles and coalesces draw runs.

package term

import (
	"github.com/gdamore/tcell/v2"

	"github.com/wrappac/wrapterm/vterm"
)

// Styler translates interpreter colors into concrete tcell colors using a
// local palette instance. When trueColor is off, direct-RGB cells are
// quantized to the nearest 256-palette entry.
type Styler struct {
	palette   [258]tcell.Color // 256 palette entries + default fg (256) and bg (257)
	trueColor bool
}

// NewStyler builds a styler over the standard xterm palette.
func NewStyler(trueColor bool) *Styler {
	s := &Styler{trueColor: trueColor}
	for i := 0; i < 256; i++ {
		r, g, b := vterm.PaletteRGB(uint8(i))
		s.palette[i] = tcell.NewRGBColor(int32(r), int32(g), int32(b))
	}
	s.palette[256] = s.palette[15] // default foreground
	s.palette[257] = s.palette[0]  // default background
	return s
}

// SetDefaultColors overrides the palette's default foreground/background,
// typically from the application theme.
func (s *Styler) SetDefaultColors(fg, bg tcell.Color) {
	s.palette[256] = fg
	s.palette[257] = bg
}

func (s *Styler) color(c vterm.Color, def int) tcell.Color {
	switch c.Mode {
	case vterm.ColorModeStandard, vterm.ColorMode256:
		return s.palette[c.Value]
	case vterm.ColorModeRGB:
		if s.trueColor {
			return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
		}
		return s.palette[vterm.NearestPaletteIndex(c.R, c.G, c.B)]
	default:
		return s.palette[def]
	}
}

// Style maps a cell's color and attribute state to a tcell style.
func (s *Styler) Style(c vterm.Cell) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(s.color(c.FG, 256)).
		Background(s.color(c.BG, 257))
	style = style.Bold(c.Attr&vterm.AttrBold != 0)
	style = style.Italic(c.Attr&vterm.AttrItalic != 0)
	style = style.Underline(c.Attr&vterm.AttrUnderline != 0)
	style = style.Reverse(c.Attr&vterm.AttrInverse != 0)
	return style
}

// StyleRun is a horizontal stretch of cells sharing one style, drawable in
// a single call.
type StyleRun struct {
	Col   int
	Text  []rune
	Style tcell.Style
}

// CoalesceRow merges consecutive same-styled cells of a row into runs.
// Wide runes consume their continuation cell. Coalescing is a draw-call
// optimization; the run contents are exactly the row's runes.
func (s *Styler) CoalesceRow(row []vterm.Cell) []StyleRun {
	var runs []StyleRun
	var cur *StyleRun
	for col := 0; col < len(row); col++ {
		c := row[col]
		r := c.Rune
		if r == 0 {
			r = ' '
		}
		style := s.Style(c)
		if cur == nil || style != cur.Style {
			runs = append(runs, StyleRun{Col: col, Style: style})
			cur = &runs[len(runs)-1]
		}
		cur.Text = append(cur.Text, r)
		if c.Wide {
			col++ // skip the continuation cell
		}
	}
	return runs
}
