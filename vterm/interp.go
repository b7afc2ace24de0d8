// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/interp.go
// Summary: CSI dispatch and SGR state for the escape-sequence interpreter.
// Usage: Fed decoded runes/sequences by the stream parser in parser.go.
// Notes: Unrecognized sequences are discarded; parameters clamp, never error.

package vterm

// Interpreter turns a decoded escape-sequence stream into screen mutations.
// It owns the current SGR attributes, which are copied into each cell at
// write time, and the primary/alternate screen pair.
type Interpreter struct {
	primary *Screen
	alt     *Screen
	active  *Screen
	inAlt   bool

	fg, bg Color
	attr   Attribute

	// stream decoder state, see parser.go
	state        parseState
	params       []int
	currentParam int
	private      bool
	pending      []byte
}

// NewInterpreter creates an interpreter attached to the given screen.
func NewInterpreter(screen *Screen) *Interpreter {
	return &Interpreter{
		primary: screen,
		active:  screen,
		fg:      DefaultFG,
		bg:      DefaultBG,
		params:  make([]int, 0, 16),
	}
}

// Screen returns the currently active screen buffer (primary or alternate).
func (in *Interpreter) Screen() *Screen { return in.active }

// Primary returns the primary screen buffer regardless of alt-screen state.
func (in *Interpreter) Primary() *Screen { return in.primary }

// AltActive reports whether the alternate screen is in use.
func (in *Interpreter) AltActive() bool { return in.inAlt }

// Reset clears the primary screen and scrollback, leaves alternate-screen
// mode and reinitializes all SGR state.
func (in *Interpreter) Reset() {
	in.primary.Reset()
	in.alt = nil
	in.active = in.primary
	in.inAlt = false
	in.resetStyle()
	in.state = stateGround
	in.pending = nil
}

func (in *Interpreter) resetStyle() {
	in.fg, in.bg = DefaultFG, DefaultBG
	in.attr = 0
}

// place writes a printable rune with the current style.
func (in *Interpreter) place(r rune) {
	in.active.Put(Cell{Rune: r, FG: in.fg, BG: in.bg, Attr: in.attr})
}

// param returns the i-th parameter, substituting def for missing or zero
// values (most CSI commands treat 0 as "use the default").
func (in *Interpreter) param(i, def int) int {
	if i < len(in.params) && in.params[i] != 0 {
		return in.params[i]
	}
	return def
}

// dispatchCSI executes a complete CSI sequence. cmd is the final byte.
func (in *Interpreter) dispatchCSI(cmd byte) {
	if in.private {
		in.dispatchPrivate(cmd)
		return
	}

	scr := in.active
	row, col := scr.Cursor()

	switch cmd {
	case 'm':
		in.applySGR()
	case 'H', 'f':
		scr.MoveCursor(in.param(0, 1)-1, in.param(1, 1)-1)
	case 'A':
		scr.MoveCursor(row-in.param(0, 1), col)
	case 'B':
		scr.MoveCursor(row+in.param(0, 1), col)
	case 'C':
		scr.MoveCursor(row, col+in.param(0, 1))
	case 'D':
		scr.MoveCursor(row, col-in.param(0, 1))
	case 'E':
		scr.MoveCursor(row+in.param(0, 1), 0)
	case 'F':
		scr.MoveCursor(row-in.param(0, 1), 0)
	case 'G':
		scr.MoveCursor(row, in.param(0, 1)-1)
	case 'J':
		scr.EraseDisplay(in.param(0, 0))
	case 'K':
		scr.EraseLine(in.param(0, 0))
	case 'S':
		scr.ScrollUp(in.param(0, 1))
	case 's':
		scr.SaveCursor()
	case 'u':
		scr.RestoreCursor()
	}
	// Anything else: robustness over completeness.
}

// dispatchPrivate handles CSI ? sequences. Only the alternate-screen toggles
// (modes 47 and 1049) are recognized.
func (in *Interpreter) dispatchPrivate(cmd byte) {
	if cmd != 'h' && cmd != 'l' {
		return
	}
	enable := cmd == 'h'
	for _, p := range in.params {
		if p == 47 || p == 1049 {
			in.setAltScreen(enable)
		}
	}
}

// setAltScreen switches between the primary and alternate buffers. The
// alternate buffer has zero scrollback capacity and carries the cursor
// position over on entry. Only one level is tracked: re-entering while
// already alternate is a no-op beyond the cursor carry.
func (in *Interpreter) setAltScreen(enable bool) {
	if enable {
		row, col := in.active.Cursor()
		if !in.inAlt {
			rows, cols := in.active.Size()
			if in.alt == nil {
				in.alt = NewScreen(rows, cols, 0)
			} else {
				in.alt.Resize(rows, cols)
			}
			in.active = in.alt
			in.inAlt = true
		}
		in.active.MoveCursor(row, col)
		return
	}
	if in.inAlt {
		in.active = in.primary
		in.inAlt = false
	}
}

// resizeScreens keeps both buffers in sync with the viewport geometry.
func (in *Interpreter) resizeScreens(rows, cols int) {
	in.primary.Resize(rows, cols)
	if in.alt != nil {
		in.alt.Resize(rows, cols)
	}
}

// Resize propagates a geometry change to the screen buffers.
func (in *Interpreter) Resize(rows, cols int) {
	in.resizeScreens(rows, cols)
}

// applySGR walks the parameter list of a CSI m sequence in a single pass,
// consuming the multi-part 38/48 extended-color forms inline.
func (in *Interpreter) applySGR() {
	params := in.params
	if len(params) == 0 {
		params = []int{0}
	}
	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			in.resetStyle()
		case p == 1:
			in.attr |= AttrBold
		case p == 3:
			in.attr |= AttrItalic
		case p == 4:
			in.attr |= AttrUnderline
		case p == 7:
			in.attr |= AttrInverse
		case p == 22:
			in.attr &^= AttrBold
		case p == 23:
			in.attr &^= AttrItalic
		case p == 24:
			in.attr &^= AttrUnderline
		case p == 27:
			in.attr &^= AttrInverse
		case p >= 30 && p <= 37:
			in.fg = Color{Mode: ColorModeStandard, Value: uint8(p - 30)}
		case p == 39:
			in.fg = DefaultFG
		case p >= 40 && p <= 47:
			in.bg = Color{Mode: ColorModeStandard, Value: uint8(p - 40)}
		case p == 49:
			in.bg = DefaultBG
		case p >= 90 && p <= 97:
			in.fg = Color{Mode: ColorModeStandard, Value: uint8(p - 90 + 8)}
		case p >= 100 && p <= 107:
			in.bg = Color{Mode: ColorModeStandard, Value: uint8(p - 100 + 8)}
		case p == 38 || p == 48:
			color, consumed, ok := extendedColor(params[i+1:])
			if ok {
				if p == 38 {
					in.fg = color
				} else {
					in.bg = color
				}
				i += consumed
			}
		}
	}
}

// extendedColor parses the tail of a 38/48 sequence: 5;<idx> selects from
// the 256-color palette, 2;<r>;<g>;<b> a direct RGB triple with each
// channel clamped to 0-255.
func extendedColor(rest []int) (c Color, consumed int, ok bool) {
	if len(rest) >= 2 && rest[0] == 5 {
		return Color{Mode: ColorMode256, Value: uint8(clamp(rest[1], 0, 255))}, 2, true
	}
	if len(rest) >= 4 && rest[0] == 2 {
		return Color{
			Mode: ColorModeRGB,
			R:    uint8(clamp(rest[1], 0, 255)),
			G:    uint8(clamp(rest[2], 0, 255)),
			B:    uint8(clamp(rest[3], 0, 255)),
		}, 4, true
	}
	return Color{}, 0, false
}
