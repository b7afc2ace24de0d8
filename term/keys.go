// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/keys.go
// Summary: Translates key events into the byte sequences terminals emit.
// Notes: Ctrl+letter becomes control code 1-26; Alt prefixes ESC.

package term

import (
	"github.com/gdamore/tcell/v2"
)

// keySequences maps special keys to their conventional escape sequences.
var keySequences = map[tcell.Key][]byte{
	tcell.KeyUp:     []byte("\x1b[A"),
	tcell.KeyDown:   []byte("\x1b[B"),
	tcell.KeyRight:  []byte("\x1b[C"),
	tcell.KeyLeft:   []byte("\x1b[D"),
	tcell.KeyHome:   []byte("\x1b[H"),
	tcell.KeyEnd:    []byte("\x1b[F"),
	tcell.KeyInsert: []byte("\x1b[2~"),
	tcell.KeyDelete: []byte("\x1b[3~"),
	tcell.KeyPgUp:   []byte("\x1b[5~"),
	tcell.KeyPgDn:   []byte("\x1b[6~"),
	tcell.KeyF1:     []byte("\x1bOP"),
	tcell.KeyF2:     []byte("\x1bOQ"),
	tcell.KeyF3:     []byte("\x1bOR"),
	tcell.KeyF4:     []byte("\x1bOS"),
	tcell.KeyF5:     []byte("\x1b[15~"),
	tcell.KeyF6:     []byte("\x1b[17~"),
	tcell.KeyF7:     []byte("\x1b[18~"),
	tcell.KeyF8:     []byte("\x1b[19~"),
	tcell.KeyF9:     []byte("\x1b[20~"),
	tcell.KeyF10:    []byte("\x1b[21~"),
	tcell.KeyF11:    []byte("\x1b[23~"),
	tcell.KeyF12:    []byte("\x1b[24~"),
}

// TranslateKey turns a key event into the bytes a child process expects,
// or nil when the event has no terminal representation.
func TranslateKey(ev *tcell.EventKey) []byte {
	alt := ev.Modifiers()&tcell.ModAlt != 0

	var seq []byte
	switch key := ev.Key(); key {
	case tcell.KeyEnter:
		seq = []byte{'\r'}
	case tcell.KeyTab:
		seq = []byte{'\t'}
	case tcell.KeyEsc:
		seq = []byte{0x1b}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		// DEL, the modern backspace byte.
		seq = []byte{0x7f}
	case tcell.KeyRune:
		seq = []byte(string(ev.Rune()))
	default:
		if s, ok := keySequences[key]; ok {
			seq = append([]byte(nil), s...)
			break
		}
		// Ctrl+letter arrives as the control code itself (1-26).
		if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
			seq = []byte{byte(key)}
		}
	}

	if seq == nil {
		return nil
	}
	if alt {
		return append([]byte{0x1b}, seq...)
	}
	return seq
}
