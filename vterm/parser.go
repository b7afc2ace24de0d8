// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: vterm/parser.go
// Summary: Streaming VT100/ANSI decode state machine over raw PTY bytes.
// Usage: Feed raw child-process output; screen mutations happen as a side effect.
// Notes: Invalid UTF-8 becomes U+FFFD; truncated sequences wait for more bytes.

package vterm

import "unicode/utf8"

type parseState int

const (
	stateGround parseState = iota
	stateEscape
	stateCSI
	stateOSC
	stateCharset
)

// Feed decodes a chunk of raw bytes from the child process and applies the
// resulting mutations to the active screen. The chunk may end mid-rune or
// mid-sequence; decoding resumes on the next call. Feed never fails.
func (in *Interpreter) Feed(data []byte) {
	buf := data
	if len(in.pending) > 0 {
		buf = append(in.pending, data...)
		in.pending = nil
	}
	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			if !utf8.RuneStart(buf[0]) || len(buf) >= utf8.UTFMax {
				// Genuinely invalid byte: lossy replacement.
				in.step(utf8.RuneError)
				buf = buf[1:]
				continue
			}
			if !utf8.FullRune(buf) {
				// Possible partial rune at the end of the chunk.
				in.pending = append(in.pending, buf...)
				return
			}
			in.step(utf8.RuneError)
			buf = buf[1:]
			continue
		}
		in.step(r)
		buf = buf[size:]
	}
}

// FeedString is a convenience wrapper around Feed.
func (in *Interpreter) FeedString(s string) {
	in.Feed([]byte(s))
}

// Flush ends the byte stream: a buffered partial rune can no longer be
// completed and is emitted as a single replacement character.
func (in *Interpreter) Flush() {
	if len(in.pending) == 0 {
		return
	}
	in.pending = nil
	in.step(utf8.RuneError)
}

// step advances the decode state machine by one rune.
func (in *Interpreter) step(r rune) {
	switch in.state {
	case stateGround:
		in.stepGround(r)
	case stateEscape:
		in.stepEscape(r)
	case stateCSI:
		in.stepCSI(r)
	case stateOSC:
		// Window-title and other OSC payloads are dropped entirely.
		if r == '\a' {
			in.state = stateGround
		} else if r == '\x1b' {
			// Allow ESC \ (ST) as an alternate terminator.
			in.state = stateEscape
		}
	case stateCharset:
		// The designation byte after ESC ( / ESC ) carries no meaning here.
		in.state = stateGround
	}
}

func (in *Interpreter) stepGround(r rune) {
	switch r {
	case '\x1b':
		in.state = stateEscape
	case '\n', '\r', '\b', '\t':
		in.place(r)
	default:
		if r < 0x20 || r == 0x7f {
			return // other C0 controls are ignored
		}
		in.place(r)
	}
}

func (in *Interpreter) stepEscape(r rune) {
	switch r {
	case '[':
		in.state = stateCSI
		in.params = in.params[:0]
		in.currentParam = 0
		in.private = false
	case ']':
		in.state = stateOSC
	case '(', ')':
		in.state = stateCharset
	case '7', '8':
		// Bare DECSC/DECRC are superseded by CSI s/u handling.
		in.state = stateGround
	case '\\':
		// ST terminating an OSC that re-entered escape state.
		in.state = stateGround
	default:
		in.state = stateGround
	}
}

func (in *Interpreter) stepCSI(r rune) {
	switch {
	case r >= '0' && r <= '9':
		in.currentParam = in.currentParam*10 + int(r-'0')
	case r == ';':
		in.params = append(in.params, in.currentParam)
		in.currentParam = 0
	case r == '?':
		in.private = true
	case r >= '@' && r <= '~':
		in.params = append(in.params, in.currentParam)
		in.dispatchCSI(byte(r))
		in.state = stateGround
	}
	// Intermediate bytes and stray runes stay in CSI state until a final
	// byte arrives; adversarial streams cannot wedge the machine because
	// every final byte in '@'..'~' exits.
}
