// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: Terminal boundary object tying interpreter, screen and process host.
// Usage: The surrounding application talks to the core exclusively through this type.
// Notes: All screen access is serialized by the terminal mutex; event callbacks
//        arrive on host goroutines and must not re-enter the terminal synchronously.

package term

import (
	"fmt"
	"log"
	"sync"

	"github.com/wrappac/wrapterm/history"
	"github.com/wrappac/wrapterm/host"
	"github.com/wrappac/wrapterm/vterm"
)

// Events are the callbacks the terminal raises toward the embedding
// application.
type Events struct {
	// Started fires when a command has been spawned.
	Started func()
	// Finished fires exactly once per Start: exit code, negative signal
	// number, or host.SpawnFailureCode.
	Finished func(code int)
	// PasswordRequested fires when a privilege prompt is detected.
	PasswordRequested func(context string)
	// Refresh fires whenever screen content changed and a repaint is due.
	Refresh func()
}

// Terminal is the embeddable terminal-emulator core: a screen model fed by
// an escape-sequence interpreter, attached to a PTY process host.
type Terminal struct {
	mu     sync.Mutex
	interp *vterm.Interpreter
	proc   *host.Host
	events Events
	hist   *history.Store

	rows, cols int
	offset     int  // viewport scroll offset into the timeline
	follow     bool // pinned to the bottom, auto-scroll on output
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithEvents sets the event callbacks.
func WithEvents(ev Events) Option {
	return func(t *Terminal) { t.events = ev }
}

// WithHistory attaches a persistent command-history store; every started
// command is recorded in it.
func WithHistory(h *history.Store) Option {
	return func(t *Terminal) { t.hist = h }
}

// DefaultScrollback is the scrollback row capacity used by New.
const DefaultScrollback = 5000

// New creates a terminal with the given grid size.
func New(rows, cols int, opts ...Option) *Terminal {
	return NewWithScrollback(rows, cols, DefaultScrollback, opts...)
}

// NewWithScrollback creates a terminal with an explicit scrollback capacity.
func NewWithScrollback(rows, cols, scrollback int, opts ...Option) *Terminal {
	if rows < 1 {
		rows = 24
	}
	if cols < 1 {
		cols = 80
	}
	t := &Terminal{
		interp: vterm.NewInterpreter(vterm.NewScreen(rows, cols, scrollback)),
		rows:   rows,
		cols:   cols,
		follow: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.proc = host.New(host.Handlers{
		Data:              t.onData,
		Started:           t.onStarted,
		Finished:          t.onFinished,
		PasswordRequested: t.onPassword,
	})
	return t
}

// Start begins a new command. A live previous command is signalled and
// reaped first. argv commands through sudo/doas get their password prompt
// rewritten so it surfaces as a PasswordRequested event instead of text.
func (t *Terminal) Start(c host.Command, env map[string]string) {
	if c.IsZero() {
		return
	}

	opts := host.Options{Env: env}
	run := c
	if argv := c.Argv(); argv != nil {
		prepared, context := host.PrepareArgv(argv)
		if context == "sudo" || context == "doas" {
			opts.PromptMarker = host.PasswordMarker
			opts.PromptContext = context
			run = host.Argv(prepared...)
		}
	}

	display := c.Display()
	t.FeedText(fmt.Sprintf("$ %s\r\n\r\n", display))
	if t.hist != nil {
		if err := t.hist.Add(display); err != nil {
			log.Printf("Terminal: history record failed: %v", err)
		}
	}

	t.mu.Lock()
	opts.Rows, opts.Cols = t.rows, t.cols
	t.mu.Unlock()
	t.proc.Start(run, opts)
}

// onData feeds a chunk of child output to the interpreter.
func (t *Terminal) onData(chunk []byte) {
	t.mu.Lock()
	t.interp.Feed(chunk)
	if t.follow {
		t.offset = t.interp.Screen().MaxScroll()
	}
	t.mu.Unlock()
	t.notifyRefresh()
}

func (t *Terminal) onStarted() {
	if t.events.Started != nil {
		t.events.Started()
	}
}

// onFinished appends the exit banner and forwards the termination event.
func (t *Terminal) onFinished(code int) {
	t.mu.Lock()
	// The output stream is over; a truncated trailing rune surfaces as a
	// replacement character rather than vanishing.
	t.interp.Flush()
	t.mu.Unlock()
	t.FeedText(fmt.Sprintf("\r\n[exit %d]\r\n", code))
	if t.events.Finished != nil {
		t.events.Finished(code)
	}
}

func (t *Terminal) onPassword(context string) {
	if t.events.PasswordRequested != nil {
		t.events.PasswordRequested(context)
	}
}

func (t *Terminal) notifyRefresh() {
	if t.events.Refresh != nil {
		t.events.Refresh()
	}
}

// FeedText injects text directly into the screen model, with or without a
// live process. Used by the application for status and log messages.
func (t *Terminal) FeedText(text string) {
	t.mu.Lock()
	t.interp.FeedString(text)
	if t.follow {
		t.offset = t.interp.Screen().MaxScroll()
	}
	t.mu.Unlock()
	t.notifyRefresh()
}

// WriteInput forwards raw bytes (keystrokes, pasted text) to the child.
func (t *Terminal) WriteInput(b []byte) {
	t.proc.Write(b)
}

// RunLine sends a complete input line, terminated with a carriage return.
func (t *Terminal) RunLine(line string) {
	t.proc.Write([]byte(line + "\r"))
}

// SendSignal delivers a signal to the child process.
func (t *Terminal) SendSignal(sig host.Signal) {
	t.proc.Deliver(sig)
}

// SendPassword answers a pending privilege prompt. The secret goes straight
// to the PTY and never appears on the screen.
func (t *Terminal) SendPassword(secret string) {
	t.proc.SendPassword(secret)
}

// IsRunning reports whether a child process is live.
func (t *Terminal) IsRunning() bool {
	return t.proc.IsRunning()
}

// AwaitingPassword reports whether a privilege prompt is pending.
func (t *Terminal) AwaitingPassword() bool {
	return t.proc.AwaitingPassword()
}

// Resize recomputes the grid: the screen model reflows first, then the PTY
// is informed of the new window size.
func (t *Terminal) Resize(rows, cols int) {
	if rows < 1 || cols < 1 {
		return
	}
	t.mu.Lock()
	t.rows, t.cols = rows, cols
	t.interp.Resize(rows, cols)
	t.clampOffsetLocked()
	t.mu.Unlock()
	t.proc.Resize(rows, cols)
	t.notifyRefresh()
}

// Reset discards scrollback and screen content and reinitializes the
// interpreter. The child process, if any, is left running.
func (t *Terminal) Reset() {
	t.mu.Lock()
	t.interp.Reset()
	t.offset = 0
	t.follow = true
	t.mu.Unlock()
	t.notifyRefresh()
}

// Close tears down the child process.
func (t *Terminal) Close() {
	t.proc.Close()
	if t.hist != nil {
		if err := t.hist.Close(); err != nil {
			log.Printf("Terminal: history close failed: %v", err)
		}
	}
}

// ScrollTo sets the viewport offset into the timeline. Offsets clamp into
// range; scrolling to the bottom re-enables follow mode.
func (t *Terminal) ScrollTo(offset int) {
	t.mu.Lock()
	t.offset = offset
	t.clampOffsetLocked()
	t.mu.Unlock()
	t.notifyRefresh()
}

// ScrollBy adjusts the viewport offset by delta rows.
func (t *Terminal) ScrollBy(delta int) {
	t.mu.Lock()
	t.offset += delta
	t.clampOffsetLocked()
	t.mu.Unlock()
	t.notifyRefresh()
}

func (t *Terminal) clampOffsetLocked() {
	max := t.interp.Screen().MaxScroll()
	if t.offset >= max {
		t.offset = max
		t.follow = true
	} else {
		t.follow = false
	}
	if t.offset < 0 {
		t.offset = 0
	}
}

// Frame is a consistent snapshot of the visible window for painting.
type Frame struct {
	Rows          [][]vterm.Cell
	CursorRow     int
	CursorCol     int
	CursorVisible bool
	Offset        int
	MaxOffset     int
}

// Snapshot captures the visible slice of the timeline plus cursor state.
// The cursor is only visible when the viewport is pinned to the bottom.
func (t *Terminal) Snapshot() Frame {
	t.mu.Lock()
	defer t.mu.Unlock()

	scr := t.interp.Screen()
	rows, cols := scr.Size()
	curRow, curCol := scr.Cursor()
	if curCol >= cols {
		curCol = cols - 1
	}
	max := scr.MaxScroll()

	frame := Frame{
		Rows:          scr.Viewport(t.offset),
		CursorVisible: t.follow,
		Offset:        t.offset,
		MaxOffset:     max,
	}
	// Cursor coordinates are grid-relative; in a scrolled-back view the
	// grid starts at timeline index max.
	frame.CursorRow = curRow + (max - t.offset)
	frame.CursorCol = curCol
	if frame.CursorRow < 0 || frame.CursorRow >= rows {
		frame.CursorVisible = false
	}
	return frame
}

// CopyText extracts the text between two timeline coordinates, trimming
// trailing blanks per line and joining lines with newlines.
func (t *Terminal) CopyText(a, b Point) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return ExtractText(t.interp.Screen(), a, b)
}
