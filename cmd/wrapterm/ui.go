// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/wrapterm/ui.go
// Summary: tcell event loop and painter for the standalone runner.
// Notes: Ctrl+Q quits. Shift+PgUp/PgDn scroll the timeline. Mouse drag
// selects; the selection is echoed to the log on release.

package main

import (
	"log"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/wrappac/wrapterm/host"
	"github.com/wrappac/wrapterm/term"
)

type ui struct {
	screen   tcell.Screen
	styler   *term.Styler
	terminal *term.Terminal

	selection term.Selection
	selecting bool

	passwordMode bool
	passwordCtx  string
	passwordBuf  []rune
}

// passwordRequest is posted through the tcell event queue so prompt state
// is only ever touched on the event loop.
type passwordRequest struct {
	context string
}

func newUI(screen tcell.Screen, trueColor bool) *ui {
	return &ui{
		screen: screen,
		styler: term.NewStyler(trueColor),
	}
}

func (u *ui) promptPassword(context string) {
	u.passwordMode = true
	u.passwordCtx = context
	u.passwordBuf = u.passwordBuf[:0]
}

func (u *ui) loop() {
	for {
		u.draw()
		ev := u.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			w, h := ev.Size()
			u.terminal.Resize(h, w)
			u.screen.Sync()
		case *tcell.EventInterrupt:
			if req, ok := ev.Data().(passwordRequest); ok {
				u.promptPassword(req.context)
			}
			// Otherwise a plain repaint request, handled by the draw at
			// loop top.
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlQ {
				return
			}
			u.handleKey(ev)
		case *tcell.EventMouse:
			u.handleMouse(ev)
		case nil:
			return
		}
	}
}

func (u *ui) handleKey(ev *tcell.EventKey) {
	if u.passwordMode {
		u.handlePasswordKey(ev)
		return
	}

	if ev.Modifiers()&tcell.ModShift != 0 {
		switch ev.Key() {
		case tcell.KeyPgUp:
			u.terminal.ScrollBy(-u.pageSize())
			return
		case tcell.KeyPgDn:
			u.terminal.ScrollBy(u.pageSize())
			return
		}
	}

	if seq := term.TranslateKey(ev); seq != nil {
		u.terminal.WriteInput(seq)
	}
}

func (u *ui) handlePasswordKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		u.terminal.SendPassword(string(u.passwordBuf))
		u.passwordMode = false
		u.passwordBuf = nil
	case tcell.KeyEscape, tcell.KeyCtrlC:
		// Abort the prompt and the privileged command with it.
		u.passwordMode = false
		u.passwordBuf = nil
		u.terminal.SendSignal(host.SignalInterrupt)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if n := len(u.passwordBuf); n > 0 {
			u.passwordBuf = u.passwordBuf[:n-1]
		}
	case tcell.KeyRune:
		u.passwordBuf = append(u.passwordBuf, ev.Rune())
	}
}

func (u *ui) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	frame := u.terminal.Snapshot()
	p := term.Point{Row: frame.Offset + y, Col: x}

	switch {
	case ev.Buttons()&tcell.Button1 != 0:
		if u.selecting {
			u.selection.Extend(p)
		} else {
			u.selecting = true
			u.selection.Begin(p)
		}
		u.draw()
	case ev.Buttons()&tcell.WheelUp != 0:
		u.terminal.ScrollBy(-3)
	case ev.Buttons()&tcell.WheelDown != 0:
		u.terminal.ScrollBy(3)
	default:
		if u.selecting {
			u.selecting = false
			u.selection.Finish()
			a, b := u.selection.Bounds()
			if text := u.terminal.CopyText(a, b); text != "" {
				log.Printf("UI: Selected %d bytes", len(text))
			}
			u.draw()
		}
	}
}

func (u *ui) pageSize() int {
	_, h := u.screen.Size()
	if h < 1 {
		return 1
	}
	return h
}

func (u *ui) draw() {
	frame := u.terminal.Snapshot()
	u.screen.Clear()

	for y, row := range frame.Rows {
		for _, run := range u.styler.CoalesceRow(row) {
			x := run.Col
			for _, r := range run.Text {
				style := run.Style
				if u.selection.Contains(term.Point{Row: frame.Offset + y, Col: x}) {
					style = style.Reverse(true)
				}
				u.screen.SetContent(x, y, r, nil, style)
				if w := runewidth.RuneWidth(r); w > 1 {
					x += w
				} else {
					x++
				}
			}
		}
	}

	if u.passwordMode {
		u.drawPasswordBar()
	} else if frame.CursorVisible {
		u.screen.ShowCursor(frame.CursorCol, frame.CursorRow)
	} else {
		u.screen.HideCursor()
	}

	u.screen.Show()
}

// drawPasswordBar paints a masked prompt on the bottom row. The typed
// secret never enters the screen model.
func (u *ui) drawPasswordBar() {
	w, h := u.screen.Size()
	y := h - 1
	style := tcell.StyleDefault.Reverse(true)

	prompt := []rune("Password (" + u.passwordCtx + "): ")
	x := 0
	for _, r := range prompt {
		if x >= w {
			break
		}
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for range u.passwordBuf {
		if x >= w {
			break
		}
		u.screen.SetContent(x, y, '*', nil, style)
		x++
	}
	for ; x < w; x++ {
		u.screen.SetContent(x, y, ' ', nil, style)
	}
	u.screen.HideCursor()
}
