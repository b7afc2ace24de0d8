// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/wrapterm/main.go
// Summary: Standalone terminal runner for the wrapterm engine.
// Usage: `wrapterm -c "pacman -Qu"` or `wrapterm sudo pacman -Syu`.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	xterm "golang.org/x/term"

	"github.com/wrappac/wrapterm/config"
	"github.com/wrappac/wrapterm/history"
	"github.com/wrappac/wrapterm/host"
	"github.com/wrappac/wrapterm/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("wrapterm", flag.ContinueOnError)
	cmdline := fs.String("c", "", "Command line to run through the shell")
	logPath := fs.String("log", "wrapterm.log", "Log file path")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.Println("wrapterm starting...")

	if !xterm.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	var command host.Command
	switch {
	case *cmdline != "":
		command = host.Shell(*cmdline)
	case fs.NArg() > 0:
		command = host.Argv(fs.Args()...)
	default:
		shell := os.Getenv("SHELL")
		if shell == "" {
			shell = "/bin/bash"
		}
		command = host.Argv(shell)
	}

	settings := config.Settings()
	scrollback := settings.GetInt("terminal", "scrollback_lines", term.DefaultScrollback)
	trueColor := settings.GetBool("terminal", "true_color", true)

	var hist *history.Store
	if settings.GetBool("history", "enabled", true) {
		path, err := config.HistoryPath()
		if err != nil {
			log.Printf("Main: Failed to resolve history path: %v", err)
		} else if hist, err = history.Open(path, settings.GetInt("history", "limit", 0)); err != nil {
			log.Printf("Main: Failed to open command history: %v", err)
			hist = nil
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	ui := newUI(screen, trueColor)

	cols, rows := screen.Size()
	opts := []term.Option{term.WithEvents(term.Events{
		Refresh: func() {
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		},
		Finished: func(code int) {
			log.Printf("Main: Command finished with code %d", code)
			screen.PostEvent(tcell.NewEventInterrupt(nil))
		},
		PasswordRequested: func(context string) {
			// Handled on the event loop; UI state is not touched here.
			screen.PostEvent(tcell.NewEventInterrupt(passwordRequest{context: context}))
		},
	})}
	if hist != nil {
		opts = append(opts, term.WithHistory(hist))
	}

	t := term.NewWithScrollback(rows, cols, scrollback, opts...)
	defer t.Close()
	ui.terminal = t

	t.Start(command, nil)

	ui.loop()
	log.Println("wrapterm stopped cleanly.")
	return nil
}
