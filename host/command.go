// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/command.go
// Summary: Tagged command variant: an argv vector or a shell command string.
// Notes: Shell strings run through $SHELL -lc, falling back to /bin/bash.

package host

import (
	"os"
	"os/exec"
	"strings"
	"unicode"
)

// Command describes what to execute: either an explicit argv vector or a
// command string to be wrapped by the user's shell. Exactly one form is set.
type Command struct {
	argv  []string
	shell string
}

// Argv builds a command that execs the given vector directly.
func Argv(argv ...string) Command {
	return Command{argv: argv}
}

// Shell builds a command that runs the given string through the user's shell.
func Shell(cmdline string) Command {
	return Command{shell: cmdline}
}

// IsZero reports whether the command is empty.
func (c Command) IsZero() bool {
	return len(c.argv) == 0 && c.shell == ""
}

// Argv returns the argv vector, or nil for shell-string commands.
func (c Command) Argv() []string { return c.argv }

// Display returns the command as echoed into the terminal before it runs,
// quoting arguments that contain whitespace.
func (c Command) Display() string {
	if c.shell != "" {
		return c.shell
	}
	parts := make([]string, len(c.argv))
	for i, a := range c.argv {
		parts[i] = quoteArg(a)
	}
	return strings.Join(parts, " ")
}

// build constructs the exec.Cmd for this command.
func (c Command) build() *exec.Cmd {
	if c.shell != "" {
		sh := os.Getenv("SHELL")
		if sh == "" {
			sh = "/bin/bash"
		}
		return exec.Command(sh, "-lc", c.shell)
	}
	return exec.Command(c.argv[0], c.argv[1:]...)
}

func quoteArg(v string) string {
	if strings.IndexFunc(v, unicode.IsSpace) < 0 {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}
