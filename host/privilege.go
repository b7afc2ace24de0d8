// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/privilege.go
// Summary: argv rewriting for sudo/doas so password prompts become detectable.
// Usage: Applied before spawn; the host scans output for the injected marker.
// Notes: Preserves user-supplied flags; only the prompt is replaced.

package host

import (
	"path/filepath"
	"strings"
)

// PasswordMarker is the prompt string injected into sudo/doas invocations.
// When it appears in the output stream the host strips it and raises a
// password-request event instead of printing it.
const PasswordMarker = "[WRAPPAC_PASSWORD_PROMPT]"

// sudo flags that consume a following argument.
var sudoShortWithArg = map[string]bool{
	"-A": true, "-C": true, "-g": true, "-p": true, "-r": true, "-t": true, "-u": true,
}

var sudoLongWithArg = map[string]bool{
	"--askpass": true, "--chdir": true, "--cd": true, "--close-from": true,
	"--prompt": true, "--group": true, "--host": true, "--type": true,
	"--role": true, "--chroot": true, "--user": true,
}

// PrepareArgv rewrites a privilege-escalation command so its password prompt
// is the marker. Returns the rewritten argv and a context name describing who
// is asking for the password ("sudo", "doas", or the command's base name for
// commands that never prompt).
func PrepareArgv(argv []string) (out []string, context string) {
	if len(argv) == 0 {
		return argv, ""
	}
	switch filepath.Base(argv[0]) {
	case "sudo":
		return prepareSudo(argv), "sudo"
	case "doas":
		return prepareDoas(argv), "doas"
	default:
		return argv, filepath.Base(argv[0])
	}
}

// prepareSudo walks sudo's options, drops any user-supplied prompt, forces
// stdin password entry (-S) and injects the marker prompt before the wrapped
// command.
func prepareSudo(argv []string) []string {
	options := []string{}
	hasStdin := false

	idx := 1
	for idx < len(argv) {
		item := argv[idx]

		if item == "--" {
			options = append(options, item)
			idx++
			break
		}

		if strings.HasPrefix(item, "--") {
			if strings.HasPrefix(item, "--prompt=") {
				idx++
				continue
			}
			if item == "--prompt" {
				if idx+1 < len(argv) {
					idx += 2
				} else {
					idx++
				}
				continue
			}
			if item == "--stdin" {
				hasStdin = true
				idx++
				continue
			}
			options = append(options, item)
			if sudoLongWithArg[item] && !strings.Contains(item, "=") {
				idx++
				if idx < len(argv) {
					options = append(options, argv[idx])
					idx++
				}
				continue
			}
			idx++
			continue
		}

		if strings.HasPrefix(item, "-") && item != "-" {
			if item == "-S" {
				hasStdin = true
				idx++
				continue
			}
			if item == "-p" {
				if idx+1 < len(argv) {
					idx += 2
				} else {
					idx++
				}
				continue
			}
			options = append(options, item)
			if sudoShortWithArg[item] {
				if idx+1 < len(argv) {
					options = append(options, argv[idx+1])
					idx += 2
				} else {
					idx++
				}
				continue
			}
			idx++
			continue
		}

		break
	}

	command := argv[idx:]

	insertAt := len(options)
	for i, o := range options {
		if o == "--" {
			insertAt = i
			break
		}
	}
	var extra []string
	if !hasStdin {
		extra = append(extra, "-S")
	}
	extra = append(extra, "-p", PasswordMarker)

	out := []string{argv[0]}
	out = append(out, options[:insertAt]...)
	out = append(out, extra...)
	out = append(out, options[insertAt:]...)
	out = append(out, command...)
	return out
}

// prepareDoas replaces any user-supplied -p prompt with the marker.
func prepareDoas(argv []string) []string {
	var remaining []string
	skipNext := false
	for _, item := range argv[1:] {
		if skipNext {
			skipNext = false
			continue
		}
		if item == "-p" {
			skipNext = true
			continue
		}
		remaining = append(remaining, item)
	}

	out := []string{argv[0], "-p", PasswordMarker}
	return append(out, remaining...)
}

// markerPrefixLen returns the length of the longest proper marker prefix
// found at the end of buf. The host holds that many bytes back so a marker
// split across read chunks is still detected.
func markerPrefixLen(buf, marker []byte) int {
	maxLen := len(marker) - 1
	if len(buf) < maxLen {
		maxLen = len(buf)
	}
	for length := maxLen; length > 0; length-- {
		if strings.HasPrefix(string(marker), string(buf[len(buf)-length:])) {
			return length
		}
	}
	return 0
}
