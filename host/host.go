// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: host/host.go
// Summary: PTY-backed child process host: spawn, relay, signal, reap.
// Usage: One live child per host; starting a new command tears down the old.
// Notes: Spawn failure is a termination event (code 127), never an error return.

package host

import (
	"bytes"
	"log"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// SpawnFailureCode is reported when the child could not be started at all.
const SpawnFailureCode = 127

const (
	readChunk = 8192
	killGrace = 3 * time.Second
)

// Signal selects which signal to deliver to the child.
type Signal int

const (
	// SignalInterrupt delivers SIGINT (interactive cancel).
	SignalInterrupt Signal = iota
	// SignalTerminate delivers SIGTERM and escalates to SIGKILL after the
	// grace period if the child is still alive.
	SignalTerminate
	// SignalKill delivers SIGKILL immediately.
	SignalKill
)

// Handlers are the event callbacks a host delivers. They are invoked from
// the host's internal goroutines and must not call back into the host
// synchronously except for Write and SendPassword.
type Handlers struct {
	// Data receives raw output chunks from the child, in read order.
	Data func([]byte)
	// Started fires once per successful spawn.
	Started func()
	// Finished fires exactly once per Start call: normal exit code,
	// negative signal number, or SpawnFailureCode.
	Finished func(code int)
	// PasswordRequested fires when the privilege-prompt marker appears in
	// the output stream. The marker itself is stripped from Data.
	PasswordRequested func(context string)
}

// Options configure a single Start call.
type Options struct {
	Dir        string
	Env        map[string]string
	Rows, Cols int
	// PromptMarker, when non-empty, is scanned for in the output stream
	// (see PrepareArgv); PromptContext names the requester.
	PromptMarker  string
	PromptContext string
}

// Host runs one child process at a time on a pseudo-terminal.
type Host struct {
	mu       sync.Mutex
	handlers Handlers
	cmd      *exec.Cmd
	ptmx     *os.File
	running  bool
	gen      int

	promptCtx  string
	awaitingPW bool
}

// New creates a host delivering events to the given handlers.
func New(handlers Handlers) *Host {
	return &Host{handlers: handlers}
}

// IsRunning reports whether a child process is currently live.
func (h *Host) IsRunning() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.running
}

// Start spawns the command on a fresh pseudo-terminal sized rows x cols.
// Any previously live child is torn down first (best-effort). Start never
// returns an error: a failed spawn surfaces as Data with an error line
// followed by Finished(SpawnFailureCode).
func (h *Host) Start(c Command, opts Options) {
	if c.IsZero() {
		return
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	h.mu.Lock()
	h.teardownLocked()
	h.gen++
	gen := h.gen
	h.promptCtx = opts.PromptContext
	h.awaitingPW = false

	cmd := c.build()
	cmd.Dir = opts.Dir
	cmd.Env = buildEnv(opts.Env)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		h.mu.Unlock()
		log.Printf("Host: failed to start %q: %v", c.Display(), err)
		h.emitData([]byte("[error] could not start process\r\n"))
		if fin := h.handlers.Finished; fin != nil {
			fin(SpawnFailureCode)
		}
		return
	}

	h.cmd = cmd
	h.ptmx = ptmx
	h.running = true
	h.mu.Unlock()

	if started := h.handlers.Started; started != nil {
		started()
	}

	drainDone := make(chan struct{})
	go h.drain(ptmx, []byte(opts.PromptMarker), drainDone)
	go h.reap(gen, cmd, drainDone)
}

// teardownLocked signals and detaches a previous child. Its reaper still
// delivers that start's Finished event.
func (h *Host) teardownLocked() {
	if h.cmd != nil && h.cmd.Process != nil && h.running {
		h.cmd.Process.Signal(syscall.SIGHUP)
	}
	if h.ptmx != nil {
		h.ptmx.Close()
		h.ptmx = nil
	}
	h.cmd = nil
	h.running = false
}

// drain reads the PTY master until EOF/error, delivering each chunk.
// A read error is the normal end-of-stream on Linux (EIO after child exit)
// and is treated as process termination, not a host failure.
func (h *Host) drain(ptmx *os.File, marker []byte, done chan<- struct{}) {
	defer close(done)
	scan := &promptScanner{host: h, marker: marker}
	buf := make([]byte, readChunk)
	for {
		n, err := ptmx.Read(buf)
		if n > 0 {
			scan.deliver(buf[:n])
		}
		if err != nil {
			scan.flush()
			return
		}
	}
}

// reap waits for the child, lets the drain finish flushing output, then
// emits the Finished event exactly once for this generation.
func (h *Host) reap(gen int, cmd *exec.Cmd, drainDone <-chan struct{}) {
	err := cmd.Wait()
	select {
	case <-drainDone:
	case <-time.After(time.Second):
		// A grandchild may be holding the PTY open; don't wait forever.
	}

	h.mu.Lock()
	if h.gen == gen {
		h.running = false
		if h.ptmx != nil {
			h.ptmx.Close()
			h.ptmx = nil
		}
	}
	h.mu.Unlock()

	if fin := h.handlers.Finished; fin != nil {
		fin(exitCode(cmd, err))
	}
}

// promptScanner splits the privilege-prompt marker out of the output
// stream. It lives on the drain goroutine; no locking needed. A marker
// split across read chunks is held back in tail until resolved.
type promptScanner struct {
	host   *Host
	marker []byte
	tail   []byte
}

func (s *promptScanner) deliver(chunk []byte) {
	if len(s.marker) == 0 {
		s.host.emitData(chunk)
		return
	}

	buf := append(s.tail, chunk...)
	s.tail = nil
	for {
		idx := bytes.Index(buf, s.marker)
		if idx < 0 {
			break
		}
		s.host.emitData(buf[:idx])
		s.host.requestPassword()
		buf = buf[idx+len(s.marker):]
	}

	keep := markerPrefixLen(buf, s.marker)
	switch {
	case keep == 0:
		s.host.emitData(buf)
	case keep < len(buf):
		s.host.emitData(buf[:len(buf)-keep])
		s.tail = append(s.tail, buf[len(buf)-keep:]...)
	default:
		s.tail = append(s.tail, buf...)
	}
}

// flush emits any held-back bytes once the stream ends.
func (s *promptScanner) flush() {
	if len(s.tail) > 0 {
		s.host.emitData(s.tail)
		s.tail = nil
	}
}

func (h *Host) emitData(b []byte) {
	if len(b) == 0 {
		return
	}
	if data := h.handlers.Data; data != nil {
		data(b)
	}
}

func (h *Host) requestPassword() {
	h.mu.Lock()
	already := h.awaitingPW
	h.awaitingPW = true
	ctx := h.promptCtx
	h.mu.Unlock()
	if already {
		return
	}
	if req := h.handlers.PasswordRequested; req != nil {
		req(ctx)
	}
}

// SendPassword writes the secret followed by a carriage return to the
// child and clears the pending password request. The secret never passes
// through the Data handler (sudo reads it with echo disabled).
func (h *Host) SendPassword(secret string) {
	h.mu.Lock()
	h.awaitingPW = false
	ptmx := h.ptmx
	running := h.running
	h.mu.Unlock()
	if !running || ptmx == nil {
		return
	}
	ptmx.Write([]byte(secret + "\r"))
}

// AwaitingPassword reports whether a password request is pending.
func (h *Host) AwaitingPassword() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.awaitingPW
}

// Write sends raw bytes to the child. Writes are silently dropped when no
// process is live.
func (h *Host) Write(b []byte) {
	h.mu.Lock()
	ptmx := h.ptmx
	running := h.running
	h.mu.Unlock()
	if !running || ptmx == nil || len(b) == 0 {
		return
	}
	if _, err := ptmx.Write(b); err != nil {
		log.Printf("Host: write failed: %v", err)
	}
}

// Resize pushes the new window size to the PTY. The screen model must
// already have been resized by the caller.
func (h *Host) Resize(rows, cols int) {
	h.mu.Lock()
	ptmx := h.ptmx
	h.mu.Unlock()
	if ptmx == nil || rows <= 0 || cols <= 0 {
		return
	}
	pty.Setsize(ptmx, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)})
}

// Deliver sends sig to the child. SignalTerminate escalates to SIGKILL
// after the grace period if the child has not exited.
func (h *Host) Deliver(sig Signal) {
	switch sig {
	case SignalInterrupt:
		h.kill(syscall.SIGINT)
	case SignalKill:
		h.kill(syscall.SIGKILL)
	case SignalTerminate:
		h.mu.Lock()
		gen := h.gen
		h.mu.Unlock()
		h.kill(syscall.SIGTERM)
		go func() {
			time.Sleep(killGrace)
			h.mu.Lock()
			alive := h.running && h.gen == gen
			h.mu.Unlock()
			if alive {
				h.kill(syscall.SIGKILL)
			}
		}()
	}
}

func (h *Host) kill(sig syscall.Signal) {
	h.mu.Lock()
	cmd := h.cmd
	running := h.running
	h.mu.Unlock()
	if !running || cmd == nil || cmd.Process == nil {
		return
	}
	cmd.Process.Signal(sig)
}

// Close tears down any live child. Used when the owning terminal goes away.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.teardownLocked()
}

// buildEnv merges the process environment with the overrides, defaults the
// locale/color variables and forces the terminal type last.
func buildEnv(overrides map[string]string) []string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if i := strings.IndexByte(kv, '='); i > 0 {
			env[kv[:i]] = kv[i+1:]
		}
	}
	setDefault(env, "COLORTERM", "truecolor")
	setDefault(env, "LANG", "C.UTF-8")
	setDefault(env, "LC_ALL", "C.UTF-8")
	for k, v := range overrides {
		env[k] = v
	}
	env["TERM"] = "xterm-256color"

	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

func setDefault(env map[string]string, key, val string) {
	if _, ok := env[key]; !ok {
		env[key] = val
	}
}

// exitCode decodes the child's wait status: normal exit code, or the
// negative signal number when the child was killed by a signal.
func exitCode(cmd *exec.Cmd, waitErr error) int {
	ps := cmd.ProcessState
	if ps == nil {
		if waitErr != nil {
			return SpawnFailureCode
		}
		return 0
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return -int(ws.Signal())
		}
		return ws.ExitStatus()
	}
	return ps.ExitCode()
}
