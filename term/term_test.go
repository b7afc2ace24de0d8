// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_test.go
// Summary: Tests for the terminal boundary object: lifecycle, viewport and
// process wiring.
// Notes: Process tests need /bin/sh and a functional /dev/ptmx.

package term

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/wrappac/wrapterm/history"
	"github.com/wrappac/wrapterm/host"
	"github.com/wrappac/wrapterm/vterm"
)

func frameLines(f Frame) []string {
	lines := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		var sb strings.Builder
		for _, c := range row {
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			sb.WriteRune(r)
		}
		lines[i] = strings.TrimRight(sb.String(), " ")
	}
	return lines
}

func frameContains(f Frame, want string) bool {
	for _, l := range frameLines(f) {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

func waitFinished(t *testing.T, ch <-chan int) int {
	t.Helper()
	select {
	case code := <-ch:
		return code
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for command to finish")
		return 0
	}
}

func TestFeedTextRenders(t *testing.T) {
	trm := New(4, 20)
	defer trm.Close()

	trm.FeedText("hello\r\nworld")
	f := trm.Snapshot()
	lines := frameLines(f)
	if lines[0] != "hello" || lines[1] != "world" {
		t.Errorf("unexpected frame: %q", lines)
	}
	if !f.CursorVisible || f.CursorRow != 1 || f.CursorCol != 5 {
		t.Errorf("cursor: %+v", f)
	}
}

func TestScrollingViewport(t *testing.T) {
	trm := NewWithScrollback(3, 20, 100)
	defer trm.Close()

	for i := 0; i < 10; i++ {
		trm.FeedText("line\r\n")
	}
	f := trm.Snapshot()
	if f.MaxOffset == 0 {
		t.Fatal("expected scrollback to accumulate")
	}
	if f.Offset != f.MaxOffset {
		t.Fatalf("follow mode should pin to bottom: %d != %d", f.Offset, f.MaxOffset)
	}

	trm.ScrollBy(-2)
	f = trm.Snapshot()
	if f.Offset != f.MaxOffset-2 {
		t.Errorf("offset after scroll: %d", f.Offset)
	}
	if f.CursorVisible {
		t.Error("cursor visible while scrolled back")
	}

	// New output must not drag the view down while scrolled back.
	held := f.Offset
	trm.FeedText("more\r\n")
	if got := trm.Snapshot().Offset; got != held {
		t.Errorf("scrolled-back offset moved: %d -> %d", held, got)
	}

	// Scrolling past the bottom clamps and re-enables follow.
	trm.ScrollBy(1000)
	f = trm.Snapshot()
	if f.Offset != f.MaxOffset || !f.CursorVisible {
		t.Errorf("follow not restored: %+v", f)
	}

	trm.ScrollTo(0)
	if got := trm.Snapshot().Offset; got != 0 {
		t.Errorf("scroll to top: offset %d", got)
	}
}

func TestRefreshEventFires(t *testing.T) {
	refreshed := 0
	trm := New(4, 20, WithEvents(Events{Refresh: func() { refreshed++ }}))
	defer trm.Close()

	trm.FeedText("x")
	if refreshed == 0 {
		t.Error("no refresh after FeedText")
	}
}

func TestResizePropagates(t *testing.T) {
	trm := New(4, 20)
	defer trm.Close()

	trm.FeedText("keep")
	trm.Resize(6, 30)
	f := trm.Snapshot()
	if len(f.Rows) != 6 || len(f.Rows[0]) != 30 {
		t.Fatalf("frame size: %dx%d", len(f.Rows), len(f.Rows[0]))
	}
	if !frameContains(f, "keep") {
		t.Error("content lost on resize")
	}

	// Degenerate sizes are ignored.
	trm.Resize(0, -1)
	if got := len(trm.Snapshot().Rows); got != 6 {
		t.Errorf("degenerate resize applied: %d rows", got)
	}
}

func TestCopyText(t *testing.T) {
	trm := New(4, 20)
	defer trm.Close()

	trm.FeedText("alpha\r\nbeta")
	got := trm.CopyText(Point{0, 0}, Point{1, 3})
	if got != "alpha\nbeta" {
		t.Errorf("expected %q, got %q", "alpha\nbeta", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	trm := NewWithScrollback(2, 20, 100)
	defer trm.Close()

	trm.FeedText("a\r\nb\r\nc\r\nd")
	trm.Reset()
	f := trm.Snapshot()
	if f.MaxOffset != 0 || frameContains(f, "a") {
		t.Errorf("reset left content: %+v", frameLines(f))
	}
}

func TestStartEchoesAndRuns(t *testing.T) {
	done := make(chan int, 1)
	trm := New(6, 60, WithEvents(Events{Finished: func(code int) { done <- code }}))
	defer trm.Close()

	trm.Start(host.Argv("/bin/sh", "-c", "echo out-marker"), nil)
	if code := waitFinished(t, done); code != 0 {
		t.Fatalf("exit code %d", code)
	}

	f := trm.Snapshot()
	if !frameContains(f, "$ /bin/sh -c 'echo out-marker'") {
		t.Errorf("command echo missing: %q", frameLines(f))
	}
	if !frameContains(f, "out-marker") {
		t.Errorf("child output missing: %q", frameLines(f))
	}
	if !frameContains(f, "[exit 0]") {
		t.Errorf("exit banner missing: %q", frameLines(f))
	}
	if trm.IsRunning() {
		t.Error("still running after exit")
	}
}

func TestStartStyledOutput(t *testing.T) {
	done := make(chan int, 1)
	trm := New(6, 40, WithEvents(Events{Finished: func(code int) { done <- code }}))
	defer trm.Close()

	trm.Start(host.Argv("/bin/sh", "-c", `printf '\033[31mRED\033[0m\n'`), nil)
	waitFinished(t, done)

	f := trm.Snapshot()
	red := vterm.Color{Mode: vterm.ColorModeStandard, Value: 1}
	found := false
	for _, row := range f.Rows {
		for i := 0; i+2 < len(row); i++ {
			if row[i].Rune == 'R' && row[i].FG == red &&
				row[i+1].Rune == 'E' && row[i+2].Rune == 'D' {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("styled RED not found in frame: %q", frameLines(f))
	}
}

func TestRunLineReachesChild(t *testing.T) {
	done := make(chan int, 1)
	trm := New(6, 40, WithEvents(Events{Finished: func(code int) { done <- code }}))
	defer trm.Close()

	trm.Start(host.Argv("/bin/sh", "-c", "read x; echo reply:$x"), nil)
	time.Sleep(200 * time.Millisecond)
	trm.RunLine("ping")

	waitFinished(t, done)
	if f := trm.Snapshot(); !frameContains(f, "reply:ping") {
		t.Errorf("reply missing: %q", frameLines(f))
	}
}

func TestSignalInterruptsChild(t *testing.T) {
	done := make(chan int, 1)
	trm := New(6, 40, WithEvents(Events{Finished: func(code int) { done <- code }}))
	defer trm.Close()

	trm.Start(host.Argv("/bin/sh", "-c", "sleep 30"), nil)
	time.Sleep(200 * time.Millisecond)
	trm.SendSignal(host.SignalKill)

	if code := waitFinished(t, done); code != -9 {
		t.Errorf("expected -9, got %d", code)
	}
	if f := trm.Snapshot(); !frameContains(f, "[exit -9]") {
		t.Errorf("exit banner missing: %q", frameLines(f))
	}
}

func TestStartRecordsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	hist, err := history.Open(path, 10)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}

	done := make(chan int, 1)
	trm := New(6, 40,
		WithEvents(Events{Finished: func(code int) { done <- code }}),
		WithHistory(hist))

	trm.Start(host.Argv("/bin/sh", "-c", "true"), nil)
	waitFinished(t, done)
	trm.Close() // closes the store too

	reopened, err := history.Open(path, 10)
	if err != nil {
		t.Fatalf("reopen history: %v", err)
	}
	defer reopened.Close()
	recent, err := reopened.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 1 || !strings.Contains(recent[0], "true") {
		t.Errorf("history: %q", recent)
	}
}

func TestSnapshotRowsAreDetached(t *testing.T) {
	trm := New(4, 20)
	defer trm.Close()

	trm.FeedText("before")
	f := trm.Snapshot()
	trm.FeedText("\rchanged")
	if got := frameLines(f)[0]; got != "before" {
		t.Fatalf("snapshot row mutated by later output: %q", got)
	}

	// Painting from snapshots while output keeps arriving must be safe.
	// The race detector covers the rest.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			trm.FeedText("stream\r\n")
		}
	}()
	for i := 0; i < 500; i++ {
		frameLines(trm.Snapshot())
	}
	<-done
}

func TestTruncatedOutputFlushedOnExit(t *testing.T) {
	done := make(chan int, 1)
	trm := New(6, 40, WithEvents(Events{Finished: func(code int) { done <- code }}))
	defer trm.Close()

	// The child dies with a dangling partial rune on the wire.
	trm.Start(host.Argv("/bin/sh", "-c", `printf 'A\346\274'`), nil)
	if code := waitFinished(t, done); code != 0 {
		t.Fatalf("exit code %d", code)
	}

	f := trm.Snapshot()
	if !frameContains(f, "A�") {
		t.Errorf("partial rune not flushed as replacement: %q", frameLines(f))
	}
}
