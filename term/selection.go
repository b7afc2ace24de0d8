// Copyright © 2026 WrapPac contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/selection.go
// Summary: Rectangular text selection over timeline coordinates.

package term

import (
	"strings"

	"github.com/wrappac/wrapterm/vterm"
)

// Point addresses a character position on the timeline: Row is a timeline
// index (0 = oldest scrollback row), Col a column.
type Point struct {
	Row, Col int
}

// Less reports whether p precedes q in reading order.
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Normalize orders two selection endpoints so the first precedes the
// second in reading order.
func Normalize(a, b Point) (Point, Point) {
	if b.Less(a) {
		return b, a
	}
	return a, b
}

// Selection tracks an in-progress or finished drag selection.
type Selection struct {
	Anchor Point
	Head   Point
	Active bool
}

// Begin starts a selection at the given point.
func (s *Selection) Begin(p Point) {
	s.Anchor, s.Head = p, p
	s.Active = true
}

// Extend moves the head of an active selection.
func (s *Selection) Extend(p Point) {
	if s.Active {
		s.Head = p
	}
}

// Finish ends the drag, keeping the range for copying.
func (s *Selection) Finish() {
	s.Active = false
}

// Clear empties the selection.
func (s *Selection) Clear() {
	*s = Selection{}
}

// Bounds returns the normalized endpoints.
func (s *Selection) Bounds() (Point, Point) {
	return Normalize(s.Anchor, s.Head)
}

// Contains reports whether a timeline position is inside the selection.
func (s *Selection) Contains(p Point) bool {
	a, b := s.Bounds()
	if p.Row < a.Row || p.Row > b.Row {
		return false
	}
	if p.Row == a.Row && p.Col < a.Col {
		return false
	}
	if p.Row == b.Row && p.Col > b.Col {
		return false
	}
	return true
}

// ExtractText returns the text between two timeline coordinates, inclusive.
// Trailing blanks are trimmed per line and lines are joined with newlines.
func ExtractText(scr *vterm.Screen, a, b Point) string {
	a, b = Normalize(a, b)
	_, cols := scr.Size()

	var lines []string
	for r := a.Row; r <= b.Row; r++ {
		row := scr.TimelineRow(r)
		if row == nil {
			continue
		}
		from := 0
		if r == a.Row {
			from = clamp(a.Col, 0, cols-1)
		}
		to := cols - 1
		if r == b.Row {
			to = clamp(b.Col, 0, cols-1)
		}
		var sb strings.Builder
		for c := from; c <= to && c < len(row); c++ {
			ch := row[c].Rune
			if ch == 0 {
				ch = ' '
			}
			sb.WriteRune(ch)
		}
		lines = append(lines, strings.TrimRight(sb.String(), " "))
	}
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
