// Package diff compares two stored responses line by line.
package diff

import (
	"fmt"
	"strings"

	"github.com/sadopc/apitester/internal/core/format"
	"github.com/sadopc/apitester/internal/core/history"
)

// Op says whether a line was kept, added, or removed.
type Op int

const (
	Same Op = iota
	Added
	Removed
)

// Line is one line of diff output. OldLine and NewLine are 1-based; -1 means
// the line does not exist on that side.
type Line struct {
	Op      Op
	Text    string
	OldLine int
	NewLine int
}

// Lines computes a line diff between a and b using the Myers algorithm.
func Lines(a, b string) []Line {
	aLines := splitLines(a)
	bLines := splitLines(b)
	return toLines(myers(aLines, bLines), aLines, bLines)
}

// Responses diffs the response side of two history records: status line,
// headers and pretty-printed body.
func Responses(a, b history.Record) []Line {
	return Lines(responseText(a), responseText(b))
}

// Changed reports whether any line differs.
func Changed(lines []Line) bool {
	for _, l := range lines {
		if l.Op != Same {
			return true
		}
	}
	return false
}

// Render prints lines with "+ ", "- " and "  " prefixes. Runs of unchanged
// lines farther than context from a change collapse into a "@@ line N @@"
// marker; a negative context prints everything.
func Render(lines []Line, context int) string {
	var b strings.Builder
	keep := visible(lines, context)
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped {
			pos := l.NewLine
			if pos < 0 {
				pos = l.OldLine
			}
			fmt.Fprintf(&b, "@@ line %d @@\n", pos)
			skipped = false
		}
		switch l.Op {
		case Added:
			b.WriteString("+ ")
		case Removed:
			b.WriteString("- ")
		default:
			b.WriteString("  ")
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func visible(lines []Line, context int) []bool {
	keep := make([]bool, len(lines))
	if context < 0 {
		for i := range keep {
			keep[i] = true
		}
		return keep
	}
	for i, l := range lines {
		if l.Op == Same {
			continue
		}
		lo, hi := max(0, i-context), min(len(lines)-1, i+context)
		for j := lo; j <= hi; j++ {
			keep[j] = true
		}
	}
	return keep
}

func responseText(r history.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Status: %d\n", r.StatusCode)
	b.WriteString(format.Body(r.ResponseHeaders))
	b.WriteString("\n\n")
	b.WriteString(format.Body(r.ResponseBody))
	return b.String()
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type editOp int

const (
	opEqual  editOp = iota // diagonal move
	opInsert               // token in b only
	opDelete               // token in a only
)

type edit struct {
	op   editOp
	aIdx int // -1 on insert
	bIdx int // -1 on delete
}

// myers returns the shortest edit script turning a into b.
func myers(a, b []string) []edit {
	n, m := len(a), len(b)
	switch {
	case n == 0 && m == 0:
		return nil
	case n == 0:
		edits := make([]edit, m)
		for i := range b {
			edits[i] = edit{op: opInsert, aIdx: -1, bIdx: i}
		}
		return edits
	case m == 0:
		edits := make([]edit, n)
		for i := range a {
			edits[i] = edit{op: opDelete, aIdx: i, bIdx: -1}
		}
		return edits
	}

	offset := n + m
	v := make([]int, 2*offset+1)
	var trace [][]int

	for d := 0; d <= offset; d++ {
		trace = append(trace, append([]int(nil), v...))

		for k := -d; k <= d; k += 2 {
			idx := k + offset
			var x int
			if k == -d || (k != d && v[idx-1] < v[idx+1]) {
				x = v[idx+1]
			} else {
				x = v[idx-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[idx] = x
			if x >= n && y >= m {
				return backtrack(trace, n, m, offset)
			}
		}
	}
	return backtrack(trace, n, m, offset)
}

// backtrack walks the saved frontiers from (n, m) back to the origin.
func backtrack(trace [][]int, n, m, offset int) []edit {
	var edits []edit
	x, y := n, m
	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y
		idx := k + offset

		var prevK int
		if k == -d || (k != d && v[idx-1] < v[idx+1]) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := v[prevK+offset]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			edits = append(edits, edit{op: opEqual, aIdx: x, bIdx: y})
		}
		if d > 0 {
			if x == prevX {
				y--
				edits = append(edits, edit{op: opInsert, aIdx: -1, bIdx: y})
			} else {
				x--
				edits = append(edits, edit{op: opDelete, aIdx: x, bIdx: -1})
			}
		}
		x, y = prevX, prevY
	}

	for i, j := 0, len(edits)-1; i < j; i, j = i+1, j-1 {
		edits[i], edits[j] = edits[j], edits[i]
	}
	return edits
}

func toLines(edits []edit, a, b []string) []Line {
	out := make([]Line, 0, len(edits))
	for _, e := range edits {
		switch e.op {
		case opInsert:
			out = append(out, Line{Op: Added, Text: b[e.bIdx], OldLine: -1, NewLine: e.bIdx + 1})
		case opDelete:
			out = append(out, Line{Op: Removed, Text: a[e.aIdx], OldLine: e.aIdx + 1, NewLine: -1})
		default:
			out = append(out, Line{Op: Same, Text: a[e.aIdx], OldLine: e.aIdx + 1, NewLine: e.bIdx + 1})
		}
	}
	return out
}
