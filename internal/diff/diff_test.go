package diff

import (
	"strings"
	"testing"
)

func TestLinesSingleChangedLine(t *testing.T) {
	lines := Lines("A\nB\nC", "A\nX\nC")
	want := []Line{
		{Kind: Unchanged, Text: "A"},
		{Kind: Removed, Text: "B"},
		{Kind: Added, Text: "X"},
		{Kind: Unchanged, Text: "C"},
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %v, got %v", i, want[i], lines[i])
		}
	}
}

func TestLinesIdenticalInputs(t *testing.T) {
	lines := Lines("one\ntwo\nthree", "one\ntwo\nthree")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.Kind != Unchanged {
			t.Errorf("line %d: expected unchanged, got %s", i, line.Kind)
		}
	}
}

func TestLinesAllAdded(t *testing.T) {
	lines := Lines("", "first\nsecond")
	adds := 0
	for _, line := range lines {
		if line.Kind == Added {
			adds++
		}
	}
	if adds != 2 {
		t.Errorf("expected 2 added lines, got %d in %v", adds, lines)
	}
}

func TestLinesReconstruction(t *testing.T) {
	pairs := [][2]string{
		{"A\nB\nC", "A\nX\nC"},
		{"", ""},
		{"only old", ""},
		{"", "only new"},
		{"a\nb\nc\nd", "d\nc\nb\na"},
		{"# Title\nintro\n- one\n- two", "# Title\nintro reworked\n- one\n- two\n- three"},
		{"same", "same"},
	}
	for _, pair := range pairs {
		oldText, newText := pair[0], pair[1]
		lines := Lines(oldText, newText)

		var oldParts, newParts []string
		for _, line := range lines {
			if line.Kind != Added {
				oldParts = append(oldParts, line.Text)
			}
			if line.Kind != Removed {
				newParts = append(newParts, line.Text)
			}
		}
		if got := strings.Join(oldParts, "\n"); got != oldText {
			t.Errorf("old projection for (%q, %q): expected %q, got %q", oldText, newText, oldText, got)
		}
		if got := strings.Join(newParts, "\n"); got != newText {
			t.Errorf("new projection for (%q, %q): expected %q, got %q", oldText, newText, newText, got)
		}
	}
}

// lcsLength is an independent recursive LCS used to check minimality.
func lcsLength(a, b []string) int {
	memo := make(map[[2]int]int)
	var rec func(i, j int) int
	rec = func(i, j int) int {
		if i == len(a) || j == len(b) {
			return 0
		}
		key := [2]int{i, j}
		if v, ok := memo[key]; ok {
			return v
		}
		var v int
		if a[i] == b[j] {
			v = rec(i+1, j+1) + 1
		} else {
			left := rec(i+1, j)
			right := rec(i, j+1)
			if left > right {
				v = left
			} else {
				v = right
			}
		}
		memo[key] = v
		return v
	}
	return rec(0, 0)
}

func TestLinesMinimality(t *testing.T) {
	pairs := [][2]string{
		{"A\nB\nC", "A\nX\nC"},
		{"a\nb\nc\nd", "d\nc\nb\na"},
		{"x\ny", "y\nx\ny"},
		{"one\ntwo\nthree\nfour", "zero\ntwo\nfour\nfive"},
	}
	for _, pair := range pairs {
		oldLines := strings.Split(pair[0], "\n")
		newLines := strings.Split(pair[1], "\n")
		want := lcsLength(oldLines, newLines)

		unchanged := 0
		for _, line := range Lines(pair[0], pair[1]) {
			if line.Kind == Unchanged {
				unchanged++
			}
		}
		if unchanged != want {
			t.Errorf("(%q, %q): expected %d unchanged lines, got %d", pair[0], pair[1], want, unchanged)
		}
	}
}
