// Package diff computes a line-level difference between two versions of
// a document using longest-common-subsequence backtracking.
package diff

import "strings"

type Kind string

const (
	Added     Kind = "added"
	Removed   Kind = "removed"
	Unchanged Kind = "unchanged"
)

// Line is one row of a diff. The ordered sequence of lines fully
// describes the transformation: concatenating every non-removed Text
// reconstructs the new document, every non-added Text the old one.
type Line struct {
	Kind Kind   `json:"type"`
	Text string `json:"content"`
}

// Lines diffs two texts line by line. Both inputs are split on "\n";
// callers normalize beforehand when they want stable boundaries.
// When a removal and an addition tie on LCS length the addition is
// emitted first, biasing the output toward "show me what's new".
func Lines(oldText, newText string) []Line {
	oldLines := strings.Split(oldText, "\n")
	newLines := strings.Split(newText, "\n")
	m := len(oldLines)
	n := len(newLines)

	// lcs[i][j] = LCS length of oldLines[:i] and newLines[:j].
	lcs := make([][]int, m+1)
	for i := range lcs {
		lcs[i] = make([]int, n+1)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if oldLines[i] == newLines[j] {
				lcs[i+1][j+1] = lcs[i][j] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i+1][j+1] = lcs[i+1][j]
			} else {
				lcs[i+1][j+1] = lcs[i][j+1]
			}
		}
	}

	// Backtrack from (m, n); lines come out bottom-up and are reversed.
	result := make([]Line, 0, m+n)
	i, j := m, n
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && oldLines[i-1] == newLines[j-1]:
			result = append(result, Line{Kind: Unchanged, Text: oldLines[i-1]})
			i--
			j--
		case j > 0 && (i == 0 || lcs[i][j-1] >= lcs[i-1][j]):
			result = append(result, Line{Kind: Added, Text: newLines[j-1]})
			j--
		default:
			result = append(result, Line{Kind: Removed, Text: oldLines[i-1]})
			i--
		}
	}
	for a, b := 0, len(result)-1; a < b; a, b = a+1, b-1 {
		result[a], result[b] = result[b], result[a]
	}
	return result
}
