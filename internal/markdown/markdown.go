// Package markdown holds the text-level helpers for the editor: the
// normalizer that canonicalizes a document before diffing, and the
// extractors that pull a proposed rewrite out of an AI reply.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headingRe    = regexp.MustCompile(`(#+ .*)`)
	emphasisRe   = regexp.MustCompile(`(\*.+)`)
	listItemRe   = regexp.MustCompile(`(- .+)`)
	newlineRunRe = regexp.MustCompile(`\n{2,}`)
	blankLineRe  = regexp.MustCompile(`\n\s+\n`)
)

// Normalize canonicalizes markdown into a line-oriented form so that
// line diffs stay readable: headings, emphasis runs and list items each
// end up on their own line, and blank-line runs collapse. This is a
// heuristic, not a markdown parse; it can over-split inside code fences.
// It is idempotent.
func Normalize(md string) string {
	text := strings.ReplaceAll(md, "\r", "")
	text = headingRe.ReplaceAllString(text, "$1\n")
	text = emphasisRe.ReplaceAllString(text, "$1\n")
	text = listItemRe.ReplaceAllString(text, "$1\n")
	text = newlineRunRe.ReplaceAllString(text, "\n")
	text = blankLineRe.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}

var (
	closedFenceRe = regexp.MustCompile("(?s)```markdown\n(.*?)```")
	openFenceRe   = regexp.MustCompile("(?s)```markdown\n(.*)")
)

// ExtractMarkdown pulls the fenced ```markdown block out of an AI reply.
// A reply whose fence was cut off before the closing backticks is still
// accepted. Returns false when the reply proposes no document.
func ExtractMarkdown(reply string) (string, bool) {
	if m := closedFenceRe.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	if m := openFenceRe.FindStringSubmatch(reply); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	return "", false
}

// ExtractExplanation returns the free-text commentary that follows the
// fenced block, or the empty string when the reply has no block.
func ExtractExplanation(reply string) string {
	if loc := closedFenceRe.FindStringIndex(reply); loc != nil {
		return strings.TrimSpace(reply[loc[1]:])
	}
	if loc := openFenceRe.FindStringIndex(reply); loc != nil {
		return strings.TrimSpace(reply[loc[1]:])
	}
	return ""
}
