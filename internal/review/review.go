// Package review stages an AI-proposed rewrite as a pending change the
// user has to accept or discard before it reaches the working document.
package review

import (
	"sync"

	"mdpad/api/internal/diff"
	"mdpad/api/internal/markdown"
)

// PendingChange holds a proposed rewrite awaiting a verdict.
type PendingChange struct {
	OldText string
	NewText string
}

// Reviewer is a two-state machine: idle, or reviewing exactly one
// pending change. A new proposal that arrives while one is pending
// replaces it; proposals are never queued. The reviewer never touches
// persistence itself: Accept only hands the accepted text back to the
// caller, which installs it through the editor's normal edit path.
type Reviewer struct {
	mu      sync.Mutex
	lines   []diff.Line
	pending *PendingChange
}

func New() *Reviewer {
	return &Reviewer{}
}

// CreateDiff normalizes both texts, computes the line diff and stages
// newText as the pending change. Any previously pending change is
// dropped silently.
func (r *Reviewer) CreateDiff(oldText, newText string) []diff.Line {
	lines := diff.Lines(markdown.Normalize(oldText), markdown.Normalize(newText))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = lines
	r.pending = &PendingChange{OldText: oldText, NewText: newText}
	return lines
}

// Accept clears the review state and returns the accepted change so the
// caller can install its NewText. Returns false when nothing is pending.
func (r *Reviewer) Accept() (PendingChange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingChange{}, false
	}
	change := *r.pending
	r.lines = nil
	r.pending = nil
	return change, true
}

// Discard drops the pending change without installing anything.
// Returns false when nothing is pending.
func (r *Reviewer) Discard() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return false
	}
	r.lines = nil
	r.pending = nil
	return true
}

// Active reports whether a change is awaiting review.
func (r *Reviewer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}

// Lines returns the staged diff, or nil when idle.
func (r *Reviewer) Lines() []diff.Line {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lines
}

// Pending returns the staged change, if any.
func (r *Reviewer) Pending() (PendingChange, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingChange{}, false
	}
	return *r.pending, true
}
