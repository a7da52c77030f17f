// Package store provides the remote document store backends. Each
// backend is a key-value collaborator: one markdown document per
// username, replaced wholesale on every save.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when no document exists for the user.
var ErrNotFound = errors.New("document not found")

// DocumentStore is the remote persistence contract consumed by the
// editor. Save is an idempotent full replace.
type DocumentStore interface {
	Load(ctx context.Context, username string) (string, error)
	Save(ctx context.Context, username, markdown string) error
	Ping(ctx context.Context) error
	Close() error
}
