// Package cache is the editor's local write-through mirror: every edit
// lands here synchronously so a session restart can pick up where the
// user left off even when the remote store was never reached.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Get when no cached document exists.
var ErrNotFound = errors.New("cached document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	username   TEXT PRIMARY KEY,
	markdown   TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// SQLite is a file-backed cache, one row per username.
type SQLite struct {
	db *sql.DB
}

// Open opens (and if needed creates) the cache database, applying the
// usual production pragmas.
func Open(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Get returns the cached document for username, or ErrNotFound.
func (c *SQLite) Get(ctx context.Context, username string) (string, error) {
	const query = `SELECT markdown FROM documents WHERE username = ?`
	var markdown string
	err := c.db.QueryRowContext(ctx, query, username).Scan(&markdown)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read cache: %w", err)
	}
	return markdown, nil
}

// Put upserts the cached document for username.
func (c *SQLite) Put(ctx context.Context, username, markdown string) error {
	const query = `
		INSERT INTO documents (username, markdown, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET markdown = excluded.markdown, updated_at = excluded.updated_at
	`
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := c.db.ExecContext(ctx, query, username, markdown, now); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}
