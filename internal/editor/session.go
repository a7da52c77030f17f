// Package editor owns the authoritative in-memory document for a user
// session and keeps two passive stores eventually consistent with it: a
// local write-through cache and a remote store flushed on a fixed
// interval or on demand.
package editor

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mdpad/api/internal/cache"
	"mdpad/api/internal/store"
)

type SaveStatus string

const (
	StatusSaved   SaveStatus = "saved"
	StatusSaving  SaveStatus = "saving"
	StatusUnsaved SaveStatus = "unsaved"
	StatusError   SaveStatus = "error"
)

// DefaultAutosaveInterval matches the original editor's 5-second flush.
const DefaultAutosaveInterval = 5 * time.Second

// Cache is the local write-through mirror consumed by a session.
type Cache interface {
	Get(ctx context.Context, username string) (string, error)
	Put(ctx context.Context, username, markdown string) error
}

// RemoteStore is the remote key-value collaborator consumed by a session.
type RemoteStore interface {
	Load(ctx context.Context, username string) (string, error)
	Save(ctx context.Context, username, markdown string) error
}

// Config wires a session's collaborators.
type Config struct {
	Username        string
	Cache           Cache
	Remote          RemoteStore
	DefaultDocument string
	// AutosaveInterval defaults to DefaultAutosaveInterval when zero.
	AutosaveInterval time.Duration
	// OnStatusChange, when set, is invoked outside the session lock on
	// every save-status transition.
	OnStatusChange func(SaveStatus)
}

// Session holds the authoritative document text for one username. All
// other components only read the status and propose text through Edit;
// accepted AI rewrites route through the same path.
type Session struct {
	username   string
	cache      Cache
	remote     RemoteStore
	defaultDoc string
	interval   time.Duration
	onStatus   func(SaveStatus)

	mu         sync.Mutex
	text       string
	lastCached string // last value written to the local cache
	lastRemote string // last text confirmed written to the remote store
	status     SaveStatus
	lastSaved  time.Time
	edited     bool // an Edit landed; Open must not clobber it
	closed     bool
	started    bool // the autosave goroutine was spawned

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

func NewSession(cfg Config) *Session {
	interval := cfg.AutosaveInterval
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	return &Session{
		username:   cfg.Username,
		cache:      cfg.Cache,
		remote:     cfg.Remote,
		defaultDoc: cfg.DefaultDocument,
		interval:   interval,
		onStatus:   cfg.OnStatusChange,
		status:     StatusSaved,
		done:       make(chan struct{}),
	}
}

// Open loads the document and starts the autosave loop. The local cache
// wins over the remote store when both hold a document; the remote copy
// is fetched and deliberately discarded in that case. Failure to reach
// either store is non-fatal: the session proceeds with whatever text it
// has, falling back to the built-in default document. Nothing is
// written to either store until the first edit. A Close or Edit that
// arrives while the loads are in flight wins: Close suppresses the
// autosave loop entirely, and an edit is never clobbered by the
// loaded text.
func (s *Session) Open(ctx context.Context) {
	runCtx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()

	local, localErr := s.cache.Get(ctx, s.username)
	haveLocal := localErr == nil
	if localErr != nil && !errors.Is(localErr, cache.ErrNotFound) {
		log.Printf("editor: cache read for %s: %v", s.username, localErr)
	}

	remote, remoteErr := s.remote.Load(ctx, s.username)
	haveRemote := remoteErr == nil
	if remoteErr != nil && !errors.Is(remoteErr, store.ErrNotFound) {
		log.Printf("editor: remote load for %s: %v", s.username, remoteErr)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if !s.edited {
		switch {
		case haveLocal:
			s.text = local
		case haveRemote:
			s.text = remote
		default:
			s.text = s.defaultDoc
		}
		// The adopted text is treated as confirmed on both sides so the
		// autosave loop stays quiet until the user actually edits.
		s.lastCached = s.text
		s.lastRemote = s.text
		s.status = StatusSaved
	}
	s.started = true
	s.mu.Unlock()
	go s.run(runCtx)
}

// Edit replaces the authoritative text. If it differs from the last
// value written to the local cache, the cache is updated synchronously
// before the status flip becomes observable. Cache failures are logged
// and never fatal.
func (s *Session) Edit(ctx context.Context, text string) {
	s.mu.Lock()
	s.text = text
	s.edited = true
	if text == s.lastCached {
		s.mu.Unlock()
		return
	}
	if err := s.cache.Put(ctx, s.username, text); err != nil {
		log.Printf("editor: cache write for %s: %v", s.username, err)
	}
	s.lastCached = text

	status := StatusUnsaved
	if text == s.lastRemote {
		// The edit reverted to the remote-confirmed text; there is
		// nothing left to flush.
		status = StatusSaved
	}
	notify := s.setStatusLocked(status)
	s.mu.Unlock()
	notify()
}

// SaveNow flushes the current text to the remote store regardless of
// whether it changed, surfacing the failure to the caller in addition
// to setting the error status.
func (s *Session) SaveNow(ctx context.Context) error {
	return s.flush(ctx, true)
}

// Text returns the authoritative document.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// Status returns the save status and the time of the last confirmed
// remote write (zero when none happened this session).
func (s *Session) Status() (SaveStatus, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status, s.lastSaved
}

func (s *Session) Username() string {
	return s.username
}

// Close cancels the autosave loop and waits for it to stop. When Open
// is still loading, the closed flag keeps the loop from ever being
// spawned. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		cancel := s.cancel
		started := s.started
		s.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		if started {
			<-s.done
		} else {
			// run never spawned and, with closed set, never will.
			close(s.done)
		}
	})
}

func (s *Session) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.flush(ctx, false); err != nil {
				log.Printf("editor: autosave for %s: %v", s.username, err)
			}
		}
	}
}

// flush attempts one remote write. The comparison is against the live
// authoritative text, not a snapshot from tick start, so edits made
// while a save was in flight are picked up by the next tick.
func (s *Session) flush(ctx context.Context, force bool) error {
	s.mu.Lock()
	current := s.text
	if !force && current == s.lastRemote {
		// Self-heal a stale unsaved status left by an edit that
		// reverted to the confirmed text.
		notify := s.setStatusLocked(StatusSaved)
		s.mu.Unlock()
		notify()
		return nil
	}
	notify := s.setStatusLocked(StatusSaving)
	s.mu.Unlock()
	notify()

	err := s.remote.Save(ctx, s.username, current)

	s.mu.Lock()
	if err != nil {
		// lastRemote stays put so the same delta is retried next tick.
		notify = s.setStatusLocked(StatusError)
		s.mu.Unlock()
		notify()
		return err
	}
	s.lastRemote = current
	s.lastSaved = time.Now()
	status := StatusSaved
	if s.text != current {
		// An edit landed while the save was in flight.
		status = StatusUnsaved
	}
	notify = s.setStatusLocked(status)
	s.mu.Unlock()
	notify()
	return nil
}

// setStatusLocked records the transition and returns the listener call
// to run after the lock is released. Callers must hold mu.
func (s *Session) setStatusLocked(status SaveStatus) func() {
	if s.status == status || s.onStatus == nil {
		s.status = status
		return func() {}
	}
	s.status = status
	cb := s.onStatus
	return func() { cb(status) }
}
