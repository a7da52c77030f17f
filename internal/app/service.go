package app

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"mdpad/api/internal/ai"
	"mdpad/api/internal/diff"
	"mdpad/api/internal/editor"
	"mdpad/api/internal/markdown"
	"mdpad/api/internal/review"
)

// aiErrorMessage is the assistant-style turn shown when the rewrite
// collaborator cannot be reached.
const aiErrorMessage = "Error connecting to AI. Please try again."

type documentStore interface {
	Load(ctx context.Context, username string) (string, error)
	Save(ctx context.Context, username, markdown string) error
	Ping(ctx context.Context) error
}

type documentCache interface {
	Get(ctx context.Context, username string) (string, error)
	Put(ctx context.Context, username, markdown string) error
}

type rewriteClient interface {
	SendMessage(ctx context.Context, markdown, userMessage string, history []ai.Message) (string, error)
}

// Service is the composition root for editing sessions: per username it
// bundles a persistence synchronizer, a change reviewer and a chat
// transcript. Sessions are explicit handles, never globals, so many can
// coexist in one process.
type Service struct {
	cache            documentCache
	remote           documentStore
	rewriter         rewriteClient
	autosaveInterval time.Duration

	mu       sync.Mutex
	sessions map[string]*editingSession
}

type editingSession struct {
	editor   *editor.Session
	reviewer *review.Reviewer

	mu         sync.Mutex
	transcript []ai.Message
}

func New(cache documentCache, remote documentStore, rewriter rewriteClient, autosaveInterval time.Duration) *Service {
	return &Service{
		cache:            cache,
		remote:           remote,
		rewriter:         rewriter,
		autosaveInterval: autosaveInterval,
		sessions:         make(map[string]*editingSession),
	}
}

// DocumentState is the caller-visible snapshot of a session's document.
type DocumentState struct {
	Username   string
	Markdown   string
	SaveStatus editor.SaveStatus
	LastSaved  time.Time
}

// ChatResult is the outcome of one chat roundtrip.
type ChatResult struct {
	Messages      []ai.Message
	ReviewStarted bool
}

// ReviewState describes the staged change, if any.
type ReviewState struct {
	Active      bool
	Lines       []diff.Line
	OldMarkdown string
	NewMarkdown string
}

// OpenSession creates (or returns) the editing session for username,
// loading the document from the local cache and remote store. Without a
// username no persistence is initialized at all.
func (s *Service) OpenSession(ctx context.Context, username string) (DocumentState, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return DocumentState{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "username is required", nil)
	}

	s.mu.Lock()
	if existing, ok := s.sessions[username]; ok {
		s.mu.Unlock()
		return snapshot(username, existing), nil
	}

	session := &editingSession{
		editor: editor.NewSession(editor.Config{
			Username:         username,
			Cache:            s.cache,
			Remote:           s.remote,
			DefaultDocument:  editor.DefaultDocument,
			AutosaveInterval: s.autosaveInterval,
			OnStatusChange: func(status editor.SaveStatus) {
				log.Printf("editor: session %s status %s", username, status)
			},
		}),
		reviewer: review.New(),
	}
	s.sessions[username] = session
	s.mu.Unlock()

	session.editor.Open(ctx)
	return snapshot(username, session), nil
}

// CloseSession stops the session's autosave loop and forgets it.
func (s *Service) CloseSession(username string) error {
	s.mu.Lock()
	session, ok := s.sessions[username]
	if ok {
		delete(s.sessions, username)
	}
	s.mu.Unlock()
	if !ok {
		return errSessionNotFound()
	}
	session.editor.Close()
	return nil
}

// CloseAll tears down every session; used on shutdown.
func (s *Service) CloseAll() {
	s.mu.Lock()
	sessions := make([]*editingSession, 0, len(s.sessions))
	for username, session := range s.sessions {
		sessions = append(sessions, session)
		delete(s.sessions, username)
	}
	s.mu.Unlock()
	for _, session := range sessions {
		session.editor.Close()
	}
}

// Document returns the current snapshot for username.
func (s *Service) Document(username string) (DocumentState, error) {
	session, err := s.get(username)
	if err != nil {
		return DocumentState{}, err
	}
	return snapshot(username, session), nil
}

// Edit installs new authoritative text through the synchronizer.
func (s *Service) Edit(ctx context.Context, username, text string) (DocumentState, error) {
	session, err := s.get(username)
	if err != nil {
		return DocumentState{}, err
	}
	session.editor.Edit(ctx, text)
	return snapshot(username, session), nil
}

// Save flushes to the remote store on demand.
func (s *Service) Save(ctx context.Context, username string) (DocumentState, error) {
	session, err := s.get(username)
	if err != nil {
		return DocumentState{}, err
	}
	if err := session.editor.SaveNow(ctx); err != nil {
		return DocumentState{}, domainError(http.StatusBadGateway, "SAVE_FAILED", "Failed to save to the remote store", nil)
	}
	return snapshot(username, session), nil
}

// Export returns the raw markdown for download.
func (s *Service) Export(username string) (string, error) {
	session, err := s.get(username)
	if err != nil {
		return "", err
	}
	return session.editor.Text(), nil
}

// Chat runs one AI roundtrip: the user's turn is recorded, the
// collaborator is called with the current document and prior history,
// and its reply is split into commentary (appended to the transcript)
// and an optional candidate document (staged for review). A transport
// failure becomes an assistant-style transcript message and never
// touches document state; a reply without a document block simply
// proposes no rewrite.
func (s *Service) Chat(ctx context.Context, username, message string) (ChatResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ChatResult{}, domainError(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "message is required", nil)
	}
	session, err := s.get(username)
	if err != nil {
		return ChatResult{}, err
	}

	current := session.editor.Text()

	session.mu.Lock()
	history := make([]ai.Message, len(session.transcript))
	copy(history, session.transcript)
	session.transcript = append(session.transcript, ai.Message{Role: ai.RoleUser, Content: message})
	session.mu.Unlock()

	reply, err := s.rewriter.SendMessage(ctx, current, message, history)
	if err != nil {
		log.Printf("app: ai request for %s: %v", username, err)
		return session.appendAssistant(aiErrorMessage, false), nil
	}

	explanation := markdown.ExtractExplanation(reply)
	result := session.appendAssistant(explanation, false)

	if candidate, ok := markdown.ExtractMarkdown(reply); ok {
		session.reviewer.CreateDiff(current, candidate)
		result.ReviewStarted = true
	}
	return result, nil
}

// Transcript returns a copy of the chat history.
func (s *Service) Transcript(username string) ([]ai.Message, error) {
	session, err := s.get(username)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	transcript := make([]ai.Message, len(session.transcript))
	copy(transcript, session.transcript)
	return transcript, nil
}

// ReviewState returns the staged diff and pending texts, if any.
func (s *Service) ReviewState(username string) (ReviewState, error) {
	session, err := s.get(username)
	if err != nil {
		return ReviewState{}, err
	}
	pending, ok := session.reviewer.Pending()
	if !ok {
		return ReviewState{}, nil
	}
	return ReviewState{
		Active:      true,
		Lines:       session.reviewer.Lines(),
		OldMarkdown: pending.OldText,
		NewMarkdown: pending.NewText,
	}, nil
}

// AcceptChanges installs the pending rewrite as the authoritative
// document through the normal edit path.
func (s *Service) AcceptChanges(ctx context.Context, username string) (DocumentState, error) {
	session, err := s.get(username)
	if err != nil {
		return DocumentState{}, err
	}
	change, ok := session.reviewer.Accept()
	if !ok {
		return DocumentState{}, errNoPendingChange()
	}
	session.editor.Edit(ctx, change.NewText)
	return snapshot(username, session), nil
}

// DiscardChanges drops the pending rewrite; the document is untouched.
func (s *Service) DiscardChanges(username string) error {
	session, err := s.get(username)
	if err != nil {
		return err
	}
	if !session.reviewer.Discard() {
		return errNoPendingChange()
	}
	return nil
}

// Ping checks remote store connectivity for readiness probes.
func (s *Service) Ping(ctx context.Context) error {
	return s.remote.Ping(ctx)
}

func (s *Service) get(username string) (*editingSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[username]
	if !ok {
		return nil, errSessionNotFound()
	}
	return session, nil
}

func (e *editingSession) appendAssistant(content string, reviewStarted bool) ChatResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transcript = append(e.transcript, ai.Message{Role: ai.RoleAssistant, Content: content})
	messages := make([]ai.Message, len(e.transcript))
	copy(messages, e.transcript)
	return ChatResult{Messages: messages, ReviewStarted: reviewStarted}
}

func snapshot(username string, session *editingSession) DocumentState {
	status, lastSaved := session.editor.Status()
	return DocumentState{
		Username:   username,
		Markdown:   session.editor.Text(),
		SaveStatus: status,
		LastSaved:  lastSaved,
	}
}

func errSessionNotFound() *DomainError {
	return domainError(http.StatusNotFound, "SESSION_NOT_FOUND", "No editing session for that username", nil)
}

func errNoPendingChange() *DomainError {
	return domainError(http.StatusConflict, "NO_PENDING_CHANGE", "No change is awaiting review", nil)
}
