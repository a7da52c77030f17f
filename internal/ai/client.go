// Package ai is the HTTP client for the rewrite collaborator: it sends
// the current document, the user's instruction and the prior chat turns,
// and returns the model's single reply payload.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Message is one chat turn. Role is "user" or "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultTimeout bounds the rewrite call; the upstream worker gives no
// guarantee of ever answering, so an indefinite wait is not an option.
const DefaultTimeout = 60 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a client for the rewrite worker. A non-positive
// timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendMessage posts the document, instruction and history and returns
// the raw reply text. Any transport or non-2xx failure is returned as an
// error; callers render it as a transcript message, never as a fatal
// condition.
func (c *Client) SendMessage(ctx context.Context, markdown, userMessage string, history []Message) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"markdown":    markdown,
		"userMessage": userMessage,
		"chatHistory": history,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("ai request: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode ai response: %w", err)
	}
	return body.Message, nil
}
