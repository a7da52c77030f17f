package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// KVClient speaks the markdown KV worker's wire protocol:
//
//	GET  /api/markdown?username=NAME -> 200 text, or 204 when absent
//	POST /api/markdown               -> {"username": ..., "markdown": ...}
//
// It lets the service run in front of an existing KV worker deployment
// instead of its own Redis or Postgres.
type KVClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewKVClient(baseURL string) *KVClient {
	return &KVClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *KVClient) endpoint() string {
	return c.baseURL + "/api/markdown"
}

func (c *KVClient) Load(ctx context.Context, username string) (string, error) {
	reqURL := c.endpoint() + "?username=" + url.QueryEscape(username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("load document: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(body), nil
	case http.StatusNoContent, http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("load document: unexpected status %d", resp.StatusCode)
	}
}

func (c *KVClient) Save(ctx context.Context, username, markdown string) error {
	payload, err := json.Marshal(map[string]string{
		"username": username,
		"markdown": markdown,
	})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("save document: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Ping probes the worker with a read for a reserved key; any well-formed
// protocol answer counts as reachable.
func (c *KVClient) Ping(ctx context.Context) error {
	_, err := c.Load(ctx, "__ping__")
	if err != nil && err != ErrNotFound {
		return err
	}
	return nil
}

func (c *KVClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
