package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendMessage(t *testing.T) {
	var got struct {
		Markdown    string    `json:"markdown"`
		UserMessage string    `json:"userMessage"`
		ChatHistory []Message `json:"chatHistory"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "here is my reply"})
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	history := []Message{{Role: RoleUser, Content: "earlier turn"}}
	reply, err := client.SendMessage(context.Background(), "# Doc", "make it shorter", history)
	if err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}
	if reply != "here is my reply" {
		t.Errorf("unexpected reply: %q", reply)
	}
	if got.Markdown != "# Doc" || got.UserMessage != "make it shorter" {
		t.Errorf("request payload mismatch: %+v", got)
	}
	if len(got.ChatHistory) != 1 || got.ChatHistory[0].Content != "earlier turn" {
		t.Errorf("chat history not forwarded: %+v", got.ChatHistory)
	}
}

func TestSendMessageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, time.Second)
	if _, err := client.SendMessage(context.Background(), "doc", "msg", nil); err == nil {
		t.Error("expected error for 502 response")
	}
}

func TestSendMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	client := NewClient(server.URL, 20*time.Millisecond)
	start := time.Now()
	_, err := client.SendMessage(context.Background(), "doc", "msg", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout took far longer than configured")
	}
}

func TestSendMessageUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	if _, err := client.SendMessage(context.Background(), "doc", "msg", nil); err == nil {
		t.Error("expected transport error")
	}
}
