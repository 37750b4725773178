package llm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"backlog/internal/services/llm"
)

func newTestClient(t *testing.T, serverURL string, opts ...llm.Option) *llm.Client {
	t.Helper()
	cfg := llm.Config{APIKey: "key", BaseURL: serverURL, Model: "test-model"}
	opts = append([]llm.Option{llm.WithSleeper(func(time.Duration) {})}, opts...)
	return llm.NewClient(cfg, opts...)
}

func TestCompleteJSONReturnsContentAndUsage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Fatalf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"genres\":[\"RPG\"]}"}}],"usage":{"prompt_tokens":120,"completion_tokens":8}}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	content, usage, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != `{"genres":["RPG"]}` {
		t.Fatalf("unexpected content: %q", content)
	}
	if usage.InputTokens != 120 || usage.OutputTokens != 8 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
	if usage.Total() != 128 {
		t.Fatalf("unexpected usage total: %d", usage.Total())
	}
}

func TestCompleteJSONRetriesOnceOnServerError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{}"}}],"usage":{"prompt_tokens":10,"completion_tokens":1}}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	content, usage, err := client.CompleteJSON(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("CompleteJSON returned error: %v", err)
	}
	if content != "{}" {
		t.Fatalf("unexpected content: %q", content)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", calls.Load())
	}
	if usage.InputTokens != 10 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
}

func TestCompleteJSONStopsAfterConfiguredAttempts(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	if _, _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error after retries exhausted")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts (one retry), got %d", calls.Load())
	}
}

func TestCompleteJSONDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	if _, _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}

func TestCompleteJSONRequiresAPIKey(t *testing.T) {
	client := llm.NewClient(llm.Config{BaseURL: "https://example.com", Model: "m"})
	if _, _, err := client.CompleteJSON(context.Background(), "system", "user"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestDecodeLLMJSONStripsCodeFences(t *testing.T) {
	var payload struct {
		Genres []string `json:"genres"`
	}
	content := "```json\n{\"genres\": [\"Puzzle\", \"Racing\"]}\n```"
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if len(payload.Genres) != 2 || payload.Genres[0] != "Puzzle" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDecodeLLMJSONExtractsEmbeddedObject(t *testing.T) {
	var payload struct {
		OK bool `json:"ok"`
	}
	if err := llm.DecodeLLMJSON(`Sure, here you go: {"ok": true}`, &payload); err != nil {
		t.Fatalf("DecodeLLMJSON returned error: %v", err)
	}
	if !payload.OK {
		t.Fatal("expected ok=true")
	}
}

func TestDecodeLLMJSONRejectsGarbage(t *testing.T) {
	var payload struct{}
	if err := llm.DecodeLLMJSON("not json at all", &payload); err == nil {
		t.Fatal("expected decode error")
	}
}
