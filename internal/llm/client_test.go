package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/atlasiq/atlasiq/config"
)

func completionBody(content string) string {
	out := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(out)
	return string(b)
}

func newTestClient(baseURL string, fallbacks []string) *Client {
	return NewClient(config.LLMConfig{
		APIKey:         "test-key",
		BaseURL:        baseURL,
		Model:          "primary",
		FallbackModels: fallbacks,
		Timeout:        5 * time.Second,
	}, nil)
}

func TestCompletePrimarySucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "primary" {
			t.Fatalf("expected primary model, got %s", req.Model)
		}
		w.Write([]byte(completionBody("hello")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, []string{"fb-1"})
	got, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{Temperature: 0.3, MaxTokens: 64})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected hello, got %q", got)
	}
}

func TestCompleteFallsBackOnRateLimit(t *testing.T) {
	var models []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		models = append(models, req.Model)
		if req.Model == "primary" {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(completionBody("from fallback")))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, []string{"fb-1"})
	got, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != "from fallback" {
		t.Fatalf("expected fallback reply, got %q", got)
	}
	if len(models) != 2 || models[0] != "primary" || models[1] != "fb-1" {
		t.Fatalf("expected primary then fb-1, got %v", models)
	}
}

func TestCompleteExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, []string{"fb-1", "fb-2"})
	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{})
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestCompleteNonRateLimitErrorStops(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, []string{"fb-1"})
	_, err := c.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}}, Options{})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrExhausted) {
		t.Fatalf("400 should not be reported as exhaustion: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct{ in, want string }{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"```\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  {\"a\":1}  ", "{\"a\":1}"},
	}
	for _, tc := range cases {
		if got := StripCodeFences(tc.in); got != tc.want {
			t.Fatalf("StripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
