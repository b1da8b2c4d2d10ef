package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fortunecookie-ai/fortune-api/internal/types"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestComplete_Success(t *testing.T) {
	srv := completionServer(t, 200, `{"choices":[{"message":{"role":"assistant","content":"Good things come to those who snack.  "}}]}`)
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	msg, err := c.Complete(context.Background(), "a funny fortune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "Good things come to those who snack." {
		t.Errorf("expected trimmed message, got %q", msg)
	}
}

func TestComplete_SendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"})
	if _, err := c.Complete(context.Background(), "user prompt here"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "test-model" {
		t.Errorf("expected model forwarded, got %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "user prompt here" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestComplete_NonOK(t *testing.T) {
	srv := completionServer(t, http.StatusBadRequest, `{"error":{"message":"bad request"}}`)
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error on 400")
	}
}

func TestComplete_EmptyChoices(t *testing.T) {
	srv := completionServer(t, 200, `{"choices":[]}`)
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestComplete_MalformedJSON(t *testing.T) {
	srv := completionServer(t, 200, `{not json`)
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key"})
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error on malformed body")
	}
}

func TestComplete_RetriesServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"recovered"}}]}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key", MaxRetries: 2})
	msg, err := c.Complete(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg != "recovered" || attempts != 2 {
		t.Errorf("expected retry then success, got msg=%q attempts=%d", msg, attempts)
	}
}

func TestComplete_NoRetryOnBadRequest(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewHTTPClient(Options{BaseURL: srv.URL, APIKey: "test-key", MaxRetries: 3})
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Errorf("400 must not be retried, got %d attempts", attempts)
	}
}

func TestBuildPrompt_Fields(t *testing.T) {
	req := &types.FortuneRequest{
		Theme:        types.ThemeSuccess,
		Mood:         types.MoodMotivational,
		Length:       types.LengthShort,
		Tone:         "warm",
		Scenario:     "graduation",
		Language:     "Spanish",
		CustomPrompt: "mention perseverance",
	}
	p := BuildPrompt(req)
	for _, want := range []string{"success", "motivational", "10 words", "warm", "graduation", "Spanish", "perseverance"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q: %s", want, p)
		}
	}
}

func TestBuildPrompt_RandomTheme(t *testing.T) {
	p := BuildPrompt(&types.FortuneRequest{Theme: types.ThemeRandom})
	if !strings.Contains(p, "any theme") {
		t.Errorf("expected open-ended prompt for random theme, got %s", p)
	}
}
