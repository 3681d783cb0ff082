package phrase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sushant-bot/HONEY-POT/pkg/agent"
)

func chatServer(t *testing.T, reply string, check func(r *http.Request, body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if check != nil {
			check(r, body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
}

func testRequest() Request {
	return Request{
		Intent:         "express confusion about the alert",
		State:          agent.StateConfused,
		ScammerMessage: "your account will be blocked",
		Persona:        agent.GetPersona(nil, "default"),
	}
}

func TestPhraseSuccess(t *testing.T) {
	srv := chatServer(t, `"Oh no, what happened to my account?"`, func(r *http.Request, body map[string]any) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("endpoint path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		msgs := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected system+user messages, got %d", len(msgs))
		}
		system := msgs[0].(map[string]any)["content"].(string)
		if !strings.Contains(system, "STRICT RULES") {
			t.Error("system message should carry the persona prompt")
		}
		user := msgs[1].(map[string]any)["content"].(string)
		if !strings.Contains(user, "express confusion about the alert") {
			t.Error("user message should carry the intent")
		}
	})
	defer srv.Close()

	p := New(Config{Provider: ProviderCustom, BaseURL: srv.URL, APIKey: "test-key"})
	got, err := p.Phrase(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Phrase() error = %v", err)
	}
	if got != "Oh no, what happened to my account?" {
		t.Errorf("reply = %q, surrounding quotes should be stripped", got)
	}
}

func TestPhraseTrailingSlashBaseURL(t *testing.T) {
	srv := chatServer(t, "ok", func(r *http.Request, _ map[string]any) {
		if strings.Contains(r.URL.Path, "//") {
			t.Errorf("doubled slash in path %s", r.URL.Path)
		}
	})
	defer srv.Close()

	p := New(Config{Provider: ProviderCustom, BaseURL: srv.URL + "/", APIKey: "k"})
	if _, err := p.Phrase(context.Background(), testRequest()); err != nil {
		t.Fatalf("Phrase() error = %v", err)
	}
}

func TestPhraseAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	p := New(Config{Provider: ProviderCustom, BaseURL: srv.URL, APIKey: "k"})
	if _, err := p.Phrase(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error on 429 response")
	}
}

func TestPhraseEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	p := New(Config{Provider: ProviderCustom, BaseURL: srv.URL, APIKey: "k"})
	if _, err := p.Phrase(context.Background(), testRequest()); err == nil {
		t.Fatal("expected error on empty choices")
	}
}

func TestPhraseMissingKey(t *testing.T) {
	p := New(Config{Provider: ProviderGroq})
	if _, err := p.Phrase(context.Background(), testRequest()); err == nil {
		t.Fatal("cloud provider without a key must fail fast")
	}
}

func TestProviderDefaults(t *testing.T) {
	tests := []struct {
		provider  Provider
		wantURL   string
		wantModel string
	}{
		{ProviderOllama, "http://localhost:11434/v1", "qwen2.5:7b"},
		{ProviderGroq, "https://api.groq.com/openai/v1", "llama-3.1-8b-instant"},
		{ProviderOpenRouter, "https://openrouter.ai/api/v1", "llama-3.1-8b-instant"},
	}
	for _, tt := range tests {
		p := New(Config{Provider: tt.provider})
		if p.baseURL != tt.wantURL {
			t.Errorf("%s base URL = %q, want %q", tt.provider, p.baseURL, tt.wantURL)
		}
		if p.model != tt.wantModel {
			t.Errorf("%s model = %q, want %q", tt.provider, p.model, tt.wantModel)
		}
	}
}
