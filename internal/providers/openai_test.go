package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAI_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Error("Missing or wrong Authorization header")
		}

		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		resp := openaiResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "```go\nfunc f() {}\n```"}},
			},
			Usage: openaiUsage{TotalTokens: 50},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	o := &OpenAI{
		apiKey:  "test-key",
		model:   "gpt-4.1-nano",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := o.Generate(context.Background(), Request{
		SystemPrompt: "generate",
		UserPrompt:   "a function",
		MaxTokens:    10,
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Content != "func f() {}" {
		t.Errorf("Content = %q, want fencing stripped", resp.Content)
	}
	if resp.TokensUsed != 50 {
		t.Errorf("TokensUsed = %d, want 50", resp.TokensUsed)
	}
}

func TestOpenAI_NoRetryOnRateLimit(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(429)
		w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}

	_, err := o.Generate(context.Background(), Request{UserPrompt: "x"})
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !IsRateLimitError(err) {
		t.Errorf("expected rate-limit error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 (no retry)", attempts)
	}
}

func TestOpenAI_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "bad", model: "m", baseURL: server.URL, client: server.Client()}

	_, err := o.Generate(context.Background(), Request{UserPrompt: "x"})
	if !IsAuthError(err) {
		t.Errorf("expected auth error, got %v", err)
	}
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(openaiResponse{})
	}))
	defer server.Close()

	o := &OpenAI{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}

	if _, err := o.Generate(context.Background(), Request{UserPrompt: "x"}); err == nil {
		t.Error("expected error on empty choices")
	}
}

func TestNewOpenAI_KeyOverride(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAI("m", ""); err == nil {
		t.Error("expected error with no key available")
	}
	o, err := NewOpenAI("m", "explicit-key")
	if err != nil {
		t.Fatalf("NewOpenAI with explicit key: %v", err)
	}
	if o.apiKey != "explicit-key" {
		t.Errorf("apiKey = %q, want explicit override", o.apiKey)
	}
}
