package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropic_Generate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Error("Missing or wrong x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Error("Missing anthropic-version header")
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.System == "" {
			t.Error("system prompt not carried in system field")
		}

		resp := anthropicResponse{
			Content: []anthropicBlock{
				{Type: "text", Text: "```\nGOLDEN = 1.618\n```"},
			},
			Usage: anthropicUsage{InputTokens: 10, OutputTokens: 5},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := &Anthropic{
		apiKey:  "test-key",
		model:   "claude-sonnet-4-20250514",
		baseURL: server.URL,
		client:  server.Client(),
	}

	resp, err := a.Generate(context.Background(), Request{
		SystemPrompt: "generate a constant",
		UserPrompt:   "Constant name: golden",
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Content != "GOLDEN = 1.618" {
		t.Errorf("Content = %q, want fencing stripped", resp.Content)
	}
	if resp.TokensUsed != 15 {
		t.Errorf("TokensUsed = %d, want 15", resp.TokensUsed)
	}
}

func TestAnthropic_JoinsTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := anthropicResponse{
			Content: []anthropicBlock{
				{Type: "text", Text: "part one "},
				{Type: "thinking", Text: "ignored"},
				{Type: "text", Text: "part two"},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	a := &Anthropic{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}

	resp, err := a.Generate(context.Background(), Request{UserPrompt: "x"})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if resp.Content != "part one part two" {
		t.Errorf("Content = %q", resp.Content)
	}
}

func TestAnthropic_ServerErrorNotRetried(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(500)
		w.Write([]byte("internal"))
	}))
	defer server.Close()

	a := &Anthropic{apiKey: "k", model: "m", baseURL: server.URL, client: server.Client()}

	if _, err := a.Generate(context.Background(), Request{UserPrompt: "x"}); err == nil {
		t.Fatal("expected error on 500")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want exactly 1 (no retry)", attempts)
	}
}
