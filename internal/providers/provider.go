package providers

import (
	"context"
	"fmt"
)

// Request contains the prompt pair sent to a generation endpoint.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
}

// Response contains the reply from a generation endpoint. Content has
// surrounding code fencing already stripped.
type Response struct {
	Content    string
	TokensUsed int
}

// Generator is the generation endpoint abstraction. One blocking call per
// cache miss; failures are logged and returned without retry.
type Generator interface {
	Generate(ctx context.Context, req Request) (Response, error)
	Name() string
}

// New creates a generator by provider name. An empty apiKey falls back to the
// provider's environment variable.
func New(provider, model, apiKey string) (Generator, error) {
	switch provider {
	case "openai":
		return NewOpenAI(model, apiKey)
	case "anthropic":
		return NewAnthropic(model, apiKey)
	case "ollama", "lmstudio":
		return NewOllama(model, apiKey)
	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
}
