// Package providers implements generation endpoint clients.
//
// Each provider sends a system/user prompt pair to its chat completions API
// and returns the single text completion with any surrounding code fencing
// stripped. Exactly one endpoint call is made per request: transport and API
// failures are classified (auth, rate limit, server), logged at error level,
// and returned to the caller with no retry, backoff, or partial result.
//
// Supported providers: openai, anthropic, ollama (also serves LM Studio via
// its OpenAI-compatible API).
package providers
