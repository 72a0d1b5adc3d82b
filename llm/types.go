package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ============================================================================
// LLM TYPES — Provider-neutral chat completion contract
// ============================================================================
// The translator and summarizer only ever talk to a Client. Each provider
// file (openai.go, gemini.go) maps a Request onto its own wire format.
// ============================================================================

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Supported providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Message is one turn of a chat prompt.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion call.
type Request struct {
	Model       string
	Messages    []Message
	Temperature float64
}

// Client sends a prompt to a language model and returns the reply text.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// ClientFunc adapts a plain function to the Client interface.
type ClientFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f ClientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Config selects and configures a provider.
type Config struct {
	Provider string        // "openai" (default) or "gemini"
	APIKey   string
	Endpoint string        // base URL; provider default when empty
	Timeout  time.Duration // HTTP client timeout; 60s when zero
}

// ErrEmptyResponse is returned when the provider answers without any text.
var ErrEmptyResponse = errors.New("language model returned an empty response")

// APIError is a non-2xx reply from the provider.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Message)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
