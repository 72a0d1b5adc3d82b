package llm

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const defaultHTTPTimeout = 60 * time.Second

// New returns the client for cfg.Provider.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", ProviderOpenAI:
		return NewOpenAI(cfg), nil
	case ProviderGemini:
		return NewGemini(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Ping sends a one-line greeting and returns the model's reply.
// Used by the CLI to check credentials and connectivity.
func Ping(ctx context.Context, c Client, model string) (string, error) {
	reply, err := c.Complete(ctx, Request{
		Model:       model,
		Messages:    []Message{{Role: RoleUser, Content: "Respond with a short greeting to confirm the API connection works."}},
		Temperature: 0,
	})
	if err != nil {
		return "", fmt.Errorf("ping %s: %w", model, err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", fmt.Errorf("ping %s: %w", model, ErrEmptyResponse)
	}
	return reply, nil
}

func httpTimeout(cfg Config) time.Duration {
	if cfg.Timeout > 0 {
		return cfg.Timeout
	}
	return defaultHTTPTimeout
}
