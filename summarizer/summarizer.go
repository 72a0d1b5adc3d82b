package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spektr-org/asksql/engine"
	"github.com/spektr-org/asksql/llm"
)

// ============================================================================
// SUMMARIZER — Result preview → plain-English answer
// ============================================================================
// The model sees the question and a bounded markdown preview of the result,
// never the whole result set.
// ============================================================================

// Defaults for a Summarizer built without options.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.4
)

// ErrEmptySummary is returned when the model replies with blank text.
var ErrEmptySummary = errors.New("language model returned an empty summary")

// Summarizer produces short natural-language summaries of query results.
type Summarizer struct {
	client      llm.Client
	logger      *zap.Logger
	model       string
	temperature float64
	maxRows     int
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(s *Summarizer) {
		if model != "" {
			s.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) Option {
	return func(s *Summarizer) { s.temperature = temp }
}

// WithMaxPreviewRows caps the rows included in the prompt.
func WithMaxPreviewRows(n int) Option {
	return func(s *Summarizer) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// New creates a Summarizer.
func New(client llm.Client, logger *zap.Logger, opts ...Option) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Summarizer{
		client:      client,
		logger:      logger,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		maxRows:     DefaultMaxPreviewRows,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize asks the model to describe result in one or two sentences.
func (s *Summarizer) Summarize(ctx context.Context, question string, result *engine.Result) (string, error) {
	preview := BuildPreview(result, s.maxRows)

	reply, err := s.client.Complete(ctx, llm.Request{
		Model:       s.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: BuildPrompt(question, preview)}},
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("summarize: %w", err)
	}

	summary := strings.TrimSpace(reply)
	if summary == "" {
		return "", ErrEmptySummary
	}

	s.logger.Debug("summarized result",
		zap.Int("rows", result.Len()),
		zap.Int("summary_len", len(summary)),
	)
	return summary, nil
}

// BuildPrompt formats the summary request.
func BuildPrompt(question, preview string) string {
	return fmt.Sprintf(`You are a helpful data analyst.
The user asked: %q

Here is the result (first few rows):
%s
Please summarize the finding in 1-2 short sentences in plain English.`, question, preview)
}
