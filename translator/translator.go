package translator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/asksql/llm"
)

// ============================================================================
// TRANSLATOR — AI boundary for natural language → SQL
// ============================================================================
// Receives the question plus the dataset's column names and returns a query
// string for the engine. It NEVER sees raw data.
//
// The query is not validated here. Malformed SQL is passed through and
// rejected by the executor.
// ============================================================================

// Defaults for a Translator built without options.
const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = 0.2
	DefaultTableName   = "df"
)

// ErrEmptyQuery is returned when nothing usable could be extracted from the
// model's reply.
var ErrEmptyQuery = errors.New("language model returned an empty query")

// Translator turns questions into SQL using a language model.
type Translator struct {
	client      llm.Client
	logger      *zap.Logger
	model       string
	temperature float64
	tableName   string
}

// Option configures a Translator.
type Option func(*Translator)

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(t *Translator) {
		if model != "" {
			t.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temp float64) Option {
	return func(t *Translator) { t.temperature = temp }
}

// WithTableName sets the relation name used in the prompt.
func WithTableName(name string) Option {
	return func(t *Translator) {
		if name != "" {
			t.tableName = name
		}
	}
}

// New creates a Translator.
func New(client llm.Client, logger *zap.Logger, opts ...Option) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Translator{
		client:      client,
		logger:      logger,
		model:       DefaultModel,
		temperature: DefaultTemperature,
		tableName:   DefaultTableName,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate asks the model for a query answering question over the given
// columns. Transport and provider errors are returned wrapped.
func (t *Translator) Translate(ctx context.Context, question string, columns []string) (string, error) {
	start := time.Now()

	raw, err := t.client.Complete(ctx, llm.Request{
		Model:       t.model,
		Messages:    BuildMessages(t.tableName, columns, question),
		Temperature: t.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}

	query := ExtractQuery(raw)
	if query == "" {
		return "", ErrEmptyQuery
	}

	t.logger.Debug("translated question",
		zap.String("question", truncate(question, 80)),
		zap.String("query", query),
		zap.String("model", t.model),
		zap.Duration("elapsed", time.Since(start)),
	)
	return query, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
