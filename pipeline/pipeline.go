package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/asksql/dataset"
	"github.com/spektr-org/asksql/engine"
	"github.com/spektr-org/asksql/llm"
	"github.com/spektr-org/asksql/metrics"
	"github.com/spektr-org/asksql/summarizer"
	"github.com/spektr-org/asksql/translator"
)

// ============================================================================
// PIPELINE — question → SQL → result → summary
// ============================================================================
// Ask runs the three stages in order:
//
//   translate  failure → returned error, no Answer
//   execute    failure → Answer with Error (query kept for display)
//   summarize  failure → Answer with Result and SummaryError
//
// A result that executed is never thrown away because a later step failed.
// Each stage gets its own deadline carved from the caller's context.
// ============================================================================

// Translator turns a question into a query.
type Translator interface {
	Translate(ctx context.Context, question string, columns []string) (string, error)
}

// Executor runs a query against a dataset.
type Executor interface {
	Execute(ctx context.Context, query string, view dataset.View) (*engine.Result, error)
}

// Summarizer describes a result in prose.
type Summarizer interface {
	Summarize(ctx context.Context, question string, result *engine.Result) (string, error)
}

// Config is the explicit configuration of a Pipeline.
type Config struct {
	Model                  string
	TranslationTemperature float64
	SummaryTemperature     float64
	MaxPreviewRows         int
	TableName              string
	LLMTimeout             time.Duration // per model call; 0 = none
	ExecTimeout            time.Duration // per query; 0 = none
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Model:                  translator.DefaultModel,
		TranslationTemperature: translator.DefaultTemperature,
		SummaryTemperature:     summarizer.DefaultTemperature,
		MaxPreviewRows:         summarizer.DefaultMaxPreviewRows,
		TableName:              engine.DefaultTableName,
		LLMTimeout:             60 * time.Second,
		ExecTimeout:            30 * time.Second,
	}
}

// Pipeline answers questions about one dataset.
type Pipeline struct {
	data       dataset.View
	columns    []string
	translator Translator
	executor   Executor
	summarizer Summarizer
	cfg        Config
	logger     *zap.Logger
}

// Option replaces a stage implementation.
type Option func(*Pipeline)

// WithTranslator overrides the translation stage.
func WithTranslator(t Translator) Option { return func(p *Pipeline) { p.translator = t } }

// WithExecutor overrides the execution stage.
func WithExecutor(e Executor) Option { return func(p *Pipeline) { p.executor = e } }

// WithSummarizer overrides the summary stage.
func WithSummarizer(s Summarizer) Option { return func(p *Pipeline) { p.summarizer = s } }

// New wires the default stages around client and data.
func New(data dataset.View, client llm.Client, cfg Config, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TableName == "" {
		cfg.TableName = engine.DefaultTableName
	}

	p := &Pipeline{
		data:    data,
		columns: dataset.ColumnNames(data),
		cfg:     cfg,
		logger:  logger,
		translator: translator.New(client, logger,
			translator.WithModel(cfg.Model),
			translator.WithTemperature(cfg.TranslationTemperature),
			translator.WithTableName(cfg.TableName),
		),
		executor: engine.New(logger,
			engine.WithTableName(cfg.TableName),
		),
		summarizer: summarizer.New(client, logger,
			summarizer.WithModel(cfg.Model),
			summarizer.WithTemperature(cfg.SummaryTemperature),
			summarizer.WithMaxPreviewRows(cfg.MaxPreviewRows),
		),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Columns returns the dataset's column names as sent to the model.
func (p *Pipeline) Columns() []string { return append([]string(nil), p.columns...) }

// Ask answers one question.
func (p *Pipeline) Ask(ctx context.Context, question string) (*Answer, error) {
	start := time.Now()
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	log := p.logger.With(zap.String("question", truncate(question, 120)))

	// 1. Translate
	if err := ctx.Err(); err != nil {
		return nil, &StageError{Stage: metrics.StageTranslate, Err: err}
	}
	query, err := p.translate(ctx, question)
	if err != nil {
		metrics.RecordAnswer(metrics.OutcomeFailed)
		log.Warn("translation failed", zap.Error(err))
		return nil, &StageError{Stage: metrics.StageTranslate, Err: err}
	}
	log = log.With(zap.String("query", query))

	answer := &Answer{Question: question, Query: query}
	defer func() { answer.ElapsedMs = time.Since(start).Milliseconds() }()

	// 2. Execute
	result, err := p.execute(ctx, query)
	if err != nil {
		answer.Error = strPtr(err.Error())
		metrics.RecordAnswer(metrics.OutcomeExecutionError)
		log.Info("query failed", zap.Error(err))
		return answer, nil
	}
	answer.Result = result
	metrics.RecordResultRows(result.Len())

	// 3. Summarize
	summary, err := p.summarize(ctx, question, result)
	if err != nil {
		answer.SummaryError = strPtr(err.Error())
		metrics.RecordAnswer(metrics.OutcomeSummaryError)
		log.Warn("summary failed, returning result without it", zap.Error(err))
		return answer, nil
	}
	answer.Summary = strPtr(summary)
	metrics.RecordAnswer(metrics.OutcomeAnswered)

	log.Info("question answered",
		zap.Int("rows", result.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return answer, nil
}

func (p *Pipeline) translate(ctx context.Context, question string) (string, error) {
	ctx, cancel := withTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	query, err := p.translator.Translate(ctx, question, p.Columns())
	metrics.RecordStage(metrics.StageTranslate, time.Since(start), err)
	return query, err
}

func (p *Pipeline) execute(ctx context.Context, query string) (*engine.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, &engine.ExecutionError{Query: query, Err: err}
	}
	ctx, cancel := withTimeout(ctx, p.cfg.ExecTimeout)
	defer cancel()

	start := time.Now()
	result, err := p.executor.Execute(ctx, query, p.data)
	metrics.RecordStage(metrics.StageExecute, time.Since(start), err)
	return result, err
}

func (p *Pipeline) summarize(ctx context.Context, question string, result *engine.Result) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx, cancel := withTimeout(ctx, p.cfg.LLMTimeout)
	defer cancel()

	start := time.Now()
	summary, err := p.summarizer.Summarize(ctx, question, result)
	metrics.RecordStage(metrics.StageSummarize, time.Since(start), err)
	return summary, err
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
