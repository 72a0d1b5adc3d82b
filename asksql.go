// Package asksql answers plain-English questions about a tabular file.
//
// Usage:
//
//	import "github.com/spektr-org/asksql"
//
//	client, _ := llm.New(llm.Config{APIKey: os.Getenv("OPENAI_API_KEY")})
//	p, err := asksql.Open("accruals.xlsx", client)
//	answer, err := p.Ask(ctx, "Which accounts have a value above 10000?")
//
// A question is translated to one DuckDB SELECT over the table "df", the
// query runs against an in-memory copy of the data, and the result is
// summarized in prose. Only the column names and a short preview of the
// result are ever sent to the language model.
//
// The pieces are usable on their own: dataset loads files, translator and
// summarizer wrap the model calls, engine runs the SQL.
package asksql

import (
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/dataset"
	"github.com/spektr-org/asksql/llm"
	"github.com/spektr-org/asksql/pipeline"
)

type options struct {
	cfg    pipeline.Config
	load   dataset.LoadOptions
	logger *zap.Logger
}

// Option configures Open.
type Option func(*options)

// WithConfig replaces the pipeline defaults.
func WithConfig(cfg pipeline.Config) Option { return func(o *options) { o.cfg = cfg } }

// WithSheet selects the Excel worksheet to read.
func WithSheet(name string) Option { return func(o *options) { o.load.Sheet = name } }

// WithLogger sets the logger used by every stage.
func WithLogger(l *zap.Logger) Option { return func(o *options) { o.logger = l } }

// Open loads the file at path and returns a pipeline ready to answer
// questions about it.
func Open(path string, client llm.Client, opts ...Option) (*pipeline.Pipeline, error) {
	o := &options{cfg: pipeline.DefaultConfig(), logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}

	data, err := dataset.Load(path, o.load)
	if err != nil {
		return nil, err
	}
	return pipeline.New(data, client, o.cfg, o.logger), nil
}
