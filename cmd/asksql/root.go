package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/config"
	"github.com/spektr-org/asksql/dataset"
	"github.com/spektr-org/asksql/llm"
	"github.com/spektr-org/asksql/logger"
	"github.com/spektr-org/asksql/pipeline"
)

// ============================================================================
// ASKSQL CLI — Plain-English questions over a table
// ============================================================================

// Version is set at build time
var Version = "0.3.0"

var (
	// Global flags
	configFile string
	format     string
	outFile    string
)

// errAnswerFailed marks an answer that was printed but did not succeed.
var errAnswerFailed = errors.New("question could not be answered")

var rootCmd = &cobra.Command{
	Use:   "asksql",
	Short: "asksql - ask questions about a data file in plain English",
	Long: `asksql turns a natural-language question into SQL, runs it against your
CSV or Excel file with an embedded DuckDB engine and summarizes the result.

Commands:
  ask      - Answer one question
  demo     - Run the built-in sample questions
  schema   - Show the detected columns and types
  ping     - Check the language-model connection
  serve    - Start the HTTP API

Environment:
  OPENAI_API_KEY    Required for the openai provider (default)
  GEMINI_API_KEY    Required for --provider gemini
  DATA_PATH         Dataset file, instead of --data

Formats:
  text      Summary, SQL and result table (default)
  json      Full JSON answer
  pretty    Pretty-printed JSON
  csv       Result rows as CSV (ready for Sheets/Excel)

Example:
  asksql ask --data accruals.xlsx "Which accounts have a value above 10000?"
  asksql ask -d sales.csv -f csv -o results.csv "revenue by region"
  asksql demo --data "data/Data Dump - Accrual Accounts.xlsx"
  asksql serve --data sales.csv --port 8080`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: ./asksql.yaml if present)")
	pf.StringP("data", "d", "", "Path to the CSV, TSV or Excel data file")
	pf.String("sheet", "", "Excel worksheet (default: first sheet)")
	pf.String("provider", "", "Language-model provider: openai or gemini")
	pf.String("model", "", "Model name (default depends on provider)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.StringVarP(&format, "format", "f", "text", "Output format: text, json, pretty, csv")
	pf.StringVarP(&outFile, "out", "o", "", "Write output to file instead of stdout")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(serveCmd)
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errAnswerFailed) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

// flagBindings maps config keys to the persistent flags that override them.
func flagBindings(cmd *cobra.Command, extra map[string]string) map[string]*pflag.Flag {
	names := map[string]string{
		"data_path":    "data",
		"data_sheet":   "sheet",
		"llm_provider": "provider",
		"llm_model":    "model",
		"log_level":    "log-level",
	}
	for k, v := range extra {
		names[k] = v
	}

	flags := make(map[string]*pflag.Flag, len(names))
	for key, name := range names {
		if f := cmd.Flags().Lookup(name); f != nil {
			flags[key] = f
		}
	}
	return flags
}

// env is everything a command needs, built from config.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
	data   *dataset.Dataset
	client llm.Client
}

type setupOptions struct {
	needData   bool
	needClient bool
	extraFlags map[string]string
}

func setup(cmd *cobra.Command, opts setupOptions) (*env, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: configFile,
		Flags:      flagBindings(cmd, opts.extraFlags),
	})
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, logger: log}

	if opts.needData {
		if cfg.Data.Path == "" {
			return nil, fmt.Errorf("no dataset: pass --data or set DATA_PATH")
		}
		e.data, err = dataset.Load(cfg.Data.Path, dataset.LoadOptions{Sheet: cfg.Data.Sheet})
		if err != nil {
			return nil, err
		}
		log.Info("data loaded",
			zap.String("path", cfg.Data.Path),
			zap.Int("rows", e.data.Len()),
			zap.Int("columns", len(e.data.Columns())),
		)
	}

	if opts.needClient {
		if cfg.LLM.APIKey() == "" && cfg.LLM.Endpoint == "" {
			return nil, fmt.Errorf("missing API key for provider %q: set %s in your environment or .env file",
				cfg.LLM.Provider, apiKeyEnv(cfg.LLM.Provider))
		}
		e.client, err = llm.New(cfg.LLM.ClientConfig())
		if err != nil {
			return nil, err
		}
	}

	return e, nil
}

func (e *env) pipeline() *pipeline.Pipeline {
	return pipeline.New(e.data, e.client, pipeline.Config{
		Model:                  e.cfg.LLM.Model,
		TranslationTemperature: e.cfg.Pipeline.TranslationTemperature,
		SummaryTemperature:     e.cfg.Pipeline.SummaryTemperature,
		MaxPreviewRows:         e.cfg.Pipeline.MaxPreviewRows,
		TableName:              e.cfg.Pipeline.TableName,
		LLMTimeout:             e.cfg.LLM.Timeout,
		ExecTimeout:            e.cfg.Pipeline.ExecTimeout,
	}, e.logger)
}

func apiKeyEnv(provider string) string {
	if provider == llm.ProviderGemini {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

// output opens --out or returns stdout. The caller must call the close func.
func output(cmd *cobra.Command) (io.Writer, func() error, error) {
	if outFile == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(outFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
