package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb" // registers the "duckdb" driver
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/dataset"
)

// ============================================================================
// EXECUTOR — Ephemeral DuckDB per query
// ============================================================================
// Entry point: Executor.Execute(ctx, query, view)
//
// Pipeline:
//   1. Open a fresh in-memory database + one connection
//   2. Register the view as a typed table (appender bulk load)
//   3. Sandbox the connection
//   4. Run the query verbatim and materialize every row
//   5. Normalize driver-specific values (HUGEINT, DECIMAL, blobs)
//   6. Close everything, on every path
//
// Every failure, including a driver panic, comes back as *ExecutionError.
// ============================================================================

// Executor runs queries against datasets.
// It holds no connection between calls and is safe for concurrent use.
type Executor struct {
	cfg    *config
	logger *zap.Logger
}

// New creates an Executor.
//
// Options:
//   - WithTableName(name): relation name, "df" by default
//   - WithTimeout(d): per-call deadline
//   - WithSandbox(false): disable the post-registration lockdown
func New(logger *zap.Logger, opts ...Option) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{cfg: applyOptions(opts), logger: logger}
}

// TableName returns the relation name queries must use.
func (e *Executor) TableName() string { return e.cfg.TableName }

// Execute runs query against view and returns the full result set.
func (e *Executor) Execute(ctx context.Context, query string, view dataset.View) (res *Result, err error) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = &ExecutionError{Query: query, Err: fmt.Errorf("engine panic: %v", r)}
		}
		if err != nil {
			e.logger.Debug("query failed",
				zap.String("query", query),
				zap.Error(err),
				zap.Duration("elapsed", time.Since(start)),
			)
		}
	}()

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	db, err := sqlx.Open("duckdb", "")
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: fmt.Errorf("open engine: %w", err)}
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	conn, err := db.Connx(ctx)
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: fmt.Errorf("connect: %w", err)}
	}
	defer conn.Close()

	if err := register(ctx, conn, e.cfg.TableName, view); err != nil {
		return nil, &ExecutionError{Query: query, Err: fmt.Errorf("register dataset: %w", err)}
	}

	if e.cfg.Sandbox {
		if err := sandbox(ctx, conn); err != nil {
			return nil, &ExecutionError{Query: query, Err: fmt.Errorf("sandbox: %w", err)}
		}
	}

	res, err = runQuery(ctx, conn, query)
	if err != nil {
		return nil, &ExecutionError{Query: query, Err: err}
	}

	e.logger.Debug("query executed",
		zap.String("query", query),
		zap.Int("rows", res.Len()),
		zap.Int("input_rows", view.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res, nil
}

func runQuery(ctx context.Context, conn *sqlx.Conn, query string) (*Result, error) {
	rows, err := conn.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	types := make([]string, len(columns))
	if colTypes, err := rows.ColumnTypes(); err == nil {
		for i, ct := range colTypes {
			types[i] = ct.DatabaseTypeName()
		}
	}

	res := &Result{Columns: columns, Types: types, Rows: [][]any{}}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(res.Rows), err)
		}
		for i, v := range values {
			values[i] = normalizeColumn(v, types[i])
		}
		res.Rows = append(res.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
