package engine

import "fmt"

// ============================================================================
// ENGINE TYPES — Query results and execution failures
// ============================================================================
// The engine runs generated SQL against a dataset.View inside a throwaway
// DuckDB database. Callers get either a fully materialized Result or an
// *ExecutionError, never a partial result.
// ============================================================================

// Result is the materialized output of one query.
type Result struct {
	Columns []string `json:"columns"`
	Types   []string `json:"types"` // DuckDB type names, e.g. BIGINT, VARCHAR
	Rows    [][]any  `json:"rows"`
}

// Len returns the number of rows.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Head returns a shallow copy limited to the first n rows.
func (r *Result) Head(n int) *Result {
	if n < 0 {
		n = 0
	}
	if n > len(r.Rows) {
		n = len(r.Rows)
	}
	return &Result{
		Columns: r.Columns,
		Types:   r.Types,
		Rows:    r.Rows[:n:n],
	}
}

// StringRows formats every cell with FormatValue.
func (r *Result) StringRows() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

// ExecutionError reports a query that could not be registered, run or read.
// It carries the query text and the engine's message.
type ExecutionError struct {
	Query string
	Err   error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("query execution failed: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
