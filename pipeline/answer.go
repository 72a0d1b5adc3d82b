package pipeline

import (
	"errors"
	"fmt"

	"github.com/spektr-org/asksql/engine"
)

// Answer is everything produced for one question.
//
// Query is always set. Exactly one of Result and Error is set. When Result
// is set, exactly one of Summary and SummaryError is set.
type Answer struct {
	Question     string         `json:"question"`
	Query        string         `json:"query"`
	Result       *engine.Result `json:"result"`
	Summary      *string        `json:"summary"`
	Error        *string        `json:"error"`
	SummaryError *string        `json:"summaryError,omitempty"`
	ElapsedMs    int64          `json:"elapsedMs"`
}

// Succeeded reports whether the query ran.
func (a *Answer) Succeeded() bool { return a.Result != nil }

// ErrEmptyQuestion is returned for blank questions; no model call is made.
var ErrEmptyQuestion = errors.New("question is empty")

// StageError is a failure that aborts the pipeline without an Answer.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func strPtr(s string) *string { return &s }
