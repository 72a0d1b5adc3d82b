// Package metrics provides Prometheus metrics recording for the question pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline stages.
const (
	StageTranslate = "translate"
	StageExecute   = "execute"
	StageSummarize = "summarize"
)

// Answer outcomes.
const (
	OutcomeAnswered       = "answered"
	OutcomeExecutionError = "execution_error"
	OutcomeSummaryError   = "summary_error"
	OutcomeFailed         = "failed"
)

var (
	// stageDuration tracks how long each pipeline stage takes
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "asksql_stage_duration_seconds",
			Help:    "Pipeline stage duration in seconds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	// stageErrors tracks failed stages
	stageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksql_stage_errors_total",
			Help: "Total number of failed pipeline stages",
		},
		[]string{"stage"},
	)

	// answers tracks questions by how they ended
	answers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "asksql_answers_total",
			Help: "Total number of questions by outcome",
		},
		[]string{"outcome"},
	)

	// resultRows tracks the size of successful query results
	resultRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "asksql_result_rows",
			Help:    "Rows returned by successful queries",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// RecordStage records the duration of a stage and, if it failed, an error.
func RecordStage(stage string, duration time.Duration, err error) {
	stageDuration.WithLabelValues(stage).Observe(duration.Seconds())
	if err != nil {
		stageErrors.WithLabelValues(stage).Inc()
	}
}

// RecordAnswer records the outcome of one question.
func RecordAnswer(outcome string) {
	answers.WithLabelValues(outcome).Inc()
}

// RecordResultRows records the row count of a successful query.
func RecordResultRows(n int) {
	resultRows.Observe(float64(n))
}
