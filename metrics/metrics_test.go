package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordStage(t *testing.T) {
	before := testutil.ToFloat64(stageErrors.WithLabelValues(StageExecute))

	RecordStage(StageExecute, 20*time.Millisecond, nil)
	assert.Equal(t, before, testutil.ToFloat64(stageErrors.WithLabelValues(StageExecute)))

	RecordStage(StageExecute, 20*time.Millisecond, errors.New("binder error"))
	assert.Equal(t, before+1, testutil.ToFloat64(stageErrors.WithLabelValues(StageExecute)))
}

func TestRecordAnswer(t *testing.T) {
	before := testutil.ToFloat64(answers.WithLabelValues(OutcomeSummaryError))
	RecordAnswer(OutcomeSummaryError)
	assert.Equal(t, before+1, testutil.ToFloat64(answers.WithLabelValues(OutcomeSummaryError)))
}

func TestRecordResultRows(t *testing.T) {
	RecordResultRows(12)
	assert.Equal(t, 1, testutil.CollectAndCount(resultRows))
}
