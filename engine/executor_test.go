package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/dataset"
)

func valueDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("values",
		[]dataset.Column{{Name: "Value", Type: dataset.TypeInteger}},
		[][]any{{int64(5)}, {int64(20000)}, {int64(300)}},
	)
	require.NoError(t, err)
	return ds
}

func accrualDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("accruals",
		[]dataset.Column{
			{Name: "Company Code", Type: dataset.TypeInteger},
			{Name: "Account", Type: dataset.TypeString},
			{Name: "Amount", Type: dataset.TypeFloat},
			{Name: "Posted", Type: dataset.TypeDate},
			{Name: "Cleared", Type: dataset.TypeBool},
		},
		[][]any{
			{int64(1000), "Rent", 2200.5, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), false},
			{int64(1000), "Salaries", 12500.0, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true},
			{int64(2000), "Salaries", 9100.0, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), nil},
			{int64(2000), nil, nil, nil, nil},
		},
	)
	require.NoError(t, err)
	return ds
}

func TestExecute_FilterRows(t *testing.T) {
	ex := New(zap.NewNop())

	res, err := ex.Execute(context.Background(), `SELECT * FROM df WHERE "Value" > 10000`, valueDataset(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Value"}, res.Columns)
	assert.Equal(t, []string{"BIGINT"}, res.Types)
	assert.Equal(t, [][]any{{int64(20000)}}, res.Rows)
}

func TestExecute_TypedColumns(t *testing.T) {
	ex := New(zap.NewNop())
	ds := accrualDataset(t)

	t.Run("round trip", func(t *testing.T) {
		res, err := ex.Execute(context.Background(),
			`SELECT "Company Code", "Account", "Amount", "Posted", "Cleared" FROM df ORDER BY "Amount" DESC NULLS LAST LIMIT 1`, ds)
		require.NoError(t, err)

		require.Equal(t, 1, res.Len())
		assert.Equal(t, []any{
			int64(1000), "Salaries", 12500.0, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), true,
		}, res.Rows[0])
	})

	t.Run("nulls survive registration", func(t *testing.T) {
		res, err := ex.Execute(context.Background(), `SELECT COUNT(*) AS n FROM df WHERE "Account" IS NULL`, ds)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(1)}}, res.Rows)
	})

	t.Run("hugeint sum is normalized", func(t *testing.T) {
		res, err := ex.Execute(context.Background(), `SELECT SUM("Company Code") AS total FROM df`, ds)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{int64(6000)}}, res.Rows)
	})

	t.Run("decimal is normalized", func(t *testing.T) {
		res, err := ex.Execute(context.Background(), `SELECT CAST(12.25 AS DECIMAL(10,2)) AS d`, ds)
		require.NoError(t, err)
		assert.Equal(t, [][]any{{12.25}}, res.Rows)
	})

	t.Run("grouped aggregate", func(t *testing.T) {
		res, err := ex.Execute(context.Background(),
			`SELECT "Account", COUNT(*) AS n FROM df WHERE "Account" IS NOT NULL GROUP BY 1 ORDER BY 1`, ds)
		require.NoError(t, err)
		assert.Equal(t, []string{"Account", "n"}, res.Columns)
		assert.Equal(t, [][]any{{"Rent", int64(1)}, {"Salaries", int64(2)}}, res.Rows)
	})
}

func TestExecute_EmptyResult(t *testing.T) {
	res, err := New(zap.NewNop()).Execute(context.Background(), `SELECT * FROM df WHERE "Value" < 0`, valueDataset(t))
	require.NoError(t, err)

	assert.Equal(t, 0, res.Len())
	assert.Equal(t, []string{"Value"}, res.Columns)
	assert.NotNil(t, res.Rows)
}

func TestExecute_Failures(t *testing.T) {
	ex := New(zap.NewNop())
	ds := valueDataset(t)

	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"unknown column", "SELECT Price FROM df", "Price"},
		{"syntax error", "SELEC * FROM df", "syntax"},
		{"unknown table", "SELECT * FROM sales", "sales"},
		{"type mismatch", `SELECT "Value" + 'abc' FROM df`, ""},
		{"prose instead of SQL", "I cannot answer that.", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ex.Execute(context.Background(), tt.query, ds)
			require.Error(t, err)
			assert.Nil(t, res)

			var execErr *ExecutionError
			require.True(t, errors.As(err, &execErr))
			assert.Equal(t, tt.query, execErr.Query)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestExecute_Sandbox(t *testing.T) {
	ds := valueDataset(t)

	t.Run("file access is blocked", func(t *testing.T) {
		_, err := New(zap.NewNop()).Execute(context.Background(), "SELECT * FROM read_csv('/etc/passwd')", ds)
		var execErr *ExecutionError
		assert.True(t, errors.As(err, &execErr))
	})

	t.Run("settings cannot be unlocked", func(t *testing.T) {
		_, err := New(zap.NewNop()).Execute(context.Background(), "SET enable_external_access = true", ds)
		assert.Error(t, err)
	})

	t.Run("disabled sandbox allows settings", func(t *testing.T) {
		_, err := New(zap.NewNop(), WithSandbox(false)).Execute(context.Background(), "SET threads = 1", ds)
		assert.NoError(t, err)
	})
}

func TestExecute_TableName(t *testing.T) {
	ex := New(zap.NewNop(), WithTableName("accruals"))
	assert.Equal(t, "accruals", ex.TableName())

	res, err := ex.Execute(context.Background(), `SELECT COUNT(*) FROM accruals`, valueDataset(t))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(3)}}, res.Rows)
}

func TestExecute_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(zap.NewNop()).Execute(ctx, "SELECT 1", valueDataset(t))
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
}

func TestExecute_Concurrent(t *testing.T) {
	ex := New(zap.NewNop())
	ds := valueDataset(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := ex.Execute(context.Background(), `SELECT SUM("Value") FROM df`, ds)
			if err == nil && res.Rows[0][0] != int64(20305) {
				err = errors.New("unexpected sum")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestExecute_NonFiniteFloats(t *testing.T) {
	ex := New(zap.NewNop())

	res, err := ex.Execute(context.Background(),
		`SELECT 'inf'::DOUBLE AS up, '-inf'::DOUBLE AS down, 'nan'::DOUBLE AS nan, 1.5::DOUBLE AS ok`,
		valueDataset(t))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Infinity", "-Infinity", "NaN", 1.5}}, res.Rows)

	_, err = json.Marshal(res)
	assert.NoError(t, err)
}

func TestExecute_UUIDColumn(t *testing.T) {
	ex := New(zap.NewNop())

	res, err := ex.Execute(context.Background(),
		`SELECT '6ba7b810-9dad-11d1-80b4-00c04fd430c8'::UUID AS id`, valueDataset(t))
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}}, res.Rows)
}

func TestExecute_CaseVariantHeaders(t *testing.T) {
	ds, err := dataset.ParseCSV("mixed", []byte("Value,value\n1,2\n"))
	require.NoError(t, err)

	res, err := New(zap.NewNop()).Execute(context.Background(), `SELECT * FROM df`, ds)
	require.NoError(t, err)
	assert.Equal(t, []string{"Value", "value.1"}, res.Columns)
	assert.Equal(t, [][]any{{int64(1), int64(2)}}, res.Rows)
}

func TestNormalizeValue(t *testing.T) {
	huge, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)

	assert.Equal(t, int64(7), normalizeValue(int32(7)))
	assert.Equal(t, int64(7), normalizeValue(big.NewInt(7)))
	assert.Equal(t, huge.String(), normalizeValue(huge))
	assert.Equal(t, "blob", normalizeValue([]byte("blob")))
	assert.Equal(t, float64(float32(1.5)), normalizeValue(float32(1.5)))
	assert.Equal(t, []any{int64(1), nil}, normalizeValue([]any{int16(1), nil}))
	assert.Nil(t, normalizeValue(nil))
	assert.Equal(t, "NaN", normalizeValue(math.NaN()))
	assert.Equal(t, "Infinity", normalizeValue(float32(math.Inf(1))))
	assert.Equal(t, []any{"-Infinity", 2.0}, normalizeValue([]any{math.Inf(-1), 2.0}))
	assert.Equal(t, map[string]any{"r": "NaN"}, normalizeValue(map[string]any{"r": math.NaN()}))

	raw := []byte{0x6b, 0xa7, 0xb8, 0x10, 0x9d, 0xad, 0x11, 0xd1, 0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", normalizeColumn(raw, "UUID"))
	assert.Equal(t, string(raw), normalizeColumn(raw, "BLOB"))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "20000", FormatValue(int64(20000)))
	assert.Equal(t, "2200.5", FormatValue(2200.5))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "2024-01-31", FormatValue(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-01-31 10:30:00", FormatValue(time.Date(2024, 1, 31, 10, 30, 0, 0, time.UTC)))
}

func TestResultHead(t *testing.T) {
	res := &Result{Columns: []string{"n"}, Rows: [][]any{{int64(1)}, {int64(2)}, {int64(3)}}}

	assert.Equal(t, 2, res.Head(2).Len())
	assert.Equal(t, 3, res.Head(10).Len())
	assert.Equal(t, 0, res.Head(-1).Len())
	assert.Equal(t, 3, res.Len(), "Head must not modify the original")

	var nilRes *Result
	assert.Equal(t, 0, nilRes.Len())
}
