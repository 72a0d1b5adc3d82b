// Package profile summarizes the columns of a dataset for display.
package profile

import (
	"sort"
	"time"

	"github.com/spektr-org/asksql/dataset"
	"github.com/spektr-org/asksql/engine"
)

// ============================================================================
// PROFILE — Per-column statistics for the schema view
// ============================================================================
// A profile is shown to people (CLI schema command, /api/schema). It is
// never sent to the language model; the prompt carries column names only.
//
// Per column:
//   1. Count nulls and distinct values
//   2. Keep a few sorted sample values
//   3. Track min/max for numeric and temporal columns
//   4. Classify role (dimension, measure, identifier) from type + cardinality
// ============================================================================

// Roles a column can play in a question.
const (
	RoleDimension  = "dimension"  // grouped or filtered on
	RoleMeasure    = "measure"    // aggregated
	RoleIdentifier = "identifier" // unique per row
	RoleEmpty      = "empty"      // no values at all
)

// Cardinality hints.
const (
	CardinalityLow    = "low"
	CardinalityMedium = "medium"
	CardinalityHigh   = "high"
)

// DefaultMaxSamples is the number of sample values kept per column.
const DefaultMaxSamples = 5

// Column is the profile of one column.
type Column struct {
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Role            string   `json:"role"`
	NullCount       int      `json:"nullCount"`
	DistinctCount   int      `json:"distinctCount"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"`
	SampleValues    []string `json:"sampleValues,omitempty"`
	Min             string   `json:"min,omitempty"`
	Max             string   `json:"max,omitempty"`
}

// Profile describes a whole dataset.
type Profile struct {
	Rows    int      `json:"rows"`
	Columns []Column `json:"columns"`
}

// Build profiles every column of v. maxSamples <= 0 uses DefaultMaxSamples.
func Build(v dataset.View, maxSamples int) *Profile {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	cols := v.Columns()
	p := &Profile{Rows: v.Len(), Columns: make([]Column, len(cols))}
	for i, c := range cols {
		p.Columns[i] = analyzeColumn(v, i, c, maxSamples)
	}
	return p
}

func analyzeColumn(v dataset.View, index int, c dataset.Column, maxSamples int) Column {
	col := Column{Name: c.Name, Type: c.Type.String()}

	unique := make(map[string]bool)
	var lo, hi any
	for r := 0; r < v.Len(); r++ {
		val := v.Value(r, index)
		if val == nil {
			col.NullCount++
			continue
		}
		unique[engine.FormatValue(val)] = true
		if lo == nil || less(val, lo) {
			lo = val
		}
		if hi == nil || less(hi, val) {
			hi = val
		}
	}
	col.DistinctCount = len(unique)

	if col.DistinctCount == 0 {
		col.Role = RoleEmpty
		return col
	}

	col.SampleValues = collectSamples(unique, maxSamples)
	if ordered(c.Type) {
		col.Min = engine.FormatValue(lo)
		col.Max = engine.FormatValue(hi)
	}

	nonNull := v.Len() - col.NullCount
	col.Role = classifyRole(c.Type, col.DistinctCount, nonNull)

	switch {
	case col.DistinctCount <= 10:
		col.CardinalityHint = CardinalityLow
	case col.DistinctCount <= 100:
		col.CardinalityHint = CardinalityMedium
	default:
		col.CardinalityHint = CardinalityHigh
	}
	return col
}

// classifyRole determines dimension vs measure vs identifier.
func classifyRole(t dataset.ColumnType, distinct, total int) string {
	switch t {
	case dataset.TypeFloat:
		return RoleMeasure

	case dataset.TypeInteger:
		if distinct == total && total > 10 {
			return RoleIdentifier
		}
		// Few values at a low ratio look like codes (priority 1-5), not amounts.
		ratio := float64(distinct) / float64(total)
		if distinct < 20 && ratio < 0.3 {
			return RoleDimension
		}
		return RoleMeasure

	case dataset.TypeString:
		if distinct == total && total > 10 {
			return RoleIdentifier
		}
		return RoleDimension

	default: // bool, date, timestamp
		return RoleDimension
	}
}

func ordered(t dataset.ColumnType) bool {
	switch t {
	case dataset.TypeInteger, dataset.TypeFloat, dataset.TypeDate, dataset.TypeTimestamp:
		return true
	}
	return false
}

// less compares two non-nil cells of the same column.
func less(a, b any) bool {
	switch x := a.(type) {
	case int64:
		return x < b.(int64)
	case float64:
		return x < b.(float64)
	case time.Time:
		return x.Before(b.(time.Time))
	case string:
		return x < b.(string)
	case bool:
		return !x && b.(bool)
	}
	return false
}

// collectSamples picks up to maxSamples values, sorted for stable output.
func collectSamples(unique map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(unique))
	for v := range unique {
		samples = append(samples, v)
	}
	sort.Strings(samples)

	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}
