package dataset

import (
	"fmt"
	"strings"
	"time"
)

// ============================================================================
// DATASET — The immutable table every question is asked against
// ============================================================================
// Created once per session by a loader (CSV, Excel, ad-hoc) and never mutated.
// The translator only ever sees column names; the executor reads cells
// through the View interface and copies them into its own engine.
// ============================================================================

// ColumnType is the inferred storage type of a column.
type ColumnType int

const (
	TypeString ColumnType = iota
	TypeInteger
	TypeFloat
	TypeBool
	TypeDate
	TypeTimestamp
)

// String returns the lowercase name of the type.
func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeTimestamp:
		return "timestamp"
	default:
		return "string"
	}
}

// SQLType returns the DuckDB column type used when the dataset is registered.
func (t ColumnType) SQLType() string {
	switch t {
	case TypeInteger:
		return "BIGINT"
	case TypeFloat:
		return "DOUBLE"
	case TypeBool:
		return "BOOLEAN"
	case TypeDate:
		return "DATE"
	case TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

// Column describes one named, typed column.
type Column struct {
	Name string     `json:"name"`
	Type ColumnType `json:"-"`
}

// View provides indexed, read-only access to a table.
// Implementations must be safe for concurrent readers.
type View interface {
	Len() int
	Columns() []Column
	Value(row, col int) any
}

// Dataset is an in-memory table with an ordered set of columns and rows.
// Cells hold int64, float64, bool, string, time.Time or nil.
type Dataset struct {
	name    string
	columns []Column
	rows    [][]any
}

// New builds a Dataset from typed columns and rows. The inputs are copied,
// so later changes by the caller do not leak into the dataset.
func New(name string, columns []Column, rows [][]any) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("dataset %q has no columns", name)
	}

	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Name == "" {
			return nil, fmt.Errorf("dataset %q has an unnamed column", name)
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return nil, fmt.Errorf("dataset %q has duplicate column %q (names are case-insensitive)", name, c.Name)
		}
		seen[key] = true
	}

	copied := make([][]any, len(rows))
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(columns))
		}
		for j, v := range row {
			if err := checkCell(v, columns[j].Type); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, columns[j].Name, err)
			}
		}
		copied[i] = append([]any(nil), row...)
	}

	return &Dataset{
		name:    name,
		columns: append([]Column(nil), columns...),
		rows:    copied,
	}, nil
}

// Name returns the dataset's display name (usually the source file name).
func (d *Dataset) Name() string { return d.name }

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Columns returns a copy of the column list.
func (d *Dataset) Columns() []Column { return append([]Column(nil), d.columns...) }

// ColumnNames returns the column names in order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// Value returns a single cell, or nil when out of range.
func (d *Dataset) Value(row, col int) any {
	if row < 0 || row >= len(d.rows) || col < 0 || col >= len(d.columns) {
		return nil
	}
	return d.rows[row][col]
}

// Row returns a copy of one row.
func (d *Dataset) Row(i int) []any {
	if i < 0 || i >= len(d.rows) {
		return nil
	}
	return append([]any(nil), d.rows[i]...)
}

// ColumnNames extracts the names from any View.
func ColumnNames(v View) []string {
	cols := v.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

func checkCell(v any, t ColumnType) error {
	if v == nil {
		return nil
	}
	ok := false
	switch t {
	case TypeString:
		_, ok = v.(string)
	case TypeInteger:
		_, ok = v.(int64)
	case TypeFloat:
		_, ok = v.(float64)
	case TypeBool:
		_, ok = v.(bool)
	case TypeDate, TypeTimestamp:
		_, ok = v.(time.Time)
	}
	if !ok {
		return fmt.Errorf("value %v (%T) does not match column type %s", v, v, t)
	}
	return nil
}
