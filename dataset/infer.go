package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ============================================================================
// TYPE INFERENCE — Raw string cells → typed columns
// ============================================================================
// Loaders hand over header + string records. Each column is classified by
// sampling its non-empty values:
//   1. bool:   80%+ true/false/yes/no
//   2. date:   80%+ full calendar dates (timestamp if any carries a time)
//   3. number: 80%+ numeric; integer unless any value has a fraction
//   4. string: everything else
//
// Cells that do not parse under the chosen type become NULL.
// ============================================================================

// FromRecords builds a Dataset from a header row and string records,
// inferring one type per column.
func FromRecords(name string, header []string, records [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset %q has no header", name)
	}

	names := normalizeHeaders(header)
	columns := make([]Column, len(names))
	for i, n := range names {
		columns[i] = Column{Name: n, Type: inferColumnType(columnValues(records, i))}
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}
		row := make([]any, len(columns))
		for j, col := range columns {
			if j < len(rec) {
				row[j] = parseCell(rec[j], col.Type)
			}
		}
		rows = append(rows, row)
	}

	return New(name, columns, rows)
}

// normalizeHeaders trims header names, names blank columns "Unnamed: N"
// and suffixes duplicates with ".1", ".2", ... so every name is unique.
// SQL identifiers ignore case, so "Value" and "value" count as duplicates.
func normalizeHeaders(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}

func columnValues(records [][]string, index int) []string {
	values := make([]string, 0, len(records))
	for _, rec := range records {
		if index >= len(rec) {
			continue
		}
		v := strings.TrimSpace(rec[index])
		if isNullToken(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

func isBlankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isNullToken(v string) bool {
	switch v {
	case "", "null", "NULL", "N/A", "n/a", "NaN", "nan":
		return true
	}
	return false
}

// inferColumnType inspects values to determine the column type.
// Requires 80%+ of non-null values to match for non-string types.
func inferColumnType(values []string) ColumnType {
	if len(values) == 0 {
		return TypeString
	}

	numCount, intCount, dateCount, timeCount, boolCount := 0, 0, 0, 0, 0
	for _, v := range values {
		if _, ok := parseNumber(v); ok {
			numCount++
			if _, ok := parseInteger(v); ok {
				intCount++
			}
		}
		if t, ok := parseDate(v); ok {
			dateCount++
			if !isMidnight(t) {
				timeCount++
			}
		}
		if _, ok := parseBool(v); ok {
			boolCount++
		}
	}

	threshold := int(math.Ceil(float64(len(values)) * 0.8))

	switch {
	case boolCount >= threshold:
		return TypeBool
	case dateCount >= threshold:
		if timeCount > 0 {
			return TypeTimestamp
		}
		return TypeDate
	case numCount >= threshold:
		if intCount == numCount {
			return TypeInteger
		}
		return TypeFloat
	}
	return TypeString
}

// parseCell converts one raw value to the column's Go type, or nil.
func parseCell(raw string, t ColumnType) any {
	v := strings.TrimSpace(raw)
	if isNullToken(v) {
		return nil
	}
	switch t {
	case TypeInteger:
		if n, ok := parseInteger(v); ok {
			return n
		}
		return nil
	case TypeFloat:
		if f, ok := parseNumber(v); ok {
			return f
		}
		return nil
	case TypeBool:
		if b, ok := parseBool(v); ok {
			return b
		}
		return nil
	case TypeDate, TypeTimestamp:
		if ts, ok := parseDate(v); ok {
			return ts
		}
		return nil
	}
	return v
}

func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "") // handle "1,234.56"
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimPrefix(s, "£")
	if neg {
		s = "-" + s
	}
	return s
}

func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(cleanNumber(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseInteger(s string) (int64, bool) {
	n, err := strconv.ParseInt(cleanNumber(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

// Only full calendar dates qualify; "Jan-2026" or a bare year stay as text
// or numbers so they round-trip unchanged through the query engine.
var dateFormats = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006",
	"01/02/2006 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isMidnight(t time.Time) bool {
	h, m, sec := t.Clock()
	return h == 0 && m == 0 && sec == 0 && t.Nanosecond() == 0
}
