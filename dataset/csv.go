package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================================
// CSV LOADER — Parses delimited text into a Dataset
// ============================================================================
// Consumer reads the bytes from wherever they live (file, upload, S3).
// Header row is required; column types are inferred from the records.
// ============================================================================

// ParseCSV parses CSV bytes into a Dataset.
func ParseCSV(name string, data []byte) (*Dataset, error) {
	return parseDelimited(name, data, ',')
}

// ParseTSV parses tab-separated bytes into a Dataset.
func ParseTSV(name string, data []byte) (*Dataset, error) {
	return parseDelimited(name, data, '\t')
}

// LoadCSV reads and parses a CSV (or .tsv) file.
func LoadCSV(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := datasetName(path)
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return ParseTSV(name, data)
	}
	return ParseCSV(name, data)
}

func parseDelimited(name string, data []byte, comma rune) (*Dataset, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("CSV %q is empty", name)
		}
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var records [][]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV %q line %d: %w", name, line, err)
		}
		records = append(records, row)
	}

	return FromRecords(name, header, records)
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
