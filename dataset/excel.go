package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads one worksheet of an .xlsx workbook. An empty sheet name
// selects the first sheet. The first non-empty row is the header.
func LoadExcel(path, sheet string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readWorkbook(datasetName(path), f, sheet)
}

// ReadExcel parses a workbook from a reader (uploads, embedded fixtures).
func ReadExcel(name string, r io.Reader, sheet string) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", name, err)
	}
	defer f.Close()

	return readWorkbook(name, f, sheet)
}

func readWorkbook(name string, f *excelize.File, sheet string) (*Dataset, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", name)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	start := 0
	for start < len(rows) && isBlankRecord(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("sheet %q of %s is empty", sheet, name)
	}

	return FromRecords(name, rows[start], rows[start+1:])
}
