package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls Load.
type LoadOptions struct {
	Sheet string // worksheet for Excel files; empty = first sheet
}

// Load picks a loader from the file extension.
func Load(path string, opts LoadOptions) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("data file not found at %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		return LoadCSV(path)
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return LoadExcel(path, opts.Sheet)
	default:
		return nil, fmt.Errorf("unsupported data file type %q (want .csv, .tsv or .xlsx)", filepath.Ext(path))
	}
}
