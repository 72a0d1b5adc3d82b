package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/spektr-org/asksql/engine"
	"github.com/spektr-org/asksql/pipeline"
)

// ============================================================================
// OUTPUT
// ============================================================================

func checkFormat(f string) error {
	switch f {
	case "text", "json", "pretty", "csv":
		return nil
	}
	return fmt.Errorf("unknown format %q (use text, json, pretty or csv)", f)
}

func writeAnswer(w io.Writer, a *pipeline.Answer, format string) error {
	switch format {
	case "json", "pretty":
		return writeJSON(w, a, format)
	case "csv":
		if a.Result == nil {
			return writeAnswerText(w, a)
		}
		return writeCSV(w, a.Result)
	default:
		return writeAnswerText(w, a)
	}
}

func writeAnswerText(w io.Writer, a *pipeline.Answer) error {
	if a.Query != "" {
		fmt.Fprintf(w, "SQL:\n  %s\n\n", a.Query)
	}
	if a.Error != nil {
		fmt.Fprintf(w, "Error: %s\n", *a.Error)
		return nil
	}

	writeTable(w, a.Result)
	fmt.Fprintln(w)

	switch {
	case a.Summary != nil:
		fmt.Fprintf(w, "Answer:\n  %s\n", *a.Summary)
	case a.SummaryError != nil:
		fmt.Fprintf(w, "Summary unavailable: %s\n", *a.SummaryError)
	}
	return nil
}

func writeTable(w io.Writer, r *engine.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(r.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(r.StringRows())
	table.Render()

	if r.Len() == 1 {
		fmt.Fprintln(w, "1 row")
	} else {
		fmt.Fprintf(w, "%d rows\n", r.Len())
	}
}

func writeCSV(w io.Writer, r *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(r.StringRows()); err != nil {
		return err
	}
	return cw.Error()
}

func writeSchema(w io.Writer, s schemaOutput, format string) error {
	switch format {
	case "json", "pretty":
		return writeJSON(w, s, format)
	case "csv":
		cw := csv.NewWriter(w)
		cw.Write([]string{"name", "type", "role", "nulls", "distinct", "min", "max"}) //nolint:errcheck
		for _, c := range s.Columns {
			cw.Write([]string{ //nolint:errcheck
				c.Name, c.Type, c.Role,
				strconv.Itoa(c.NullCount), strconv.Itoa(c.DistinctCount),
				c.Min, c.Max,
			})
		}
		cw.Flush()
		return cw.Error()
	}

	fmt.Fprintf(w, "%s: %d rows, %d columns\n\n", s.Dataset, s.Rows, len(s.Columns))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Column", "Type", "Role", "Nulls", "Distinct", "Range", "Samples"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, c := range s.Columns {
		var span string
		if c.Min != "" || c.Max != "" {
			span = c.Min + " .. " + c.Max
		}
		table.Append([]string{
			c.Name, c.Type, c.Role,
			strconv.Itoa(c.NullCount), strconv.Itoa(c.DistinctCount),
			span, strings.Join(c.SampleValues, ", "),
		})
	}
	table.Render()
	return nil
}

func writeJSON(w io.Writer, v any, format string) error {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
