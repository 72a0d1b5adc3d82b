package summarizer

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/spektr-org/asksql/engine"
)

// DefaultMaxPreviewRows is how many result rows the model gets to see.
const DefaultMaxPreviewRows = 5

// BuildPreview renders at most maxRows rows of result as a markdown table.
// Rows beyond the limit are counted in a trailing note, never sent.
func BuildPreview(result *engine.Result, maxRows int) string {
	if maxRows <= 0 {
		maxRows = DefaultMaxPreviewRows
	}
	if result == nil || len(result.Columns) == 0 {
		return "(the query returned no columns)"
	}

	head := result.Head(maxRows)

	var b strings.Builder
	table := tablewriter.NewWriter(&b)
	table.SetHeader(result.Columns)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.AppendBulk(head.StringRows())
	table.Render()

	switch {
	case result.Len() == 0:
		b.WriteString("(no rows)\n")
	case result.Len() > head.Len():
		fmt.Fprintf(&b, "(showing %d of %d rows)\n", head.Len(), result.Len())
	}
	return b.String()
}
