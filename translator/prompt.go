package translator

import (
	"fmt"
	"strings"

	"github.com/spektr-org/asksql/llm"
)

// ============================================================================
// PROMPT BUILDER — Column-driven SQL prompt
// ============================================================================
// Total data sent to the model: the relation name, the column names and the
// question. Never rows.
// ============================================================================

// BuildPrompt generates the system prompt for the translator.
func BuildPrompt(tableName string, columns []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a data analyst assistant working with a table named %s.\n", tableName)
	fmt.Fprintf(&b, "The table has the following columns: %s\n\n", quoteColumns(columns))

	b.WriteString(`RULES:
1. Generate a single valid SQL query that can be executed by DuckDB.
2. Only use the columns that exist. Column names are case-sensitive; wrap them in double quotes.
3. Query the table by name: FROM ` + tableName + `.
4. Return only the SQL query, do not include explanations or markdown.
`)
	return b.String()
}

// BuildMessages returns the system + user messages for one translation.
func BuildMessages(tableName string, columns []string, question string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: BuildPrompt(tableName, columns)},
		{Role: llm.RoleUser, Content: question},
	}
}

func quoteColumns(columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + c + `"`
	}
	return strings.Join(quoted, ", ")
}
