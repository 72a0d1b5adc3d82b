package translator

import (
	"regexp"
	"strings"
)

// ============================================================================
// RESPONSE PARSER — Extracts the SQL statement from a model reply
// ============================================================================
// Models are told to answer with bare SQL but often wrap it in a code fence
// or surround it with prose. Resolution order:
//   1. first fenced block that contains a query keyword
//   2. first keyword at the start of a line, uppercase preferred so a prose
//      line opening with "Select the rows..." is skipped
//   3. last keyword outside parentheses (a CTE opener beats a plain SELECT)
//   4. no keyword at all: the whole trimmed reply
// ============================================================================

var (
	fencedBlock    = regexp.MustCompile("(?s)```(?:[\\w-]*[ \\t]*\\n)?(.*?)```")
	queryKeyword   = regexp.MustCompile(`(?i)\b(?:SELECT\b|WITH\s+(?:RECURSIVE\s+)?[\w"]+\s+AS\s*\()`)
	lineKeyword    = regexp.MustCompile(`(?im)^[ \t]*((?:SELECT\b|WITH\s+(?:RECURSIVE\s+)?[\w"]+\s+AS\s*\())`)
	upperLine      = regexp.MustCompile(`(?m)^[ \t]*((?:SELECT\b|WITH\s+(?:RECURSIVE\s+)?[\w"]+\s+AS\s*\())`)
	cteKeyword     = regexp.MustCompile(`(?i)^WITH\b`)
	leadingFenceRe = regexp.MustCompile("^```[\\w-]*")
)

// ExtractQuery returns the query text contained in a raw model reply.
func ExtractQuery(response string) string {
	response = strings.TrimSpace(response)

	for _, m := range fencedBlock.FindAllStringSubmatch(response, -1) {
		if loc := queryKeyword.FindStringIndex(m[1]); loc != nil {
			return cleanQuery(m[1][loc[0]:])
		}
	}

	for _, re := range []*regexp.Regexp{upperLine, lineKeyword} {
		if loc := re.FindStringSubmatchIndex(response); loc != nil {
			return cleanQuery(cutAtFence(response[loc[2]:]))
		}
	}

	if matches := queryKeyword.FindAllStringIndex(response, -1); len(matches) > 0 {
		if top := topLevel(response, matches); len(top) > 0 {
			matches = top
		}
		pick := matches[len(matches)-1]
		for i := len(matches) - 1; i >= 0; i-- {
			if cteKeyword.MatchString(response[matches[i][0]:]) {
				pick = matches[i]
				break
			}
		}
		return cleanQuery(cutAtFence(response[pick[0]:]))
	}

	return cleanQuery(response)
}

// topLevel keeps the matches that sit outside parentheses, so a subquery
// is never picked over the statement that contains it.
func topLevel(s string, matches [][]int) [][]int {
	var out [][]int
	depth, pos := 0, 0
	for _, m := range matches {
		for ; pos < m[0]; pos++ {
			switch s[pos] {
			case '(':
				depth++
			case ')':
				if depth > 0 {
					depth--
				}
			}
		}
		if depth == 0 {
			out = append(out, m)
		}
	}
	return out
}

// cutAtFence drops a closing fence and anything after it.
func cutAtFence(s string) string {
	if i := strings.Index(s, "```"); i >= 0 {
		return s[:i]
	}
	return s
}

// cleanQuery strips whitespace, fence markers and stray backticks.
func cleanQuery(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFenceRe.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "`")
	return strings.TrimSpace(s)
}
