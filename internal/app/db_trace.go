package app

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxTracedQueryLength = 512

// Matches the column copy list of an ON CONFLICT DO UPDATE built from a model.
var excludedAssignmentList = regexp.MustCompile(`\w+ = EXCLUDED\.\w+(?:, \w+ = EXCLUDED\.\w+)+`)

// formatDBQueryForTrace flattens whitespace and folds the stats upserts'
// EXCLUDED column lists so the statement stays readable on a span.
func formatDBQueryForTrace(query string) string {
	normalized := strings.Join(strings.Fields(query), " ")
	normalized = excludedAssignmentList.ReplaceAllStringFunc(normalized, func(list string) string {
		return "(" + strconv.Itoa(strings.Count(list, "EXCLUDED.")) + " columns) = EXCLUDED"
	})
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	cut := maxTracedQueryLength
	for cut > 0 && !utf8.RuneStart(normalized[cut]) {
		cut--
	}
	return normalized[:cut] + "..."
}
