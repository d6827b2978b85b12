package matching

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize turns a display name into the canonical comparison key.
// Diacritics are dropped, case is folded and whitespace is collapsed, so
// "  Bayern   München " becomes "bayern munchen".
func Normalize(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}

	// Folding can yield compatibility characters with marks again, hence the second strip.
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
		cases.Fold(),
		norm.NFKD,
		runes.Remove(runes.In(unicode.Mn)),
	)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = strings.ToLower(name)
	}

	return strings.Join(strings.Fields(folded), " ")
}
