package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	punctuationPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// stripMarks decomposes text and removes combining marks so accented
// characters fold to their base form ("Café" -> "Cafe").
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces a canonical comparison form of free text: case-folded,
// diacritics stripped, punctuation removed, whitespace collapsed to single
// spaces. Returns the empty string when nothing comparable remains.
func Normalize(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}
	folded := cases.Fold().String(stripped)
	folded = punctuationPattern.ReplaceAllString(folded, " ")
	folded = whitespacePattern.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// EqualFold reports whether two strings normalize to the same form.
func EqualFold(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
