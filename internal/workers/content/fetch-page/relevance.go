// internal/workers/content/fetch-page/relevance.go
package fetchpage

import (
	"strings"
	"unicode"
)

// noiseTerms mark forum, review and advertising pages. Terms are matched as
// substrings, except "ad" which must be a whole word.
var noiseTerms = []string{"forum", "discussion", "community", "review", "sponsored"}

// IsRelevantTitle reports whether a page title is worth using for query. Noise
// pages are rejected. Otherwise the title must contain the whole query or any
// query word. Relaxed matching skips the whole-query check.
func IsRelevantTitle(title, query string, relaxed bool) bool {
	t := strings.ToLower(title)
	q := strings.ToLower(strings.TrimSpace(query))

	for _, term := range noiseTerms {
		if strings.Contains(t, term) {
			return false
		}
	}
	for _, w := range words(t) {
		if w == "ad" || w == "ads" {
			return false
		}
	}

	if q == "" {
		return false
	}
	if !relaxed && strings.Contains(t, q) {
		return true
	}
	for _, w := range strings.Fields(q) {
		if strings.Contains(t, w) {
			return true
		}
	}
	return false
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
