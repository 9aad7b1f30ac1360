// Package autocomplete filters history values against what the user is
// typing.
package autocomplete

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/idilsaglam/grocery/internal/script"
)

// MaxSuggestions bounds the suggestion panel.
const MaxSuggestions = 8

// Filter returns up to MaxSuggestions candidates containing query, in the
// order they were given. Candidates written in Devanagari are matched
// exactly; everything else is matched case-insensitively. An empty query
// yields nothing.
func Filter(candidates []string, query string) []string {
	return FilterN(candidates, query, MaxSuggestions)
}

// FilterN is Filter with an explicit bound.
func FilterN(candidates []string, query string, limit int) []string {
	if query == "" || limit <= 0 {
		return nil
	}
	lower := cases.Lower(language.Und)
	queryLower := lower.String(query)

	var out []string
	for _, c := range candidates {
		if !matches(lower, c, query, queryLower) {
			continue
		}
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}

func matches(lower cases.Caser, candidate, query, queryLower string) bool {
	if script.HasDevanagari(candidate) {
		return strings.Contains(candidate, query)
	}
	return strings.Contains(lower.String(candidate), queryLower)
}
