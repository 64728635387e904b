package usecase

import "strings"

// GenerateSearchTerms derives the ordered candidate substrings for a fuzzy
// product search.
//
// The query is split on whitespace into words w[0..n). The result is every
// multi-word prefix (w[0..1], w[0..2], ... w[0..n-1], joined by a single
// space) followed by every single word in query order. Prefixes come first so
// exact multi-word matches are collected before the single-word fallback
// pass. A query without words yields no terms.
func GenerateSearchTerms(query string) []string {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil
	}

	terms := make([]string, 0, 2*len(words)-1)
	for i := 2; i <= len(words); i++ {
		terms = append(terms, strings.Join(words[:i], " "))
	}

	return append(terms, words...)
}
