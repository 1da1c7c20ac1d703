// internal/refpath/suggest.go

package refpath

import "github.com/agext/levenshtein"

// NameSuggestion returns the candidate closest to the given name, or ""
// if nothing is close enough. "Close enough" means an edit distance of at
// most 3, which catches common typos (transpositions, dropped characters,
// extra characters).
func NameSuggestion(given string, candidates []string) string {
	bestName := ""
	bestDistance := 4

	for _, candidate := range candidates {
		distance := levenshtein.Distance(given, candidate, nil)
		if distance < bestDistance {
			bestDistance = distance
			bestName = candidate
		}
	}

	return bestName
}
