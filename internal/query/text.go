package query

import (
	"strings"
	"unicode"

	"github.com/forkful/restaurant-finder/internal/models"
)

// Field weights of the restaurant text index
const (
	NameWeight        = 10
	DescriptionWeight = 2
	TextIndexName     = "restaurant_text_index"
)

// tokenize splits text into lowercase words
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func countTokens(tokens []string) map[string]int {
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

// TextScore approximates the weighted text index score of r for search:
// every distinct search term contributes its occurrences in the name times
// NameWeight plus its occurrences in the description times DescriptionWeight.
// Zero means r does not match.
func TextScore(search string, r *models.Restaurant) float64 {
	terms := countTokens(tokenize(search))
	if len(terms) == 0 {
		return 0
	}
	name := countTokens(tokenize(r.Name))
	description := countTokens(tokenize(r.Description))

	score := 0
	for term := range terms {
		score += name[term]*NameWeight + description[term]*DescriptionWeight
	}
	return float64(score)
}
