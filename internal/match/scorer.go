// Package match provides string-similarity scoring for keyword matching.
package match

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer rates the similarity of a description token against a keyword
// on a 0-100 scale. The categorization engine is decoupled from any
// specific matching algorithm through this interface.
type Scorer interface {
	Score(token, keyword string) int
}

// LevenshteinScorer scores by edit-distance ratio: identical strings
// score 100, entirely different strings score 0.
type LevenshteinScorer struct{}

// NewLevenshteinScorer returns the default similarity scorer.
func NewLevenshteinScorer() LevenshteinScorer {
	return LevenshteinScorer{}
}

// Score implements Scorer.
func (LevenshteinScorer) Score(token, keyword string) int {
	a := strings.ToLower(strings.TrimSpace(token))
	b := strings.ToLower(strings.TrimSpace(keyword))
	if a == b {
		return 100
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}

	dist := levenshtein.ComputeDistance(a, b)
	score := int(math.Round(100 * (1 - float64(dist)/float64(longest))))
	if score < 0 {
		score = 0
	}
	return score
}
