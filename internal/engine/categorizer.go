// Package engine implements expense categorization over category keyword
// snapshots, plus the bulk recategorization batch process.
package engine

import (
	"regexp"
	"strings"

	"github.com/whlim/billsplit/internal/match"
	"github.com/whlim/billsplit/internal/model"
)

// matchThreshold is the minimum similarity score a keyword match must
// strictly exceed to be accepted.
const matchThreshold = 75

var (
	spacedHyphens = regexp.MustCompile(`\s+-\s+`)
	nonToken      = regexp.MustCompile(`[^a-z0-9\s\-]`)
	tokenSplit    = regexp.MustCompile(`[\s\-]+`)
)

// Categorizer assigns expense descriptions to categories by fuzzy
// keyword matching. With a nil scorer it degrades to plain substring
// containment.
type Categorizer struct {
	scorer match.Scorer
}

// NewCategorizer creates a categorizer backed by the given scorer. Pass
// nil to run in degraded substring-matching mode.
func NewCategorizer(scorer match.Scorer) *Categorizer {
	return &Categorizer{scorer: scorer}
}

// Categorize returns the best-matching category name for a description
// along with a 0-100 confidence score. Categories are considered in the
// order given; ties keep the earlier category. When no match strictly
// exceeds the threshold the fallback category is returned with score 0.
func (c *Categorizer) Categorize(description string, categories []model.Category) (string, int) {
	cleaned := normalizeDescription(description)
	if cleaned == "" {
		return model.FallbackCategory, 0
	}

	if c.scorer == nil {
		return substringMatch(cleaned, categories)
	}

	best := model.FallbackCategory
	bestScore := 0

	for _, token := range tokenSplit.Split(cleaned, -1) {
		if token == "" {
			continue
		}
		for _, cat := range categories {
			if len(cat.Keywords) == 0 {
				continue
			}
			score := c.bestKeywordScore(token, cat.Keywords)
			if score > bestScore && score > matchThreshold {
				bestScore = score
				best = cat.Name
			}
		}
	}

	return best, bestScore
}

// bestKeywordScore returns the highest similarity between a token and
// any keyword in the list.
func (c *Categorizer) bestKeywordScore(token string, keywords []string) int {
	best := 0
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if score := c.scorer.Score(token, kw); score > best {
			best = score
		}
	}
	return best
}

// substringMatch is the degraded mode: the first keyword that is a
// literal substring of the cleaned description wins outright, in
// category-then-keyword order.
func substringMatch(cleaned string, categories []model.Category) (string, int) {
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(cleaned, kw) {
				return cat.Name, 100
			}
		}
	}
	return model.FallbackCategory, 0
}

// normalizeDescription lowercases the text, treats " - " as a word
// separator, strips everything that is not a letter, digit, space, or
// hyphen, and collapses whitespace.
func normalizeDescription(description string) string {
	s := strings.ToLower(description)
	s = spacedHyphens.ReplaceAllString(s, " ")
	s = nonToken.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
