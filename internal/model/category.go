// Package model defines the core domain types for billsplit.
package model

import (
	"strings"
	"time"
)

// FallbackCategory is assigned when no keyword match clears the
// acceptance threshold.
const FallbackCategory = "others"

// Category is a named bucket of keywords used to classify expense
// descriptions. Names are stored lowercase; each keyword belongs to
// exactly one category at a time.
type Category struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string
	Keywords  []string
}

// NormalizeCategoryName canonicalizes a category name for storage and lookup.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SplitKeywords parses comma-separated keyword text into trimmed,
// lowercased, non-empty tokens. Order is preserved.
func SplitKeywords(text string) []string {
	var keywords []string
	for _, raw := range strings.Split(text, ",") {
		kw := strings.ToLower(strings.TrimSpace(raw))
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	return keywords
}

// JoinKeywords renders a keyword list back to its comma-separated form.
func JoinKeywords(keywords []string) string {
	return strings.Join(keywords, ",")
}
