package model

// KeywordEdit is a proposed wholesale replacement of one category's
// keyword list, as comma-separated text.
type KeywordEdit struct {
	Category string
	Keywords string
}

// ResolveKeywordEdits resolves a batch of keyword edits into categories
// whose keyword lists are globally unique. Edits are processed in order;
// a keyword already claimed by an earlier category in the same batch is
// silently dropped from later ones (first-claim-wins). Collisions are
// expected data cleanup, not an error.
func ResolveKeywordEdits(edits []KeywordEdit) []Category {
	claimed := make(map[string]string)
	resolved := make([]Category, 0, len(edits))

	for _, edit := range edits {
		name := NormalizeCategoryName(edit.Category)
		var keywords []string
		for _, kw := range SplitKeywords(edit.Keywords) {
			if _, taken := claimed[kw]; taken {
				continue
			}
			claimed[kw] = name
			keywords = append(keywords, kw)
		}
		resolved = append(resolved, Category{Name: name, Keywords: keywords})
	}

	return resolved
}

// DuplicateKeywords scans a category snapshot and returns every keyword
// that appears in two or more categories, mapped to the offending
// category names. Used to warn before edits, not to reject them.
func DuplicateKeywords(categories []Category) map[string][]string {
	seen := make(map[string][]string)
	for _, cat := range categories {
		for _, kw := range cat.Keywords {
			seen[kw] = append(seen[kw], cat.Name)
		}
	}

	duplicates := make(map[string][]string)
	for kw, names := range seen {
		if len(names) > 1 {
			duplicates[kw] = names
		}
	}
	return duplicates
}
