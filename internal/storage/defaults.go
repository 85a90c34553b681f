package storage

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
)

//go:embed default_categories.json
var defaultCategoriesJSON []byte

// seedDefaultCategories populates the categories table from the embedded
// interchange JSON when the table is empty. Idempotent: an already-seeded
// database is left untouched.
func (s *SQLiteStorage) seedDefaultCategories(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	var defaults map[string][]string
	if err := json.Unmarshal(defaultCategoriesJSON, &defaults); err != nil {
		return fmt.Errorf("failed to parse default categories: %w", err)
	}

	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := upsertCategory(ctx, s.db, name, defaults[name]); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", name, err)
		}
	}

	slog.Info("seeded default categories", "count", len(names))
	return nil
}
