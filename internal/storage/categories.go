package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/service"
)

// ListCategories returns all categories ordered by name. The order is
// the iteration order the categorizer uses for tie-breaking.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listCategories(ctx, s.db)
}

// GetCategory returns a category by name, or nil if it does not exist.
func (s *SQLiteStorage) GetCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}
	return getCategory(ctx, s.db, name)
}

// UpsertCategory creates or replaces a category, overwriting its keyword
// list wholesale.
func (s *SQLiteStorage) UpsertCategory(ctx context.Context, name string, keywords []string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	return upsertCategory(ctx, s.db, name, keywords)
}

// DeleteCategory removes a category. Deleting a missing category is not
// an error.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}
	return deleteCategory(ctx, s.db, name)
}

// ReplaceCategories persists a batch of already-deduplicated categories
// atomically, reporting per-category success.
func (s *SQLiteStorage) ReplaceCategories(ctx context.Context, categories []model.Category) ([]service.CategoryUpdateResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	results, err := replaceCategories(ctx, tx, categories)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit category update: %w", err)
	}
	return results, nil
}

// FindDuplicateKeywords scans the persisted state for keywords claimed
// by more than one category.
func (s *SQLiteStorage) FindDuplicateKeywords(ctx context.Context) (map[string][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return findDuplicateKeywords(ctx, s.db)
}

func listCategories(ctx context.Context, q querier) ([]model.Category, error) {
	query := `
		SELECT name, keywords, created_at, updated_at
		FROM categories
		ORDER BY name`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		var keywords string
		if err := rows.Scan(&cat.Name, &keywords, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cat.Keywords = model.SplitKeywords(keywords)
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	slog.Debug("retrieved categories", "count", len(categories))
	return categories, nil
}

func getCategory(ctx context.Context, q querier, name string) (*model.Category, error) {
	query := `
		SELECT name, keywords, created_at, updated_at
		FROM categories
		WHERE name = ?`

	var cat model.Category
	var keywords string
	err := q.QueryRowContext(ctx, query, model.NormalizeCategoryName(name)).Scan(
		&cat.Name, &keywords, &cat.CreatedAt, &cat.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Category not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query category: %w", err)
	}

	cat.Keywords = model.SplitKeywords(keywords)
	return &cat, nil
}

func upsertCategory(ctx context.Context, q querier, name string, keywords []string) error {
	query := `
		INSERT INTO categories (name, keywords, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			keywords = excluded.keywords,
			updated_at = excluded.updated_at`

	now := time.Now()
	normalized := model.NormalizeCategoryName(name)
	if _, err := q.ExecContext(ctx, query, normalized, model.JoinKeywords(keywords), now, now); err != nil {
		return fmt.Errorf("failed to upsert category %q: %w", normalized, err)
	}

	slog.Debug("upserted category", "name", normalized, "keywords", len(keywords))
	return nil
}

func deleteCategory(ctx context.Context, q querier, name string) error {
	normalized := model.NormalizeCategoryName(name)
	if _, err := q.ExecContext(ctx, `DELETE FROM categories WHERE name = ?`, normalized); err != nil {
		return fmt.Errorf("failed to delete category %q: %w", normalized, err)
	}
	return nil
}

func replaceCategories(ctx context.Context, q querier, categories []model.Category) ([]service.CategoryUpdateResult, error) {
	results := make([]service.CategoryUpdateResult, 0, len(categories))
	for _, cat := range categories {
		err := upsertCategory(ctx, q, cat.Name, cat.Keywords)
		results = append(results, service.CategoryUpdateResult{Name: cat.Name, Err: err})
		if err != nil {
			return results, fmt.Errorf("failed to update category %q: %w", cat.Name, err)
		}
	}
	return results, nil
}

func findDuplicateKeywords(ctx context.Context, q querier) (map[string][]string, error) {
	categories, err := listCategories(ctx, q)
	if err != nil {
		return nil, err
	}
	return model.DuplicateKeywords(categories), nil
}
