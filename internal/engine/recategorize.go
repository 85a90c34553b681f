package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/whlim/billsplit/internal/service"
)

// CategoryChange records one expense whose category was rewritten.
type CategoryChange struct {
	Description string
	OldCategory string
	NewCategory string
	ID          int64
}

// RecategorizeSummary aggregates the result of a bulk recategorization.
type RecategorizeSummary struct {
	Changes        []CategoryChange
	TotalProcessed int
	TotalUpdated   int
}

// RecategorizeOptions configures a bulk recategorization run.
type RecategorizeOptions struct {
	// Progress, if set, is called after each expense with (done, total).
	Progress func(done, total int)
	// DryRun computes the full change set but rolls back instead of
	// committing.
	DryRun bool
}

// Recategorize re-runs categorization over every persisted expense and
// rewrites the category of those that changed. The whole scan runs inside
// a single transaction on the store's only connection, so no other
// reader or writer can interleave, and the rewrite commits atomically or
// not at all. Confidence scores are reporting-only and never persisted.
func Recategorize(ctx context.Context, store service.Storage, categorizer *Categorizer, opts RecategorizeOptions) (*RecategorizeSummary, error) {
	tx, err := store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin recategorization: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	categories, err := tx.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	expenses, err := tx.ListExpenses(ctx, service.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	summary := &RecategorizeSummary{TotalProcessed: len(expenses)}
	for i, exp := range expenses {
		if opts.Progress != nil {
			opts.Progress(i+1, len(expenses))
		}
		if strings.TrimSpace(exp.Description) == "" {
			continue
		}

		newCategory, confidence := categorizer.Categorize(exp.Description, categories)
		if newCategory == exp.Category {
			continue
		}

		if err := tx.UpdateExpenseCategory(ctx, exp.ID, newCategory); err != nil {
			return nil, fmt.Errorf("failed to update expense %d: %w", exp.ID, err)
		}

		slog.Debug("recategorized expense",
			"id", exp.ID,
			"description", exp.Description,
			"from", exp.Category,
			"to", newCategory,
			"confidence", confidence)

		summary.TotalUpdated++
		summary.Changes = append(summary.Changes, CategoryChange{
			ID:          exp.ID,
			Description: exp.Description,
			OldCategory: exp.Category,
			NewCategory: newCategory,
		})
	}

	if opts.DryRun {
		return summary, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit recategorization: %w", err)
	}
	committed = true

	return summary, nil
}
