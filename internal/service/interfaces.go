// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/whlim/billsplit/internal/model"
)

// ExpenseFilter defines filtering options for expense queries.
type ExpenseFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	BillMonth *time.Time
	Category  string
}

// CategoryUpdateResult reports the outcome of one category in a bulk
// keyword update.
type CategoryUpdateResult struct {
	Err  error
	Name string
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Category operations. Names are lowercased before storage/lookup.
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, name string) (*model.Category, error)
	UpsertCategory(ctx context.Context, name string, keywords []string) error
	DeleteCategory(ctx context.Context, name string) error
	ReplaceCategories(ctx context.Context, categories []model.Category) ([]CategoryUpdateResult, error)
	FindDuplicateKeywords(ctx context.Context) (map[string][]string, error)

	// Expense operations.
	SaveExpenses(ctx context.Context, expenses []model.Expense) error
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]model.Expense, error)
	GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error)
	UpdateExpenseCategory(ctx context.Context, id int64, category string) error
	UpdateExpenseSplit(ctx context.Context, id int64, selfPercentage float64) error
	DeleteExpense(ctx context.Context, id int64) error

	// Database management.
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction. It exposes the full
// Storage contract so batch operations can run every read and write
// through the same exclusive handle.
type Transaction interface {
	Commit() error
	Rollback() error
	Storage
}
