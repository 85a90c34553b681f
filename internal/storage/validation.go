// Package storage provides the SQLite persistence layer for billsplit.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/whlim/billsplit/internal/common"
	"github.com/whlim/billsplit/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidExpense = errors.New("invalid expense")
)

var errExpenseNotFound = fmt.Errorf("expense %w", common.ErrNotFound)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validatePercentage ensures a split percentage is within 0-100.
func validatePercentage(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("%w: got %v", common.ErrInvalidPercentage, pct)
	}
	return nil
}

// validateExpenses validates a slice of expenses.
func validateExpenses(expenses []model.Expense) error {
	if expenses == nil {
		return fmt.Errorf("%w: expenses", ErrNilParameter)
	}
	if len(expenses) == 0 {
		return fmt.Errorf("%w: expenses", ErrEmptySlice)
	}

	for i := range expenses {
		if err := validateExpense(&expenses[i]); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
	}
	return nil
}

// validateExpense validates a single expense. Descriptions may be blank:
// statement rows with no merchant text are stored as-is under the
// fallback category.
func validateExpense(exp *model.Expense) error {
	if exp == nil {
		return fmt.Errorf("%w: expense", ErrNilParameter)
	}
	if exp.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidExpense)
	}
	if strings.TrimSpace(exp.Category) == "" {
		return fmt.Errorf("%w: missing category", ErrInvalidExpense)
	}
	if err := validatePercentage(exp.SelfPercentage); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidExpense, err)
	}
	return nil
}
