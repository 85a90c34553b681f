package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/service"
	"github.com/whlim/billsplit/internal/split"
)

// SaveExpenses inserts a batch of expense records.
func (s *SQLiteStorage) SaveExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpenses(expenses); err != nil {
		return err
	}
	return saveExpenses(ctx, s.db, expenses)
}

// ListExpenses returns expenses matching the filter, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter service.ExpenseFilter) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return listExpenses(ctx, s.db, filter)
}

// GetExpenseByID returns an expense, or nil if it does not exist.
func (s *SQLiteStorage) GetExpenseByID(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return getExpenseByID(ctx, s.db, id)
}

// UpdateExpenseCategory rewrites only the category of an expense.
func (s *SQLiteStorage) UpdateExpenseCategory(ctx context.Context, id int64, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}
	return updateExpenseCategory(ctx, s.db, id, category)
}

// UpdateExpenseSplit changes the split percentage and recomputes both
// derived shares from the stored amount. The shares are never updated
// independently.
func (s *SQLiteStorage) UpdateExpenseSplit(ctx context.Context, id int64, selfPercentage float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePercentage(selfPercentage); err != nil {
		return err
	}
	return updateExpenseSplit(ctx, s.db, id, selfPercentage)
}

// DeleteExpense removes an expense by identifier.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	return deleteExpense(ctx, s.db, id)
}

func saveExpenses(ctx context.Context, q querier, expenses []model.Expense) error {
	query := `
		INSERT INTO expenses (date, description, amount, category,
			self_percentage, self_amount, partner_amount, original_text,
			bill_month, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now()
	for i := range expenses {
		exp := &expenses[i]
		result, err := q.ExecContext(ctx, query,
			exp.Date, exp.Description, exp.Amount, exp.Category,
			exp.SelfPercentage, exp.SelfAmount, exp.PartnerAmount,
			exp.OriginalText, exp.BillMonth, now)
		if err != nil {
			return fmt.Errorf("failed to save expense %q: %w", exp.Description, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get expense ID: %w", err)
		}
		exp.ID = id
		exp.CreatedAt = now
	}

	slog.Debug("saved expenses", "count", len(expenses))
	return nil
}

func listExpenses(ctx context.Context, q querier, filter service.ExpenseFilter) ([]model.Expense, error) {
	query := `
		SELECT id, date, description, amount, category, self_percentage,
			self_amount, partner_amount, original_text, bill_month, created_at
		FROM expenses`

	var conditions []string
	var args []any
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.BillMonth != nil {
		conditions = append(conditions, "bill_month = ?")
		args = append(args, *filter.BillMonth)
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, model.NormalizeCategoryName(filter.Category))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, *exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}

	return expenses, nil
}

func getExpenseByID(ctx context.Context, q querier, id int64) (*model.Expense, error) {
	query := `
		SELECT id, date, description, amount, category, self_percentage,
			self_amount, partner_amount, original_text, bill_month, created_at
		FROM expenses
		WHERE id = ?`

	row := q.QueryRowContext(ctx, query, id)
	exp, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil // Expense not found
	}
	if err != nil {
		return nil, err
	}
	return exp, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var exp model.Expense
	var originalText sql.NullString
	var billMonth sql.NullTime
	err := row.Scan(&exp.ID, &exp.Date, &exp.Description, &exp.Amount,
		&exp.Category, &exp.SelfPercentage, &exp.SelfAmount,
		&exp.PartnerAmount, &originalText, &billMonth, &exp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense: %w", err)
	}
	exp.OriginalText = originalText.String
	exp.BillMonth = billMonth.Time
	return &exp, nil
}

func updateExpenseCategory(ctx context.Context, q querier, id int64, category string) error {
	result, err := q.ExecContext(ctx,
		`UPDATE expenses SET category = ? WHERE id = ?`,
		model.NormalizeCategoryName(category), id)
	if err != nil {
		return fmt.Errorf("failed to update expense category: %w", err)
	}
	return requireRow(result, id)
}

func updateExpenseSplit(ctx context.Context, q querier, id int64, selfPercentage float64) error {
	var amount float64
	err := q.QueryRowContext(ctx, `SELECT amount FROM expenses WHERE id = ?`, id).Scan(&amount)
	if err == sql.ErrNoRows {
		return fmt.Errorf("expense %d: %w", id, errExpenseNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read expense amount: %w", err)
	}

	selfAmount, partnerAmount := split.Shares(amount, selfPercentage)
	result, err := q.ExecContext(ctx,
		`UPDATE expenses SET self_percentage = ?, self_amount = ?, partner_amount = ? WHERE id = ?`,
		selfPercentage, selfAmount, partnerAmount, id)
	if err != nil {
		return fmt.Errorf("failed to update expense split: %w", err)
	}
	return requireRow(result, id)
}

func deleteExpense(ctx context.Context, q querier, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return requireRow(result, id)
}

func requireRow(result sql.Result, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %d: %w", id, errExpenseNotFound)
	}
	return nil
}
