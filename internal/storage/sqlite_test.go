package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whlim/billsplit/internal/common"
	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/service"
)

// Helper function to create migrated test storage.
func createTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func testExpense(day int, description, category string, amount float64) model.Expense {
	exp := model.Expense{
		Date:        time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Description: description,
		Amount:      amount,
		Category:    category,
		BillMonth:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	exp.ApplySplit(50)
	return exp
}

func TestMigrateSeedsDefaultCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 10)

	fallback, err := store.GetCategory(ctx, "others")
	require.NoError(t, err)
	require.NotNil(t, fallback)
	assert.Empty(t, fallback.Keywords)

	// Seeding is idempotent across restarts.
	require.NoError(t, store.Migrate(ctx))
	again, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 10)
}

func TestMigrateDoesNotReseedAfterEdits(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteCategory(ctx, "travel"))
	require.NoError(t, store.Migrate(ctx))

	cat, err := store.GetCategory(ctx, "travel")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestCategoryCRUD(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("upsert creates and normalizes", func(t *testing.T) {
		require.NoError(t, store.UpsertCategory(ctx, " Pets ", []string{"vet", "petshop"}))

		cat, err := store.GetCategory(ctx, "pets")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, "pets", cat.Name)
		assert.Equal(t, []string{"vet", "petshop"}, cat.Keywords)
	})

	t.Run("upsert replaces keywords wholesale", func(t *testing.T) {
		require.NoError(t, store.UpsertCategory(ctx, "pets", []string{"aquarium"}))

		cat, err := store.GetCategory(ctx, "pets")
		require.NoError(t, err)
		require.NotNil(t, cat)
		assert.Equal(t, []string{"aquarium"}, cat.Keywords)
	})

	t.Run("get missing returns nil", func(t *testing.T) {
		cat, err := store.GetCategory(ctx, "nonexistent")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteCategory(ctx, "pets"))
		require.NoError(t, store.DeleteCategory(ctx, "pets"))

		cat, err := store.GetCategory(ctx, "pets")
		require.NoError(t, err)
		assert.Nil(t, cat)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := store.UpsertCategory(ctx, "  ", nil)
		assert.ErrorIs(t, err, ErrEmptyString)
	})
}

func TestReplaceCategories(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	resolved := model.ResolveKeywordEdits([]model.KeywordEdit{
		{Category: "dining", Keywords: "kopitiam,zichar"},
		{Category: "groceries", Keywords: "wetmarket,kopitiam"},
	})

	results, err := store.ReplaceCategories(ctx, resolved)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.NoError(t, res.Err)
	}

	dining, err := store.GetCategory(ctx, "dining")
	require.NoError(t, err)
	require.NotNil(t, dining)
	assert.Equal(t, []string{"kopitiam", "zichar"}, dining.Keywords)

	groceries, err := store.GetCategory(ctx, "groceries")
	require.NoError(t, err)
	require.NotNil(t, groceries)
	assert.Equal(t, []string{"wetmarket"}, groceries.Keywords)
}

func TestFindDuplicateKeywords(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	dupes, err := store.FindDuplicateKeywords(ctx)
	require.NoError(t, err)
	assert.Empty(t, dupes)

	require.NoError(t, store.UpsertCategory(ctx, "dining", []string{"kopitiam"}))
	require.NoError(t, store.UpsertCategory(ctx, "groceries", []string{"kopitiam"}))

	dupes, err = store.FindDuplicateKeywords(ctx)
	require.NoError(t, err)
	require.Len(t, dupes, 1)
	assert.ElementsMatch(t, []string{"dining", "groceries"}, dupes["kopitiam"])
}

func TestSaveAndListExpenses(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{
		testExpense(1, "GRAB SINGAPORE", "transport", 18.40),
		testExpense(5, "NTUC FAIRPRICE", "groceries", 52.30),
		testExpense(10, "NETFLIX", "entertainment", 19.99),
	}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	for _, exp := range expenses {
		assert.NotZero(t, exp.ID)
	}

	t.Run("newest first", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, service.ExpenseFilter{})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "NETFLIX", got[0].Description)
		assert.Equal(t, "GRAB SINGAPORE", got[2].Description)
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := store.ListExpenses(ctx, service.ExpenseFilter{Category: "groceries"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "NTUC FAIRPRICE", got[0].Description)
	})

	t.Run("date range filter", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
		got, err := store.ListExpenses(ctx, service.ExpenseFilter{StartDate: &start, EndDate: &end})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "NTUC FAIRPRICE", got[0].Description)
	})

	t.Run("bill month filter", func(t *testing.T) {
		month := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := store.ListExpenses(ctx, service.ExpenseFilter{BillMonth: &month})
		require.NoError(t, err)
		assert.Len(t, got, 3)

		other := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		got, err = store.ListExpenses(ctx, service.ExpenseFilter{BillMonth: &other})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("round trips derived fields", func(t *testing.T) {
		exp, err := store.GetExpenseByID(ctx, expenses[0].ID)
		require.NoError(t, err)
		require.NotNil(t, exp)
		assert.InDelta(t, 18.40, exp.Amount, 0.001)
		assert.InDelta(t, 9.20, exp.SelfAmount, 0.001)
		assert.InDelta(t, 9.20, exp.PartnerAmount, 0.001)
		assert.Equal(t, "transport", exp.Category)
	})
}

func TestSaveExpensesValidation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	t.Run("nil slice", func(t *testing.T) {
		assert.ErrorIs(t, store.SaveExpenses(ctx, nil), ErrNilParameter)
	})

	t.Run("empty slice", func(t *testing.T) {
		assert.ErrorIs(t, store.SaveExpenses(ctx, []model.Expense{}), ErrEmptySlice)
	})

	t.Run("missing category", func(t *testing.T) {
		exp := testExpense(1, "x", "others", 10)
		exp.Category = ""
		assert.ErrorIs(t, store.SaveExpenses(ctx, []model.Expense{exp}), ErrInvalidExpense)
	})

	t.Run("out of range percentage", func(t *testing.T) {
		exp := testExpense(1, "x", "others", 10)
		exp.SelfPercentage = 150
		assert.ErrorIs(t, store.SaveExpenses(ctx, []model.Expense{exp}), ErrInvalidExpense)
	})
}

func TestSaveExpensesAllowsBlankDescription(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	// A statement row with no merchant text still lands in the store,
	// filed under the fallback category, without sinking the batch.
	blank := testExpense(2, "", model.FallbackCategory, 5.00)
	expenses := []model.Expense{
		testExpense(1, "GRAB SINGAPORE", "transport", 18.40),
		blank,
	}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	got, err := store.ListExpenses(ctx, service.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	saved, err := store.GetExpenseByID(ctx, expenses[1].ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Empty(t, saved.Description)
	assert.Equal(t, model.FallbackCategory, saved.Category)
	assert.InDelta(t, 5.00, saved.Amount, 0.001)
}

func TestGetExpenseByIDMissing(t *testing.T) {
	store := createTestStorage(t)

	exp, err := store.GetExpenseByID(context.Background(), 9999)
	require.NoError(t, err)
	assert.Nil(t, exp)
}

func TestUpdateExpenseCategory(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{testExpense(1, "GRAB SINGAPORE", "others", 18.40)}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	require.NoError(t, store.UpdateExpenseCategory(ctx, expenses[0].ID, "Transport"))

	exp, err := store.GetExpenseByID(ctx, expenses[0].ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "transport", exp.Category)

	assert.ErrorIs(t, store.UpdateExpenseCategory(ctx, 9999, "transport"), common.ErrNotFound)
}

func TestUpdateExpenseSplit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{testExpense(1, "NTUC FAIRPRICE", "groceries", 33.33)}
	require.NoError(t, store.SaveExpenses(ctx, expenses))
	id := expenses[0].ID

	require.NoError(t, store.UpdateExpenseSplit(ctx, id, 70))

	exp, err := store.GetExpenseByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.InDelta(t, 70, exp.SelfPercentage, 0.001)
	assert.InDelta(t, 23.33, exp.SelfAmount, 0.001)
	assert.InDelta(t, 10.00, exp.PartnerAmount, 0.001)
	assert.InDelta(t, exp.Amount, exp.SelfAmount+exp.PartnerAmount, 0.001)

	t.Run("rejects out of range percentage", func(t *testing.T) {
		assert.ErrorIs(t, store.UpdateExpenseSplit(ctx, id, 101), common.ErrInvalidPercentage)
		assert.ErrorIs(t, store.UpdateExpenseSplit(ctx, id, -1), common.ErrInvalidPercentage)
	})

	t.Run("missing expense", func(t *testing.T) {
		assert.ErrorIs(t, store.UpdateExpenseSplit(ctx, 9999, 50), common.ErrNotFound)
	})
}

func TestDeleteExpense(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{testExpense(1, "GRAB SINGAPORE", "transport", 18.40)}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	require.NoError(t, store.DeleteExpense(ctx, expenses[0].ID))

	exp, err := store.GetExpenseByID(ctx, expenses[0].ID)
	require.NoError(t, err)
	assert.Nil(t, exp)

	assert.ErrorIs(t, store.DeleteExpense(ctx, expenses[0].ID), common.ErrNotFound)
}

func TestTransactionRollback(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{testExpense(1, "GRAB SINGAPORE", "transport", 18.40)}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateExpenseCategory(ctx, expenses[0].ID, "dining"))
	require.NoError(t, tx.Rollback())

	exp, err := store.GetExpenseByID(ctx, expenses[0].ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "transport", exp.Category)
}

func TestTransactionCommit(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	expenses := []model.Expense{testExpense(1, "GRAB SINGAPORE", "transport", 18.40)}
	require.NoError(t, store.SaveExpenses(ctx, expenses))

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.UpdateExpenseCategory(ctx, expenses[0].ID, "dining"))
	require.NoError(t, tx.Commit())

	exp, err := store.GetExpenseByID(ctx, expenses[0].ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "dining", exp.Category)
}

func TestTransactionRestrictedOperations(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tx, err := store.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	assert.Error(t, tx.Migrate(ctx))
	_, err = tx.BeginTx(ctx)
	assert.Error(t, err)
	assert.Error(t, tx.Close())
}
