package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whlim/billsplit/internal/match"
	"github.com/whlim/billsplit/internal/model"
	"github.com/whlim/billsplit/internal/service"
	"github.com/whlim/billsplit/internal/storage"
)

func createTestStore(t *testing.T) service.Storage {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := storage.NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func saveTestExpenses(t *testing.T, store service.Storage, expenses []model.Expense) []model.Expense {
	t.Helper()
	for i := range expenses {
		expenses[i].Date = time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC)
		expenses[i].ApplySplit(50)
	}
	require.NoError(t, store.SaveExpenses(context.Background(), expenses))
	return expenses
}

func TestRecategorize(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	categorizer := NewCategorizer(match.NewLevenshteinScorer())

	saved := saveTestExpenses(t, store, []model.Expense{
		{Description: "GRAB SINGAPORE", Amount: 18.40, Category: "others"},
		{Description: "NTUC FAIRPRICE", Amount: 52.30, Category: "others"},
		{Description: "UNMATCHABLE ZZZ", Amount: 5.00, Category: "others"},
	})

	summary, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalProcessed)
	assert.Equal(t, 2, summary.TotalUpdated)
	assert.Len(t, summary.Changes, 2)

	grab, err := store.GetExpenseByID(ctx, saved[0].ID)
	require.NoError(t, err)
	require.NotNil(t, grab)
	assert.Equal(t, "transport", grab.Category)

	ntuc, err := store.GetExpenseByID(ctx, saved[1].ID)
	require.NoError(t, err)
	require.NotNil(t, ntuc)
	assert.Equal(t, "groceries", ntuc.Category)

	unmatched, err := store.GetExpenseByID(ctx, saved[2].ID)
	require.NoError(t, err)
	require.NotNil(t, unmatched)
	assert.Equal(t, model.FallbackCategory, unmatched.Category)
}

func TestRecategorizeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	categorizer := NewCategorizer(match.NewLevenshteinScorer())

	saveTestExpenses(t, store, []model.Expense{
		{Description: "GRAB SINGAPORE", Amount: 18.40, Category: "others"},
	})

	first, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalUpdated)

	second, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalProcessed)
	assert.Equal(t, 0, second.TotalUpdated)
	assert.Empty(t, second.Changes)
}

func TestRecategorizeDryRun(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	categorizer := NewCategorizer(match.NewLevenshteinScorer())

	saved := saveTestExpenses(t, store, []model.Expense{
		{Description: "GRAB SINGAPORE", Amount: 18.40, Category: "others"},
	})

	summary, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{DryRun: true})
	require.NoError(t, err)

	// Full change set is reported but nothing is persisted.
	assert.Equal(t, 1, summary.TotalUpdated)
	require.Len(t, summary.Changes, 1)
	assert.Equal(t, "others", summary.Changes[0].OldCategory)
	assert.Equal(t, "transport", summary.Changes[0].NewCategory)

	exp, err := store.GetExpenseByID(ctx, saved[0].ID)
	require.NoError(t, err)
	require.NotNil(t, exp)
	assert.Equal(t, "others", exp.Category)
}

func TestRecategorizeReportsProgress(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	categorizer := NewCategorizer(match.NewLevenshteinScorer())

	saveTestExpenses(t, store, []model.Expense{
		{Description: "GRAB SINGAPORE", Amount: 18.40, Category: "others"},
		{Description: "NETFLIX", Amount: 19.99, Category: "others"},
	})

	var calls [][2]int
	_, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{
		Progress: func(done, total int) {
			calls = append(calls, [2]int{done, total})
		},
	})
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, [2]int{1, 2}, calls[0])
	assert.Equal(t, [2]int{2, 2}, calls[1])
}

func TestRecategorizeSkipsBlankDescriptions(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)
	categorizer := NewCategorizer(match.NewLevenshteinScorer())

	saved := saveTestExpenses(t, store, []model.Expense{
		{Description: "GRAB SINGAPORE", Amount: 18.40, Category: "others"},
		{Description: "   ", Amount: 5.00, Category: "dining"},
	})

	summary, err := Recategorize(ctx, store, categorizer, RecategorizeOptions{})
	require.NoError(t, err)

	// The blank row is counted but its category is never touched.
	assert.Equal(t, 2, summary.TotalProcessed)
	assert.Equal(t, 1, summary.TotalUpdated)

	blank, err := store.GetExpenseByID(ctx, saved[1].ID)
	require.NoError(t, err)
	require.NotNil(t, blank)
	assert.Equal(t, "dining", blank.Category)
}

func TestRecategorizeEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	store := createTestStore(t)

	summary, err := Recategorize(ctx, store, NewCategorizer(match.NewLevenshteinScorer()), RecategorizeOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalProcessed)
	assert.Equal(t, 0, summary.TotalUpdated)
}
