package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/storagetest"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "tracker.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestExpensesContract(t *testing.T) {
	storagetest.ExpenseStore(t, func(t *testing.T) storage.ExpenseStore { return openTestDB(t).Expenses })
}

func TestBudgetsContract(t *testing.T) {
	storagetest.BudgetStore(t, func(t *testing.T) storage.BudgetStore { return openTestDB(t).Budgets })
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tracker.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Expenses.InsertBulk(ctx, core.SampleExpenses()))
	require.NoError(t, db.Budgets.InsertBulk(ctx, core.SampleBudgets()))
	require.NoError(t, db.Close())

	// Migrations are idempotent on an existing schema.
	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()

	n, err := db.Expenses.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 25, n)

	essential, err := db.Budgets.FindByTag(ctx, "Essential")
	require.NoError(t, err)
	require.Len(t, essential, 2)
	require.Equal(t, "Food", essential[0].Category)
	require.Equal(t, []string{"Monthly", "Essential"}, essential[0].Tags.Values())
}

func TestClosedDatabaseIsStorageFailure(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Close())

	_, err := db.Expenses.FindAll(context.Background())
	require.True(t, core.IsStorageFailure(err), "got %v", err)

	_, err = db.Budgets.Insert(context.Background(), core.SampleBudgets()[0])
	require.True(t, core.IsStorageFailure(err), "got %v", err)
}
