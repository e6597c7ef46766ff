// Package storagetest holds the behaviour every storage backend must share.
// Backend packages call these from their own tests.
package storagetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

func expense(day int, amount int64, category, description string) core.Expense {
	return core.Expense{
		Date:        core.NewDate(2025, time.September, day),
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
		Description: description,
	}
}

// ExpenseStore exercises the storage contract against an expense backend.
func ExpenseStore(t *testing.T, open func(t *testing.T) storage.ExpenseStore) {
	ctx := context.Background()

	t.Run("insert assigns unique ids", func(t *testing.T) {
		s := open(t)
		a, err := s.Insert(ctx, expense(1, 150, "Food", "Breakfast"))
		require.NoError(t, err)
		b, err := s.Insert(ctx, core.Expense{ID: a, Date: core.NewDate(2025, 9, 2), Amount: decimal.NewFromInt(5)})
		require.NoError(t, err)
		require.NotEqual(t, a, b)

		got, err := s.FindByID(ctx, a)
		require.NoError(t, err)
		require.Equal(t, a, got.ID)
		require.Equal(t, "Food", got.Category)
		require.Equal(t, "2025-09-01", got.Date.String())
		require.True(t, got.Amount.Equal(decimal.NewFromInt(150)))
	})

	t.Run("find all keeps insertion order", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.InsertBulk(ctx, core.SampleExpenses()))
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 25)
		require.Equal(t, "Breakfast", all[0].Description)
		require.Equal(t, "Lunch", all[24].Description)

		n, err := s.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, 25, n)
	})

	t.Run("find filters by predicate", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.InsertBulk(ctx, core.SampleExpenses()))
		transport, err := s.Find(ctx, func(e core.Expense) bool { return e.Category == "Transport" })
		require.NoError(t, err)
		require.Len(t, transport, 6)

		none, err := s.Find(ctx, func(core.Expense) bool { return false })
		require.NoError(t, err)
		require.Empty(t, none)
	})

	t.Run("update overwrites fields", func(t *testing.T) {
		s := open(t)
		id, err := s.Insert(ctx, expense(3, 120, "Food", "Dinner"))
		require.NoError(t, err)

		upd := expense(3, 99, "Dining", "Late dinner, with friends")
		upd.ID = id
		require.NoError(t, s.Update(ctx, upd))

		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		require.Equal(t, "Dining", got.Category)
		require.Equal(t, "Late dinner, with friends", got.Description)
		require.True(t, got.Amount.Equal(decimal.NewFromInt(99)))
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		s := open(t)
		_, err := s.FindByID(ctx, 404)
		require.True(t, errors.Is(err, core.ErrNotFound))

		missing := expense(1, 1, "x", "y")
		missing.ID = 404
		require.True(t, errors.Is(s.Update(ctx, missing), core.ErrNotFound))
		require.True(t, errors.Is(s.Delete(ctx, 404), core.ErrNotFound))
	})

	t.Run("delete removes the record", func(t *testing.T) {
		s := open(t)
		id, err := s.Insert(ctx, expense(1, 10, "Food", "Tea"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, id))
		_, err = s.FindByID(ctx, id)
		require.True(t, errors.Is(err, core.ErrNotFound))
		require.True(t, errors.Is(s.Delete(ctx, id), core.ErrNotFound))

		n, err := s.Count(ctx)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("snapshots are detached", func(t *testing.T) {
		s := open(t)
		_, err := s.Insert(ctx, expense(1, 10, "Food", "Tea"))
		require.NoError(t, err)
		snap, err := s.FindAll(ctx)
		require.NoError(t, err)

		_, err = s.Insert(ctx, expense(2, 20, "Food", "Coffee"))
		require.NoError(t, err)
		snap[0].Category = "mutated"

		require.Len(t, snap, 1)
		again, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, again, 2)
		require.Equal(t, "Food", again[0].Category)
	})

	t.Run("concurrent inserts are not lost", func(t *testing.T) {
		s := open(t)
		const writers, each = 4, 10
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < each; i++ {
					if _, err := s.Insert(ctx, expense(1, int64(i), "Food", "Lunch")); err != nil {
						t.Error(err)
						return
					}
					if _, err := s.FindAll(ctx); err != nil {
						t.Error(err)
						return
					}
				}
			}()
		}
		wg.Wait()
		n, err := s.Count(ctx)
		require.NoError(t, err)
		require.Equal(t, writers*each, n)
	})
}

// BudgetStore exercises the storage contract against a budget backend,
// including the multi-key tag index.
func BudgetStore(t *testing.T, open func(t *testing.T) storage.BudgetStore) {
	ctx := context.Background()

	t.Run("tags round trip as a set", func(t *testing.T) {
		s := open(t)
		id, err := s.Insert(ctx, core.Budget{
			Category: "Food",
			Limit:    decimal.NewFromInt(8000),
			Month:    core.NewMonth(2025, time.October),
			Tags:     core.NewTagSet("Monthly", "Essential"),
		})
		require.NoError(t, err)

		got, err := s.FindByID(ctx, id)
		require.NoError(t, err)
		require.True(t, got.Tags.Equal(core.NewTagSet("Essential", "Monthly")))
		require.Equal(t, core.NewMonth(2025, time.October), got.Month)
		require.True(t, got.Limit.Equal(decimal.NewFromInt(8000)))
	})

	t.Run("find by tag uses every key of a record", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.InsertBulk(ctx, core.TagIndexBudgets()))

		monthly, err := s.FindByTag(ctx, "monthly")
		require.NoError(t, err)
		require.Len(t, monthly, 3)

		food, err := s.FindByTag(ctx, "food")
		require.NoError(t, err)
		require.Len(t, food, 1)
		require.Equal(t, "Monthly Groceries", food[0].Category)

		upper, err := s.FindByTag(ctx, "Food")
		require.NoError(t, err)
		require.Empty(t, upper)
	})

	t.Run("index follows updates and deletes", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.InsertBulk(ctx, core.SampleBudgets()))
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)

		food := all[0]
		food.Tags = core.NewTagSet("Essential")
		require.NoError(t, s.Update(ctx, food))

		monthly, err := s.FindByTag(ctx, core.MonthlyTag)
		require.NoError(t, err)
		require.Len(t, monthly, 2)

		require.NoError(t, s.Delete(ctx, all[1].ID))
		monthly, err = s.FindByTag(ctx, core.MonthlyTag)
		require.NoError(t, err)
		require.Len(t, monthly, 1)
		require.Equal(t, "Savings", monthly[0].Category)
	})

	t.Run("snapshot tags are detached", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.InsertBulk(ctx, core.SampleBudgets()))
		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		all[0].Tags = all[0].Tags.With("Changed")

		again, err := s.FindByID(ctx, all[0].ID)
		require.NoError(t, err)
		require.False(t, again.Tags.Contains("Changed"))
	})

	t.Run("unknown ids report not found", func(t *testing.T) {
		s := open(t)
		_, err := s.FindByID(ctx, 7)
		require.True(t, errors.Is(err, core.ErrNotFound))
		require.True(t, errors.Is(s.Delete(ctx, 7), core.ErrNotFound))
	})
}
