package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/services"
	"expensetracker/internal/storage/memory"
	"expensetracker/internal/storage/sqlite"
)

func fastOptions() Options {
	opts := DefaultOptions()
	opts.WriteDelay = 2 * time.Millisecond
	opts.ReadDelay = 3 * time.Millisecond
	return opts
}

func checkResult(t *testing.T, res Result, before int) {
	t.Helper()
	require.Equal(t, before, res.Before)
	require.Equal(t, before+5, res.After)
	require.Len(t, res.InsertedIDs, 5)
	require.Len(t, res.ReaderCounts, 2)
	for r, counts := range res.ReaderCounts {
		require.Len(t, counts, 3, "reader %d", r+1)
		for i, n := range counts {
			require.GreaterOrEqual(t, n, before, "reader %d read %d", r+1, i+1)
			require.LessOrEqual(t, n, before+5, "reader %d read %d", r+1, i+1)
			if i > 0 {
				require.GreaterOrEqual(t, n, counts[i-1], "reader %d counts must not decrease", r+1)
			}
		}
	}
}

func TestRunMemory(t *testing.T) {
	ctx := context.Background()
	svc := services.NewExpenseService(memory.NewExpenses(), events.NopPublisher{}, nil)
	_, err := svc.Add(ctx, core.Expense{Date: core.NewDate(2025, time.September, 1), Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	var mu sync.Mutex
	var lines []string
	res, err := Run(ctx, svc, fastOptions(), func(s string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, s)
	}, nil)
	require.NoError(t, err)
	checkResult(t, res, 1)

	require.Len(t, lines, 7)
	require.Contains(t, lines, "Writer task completed.")
	for _, l := range lines {
		if l != "Writer task completed." {
			require.True(t, strings.HasPrefix(l, "Reader "), l)
			require.True(t, strings.HasSuffix(l, " expenses."), l)
		}
	}

	all, err := svc.List(ctx)
	require.NoError(t, err)
	for i, e := range all[1:] {
		require.Equal(t, "Food", e.Category)
		require.Equal(t, fmt.Sprintf("Lunch %d", i+1), e.Description)
		require.True(t, e.Amount.GreaterThanOrEqual(decimal.NewFromInt(50)))
		require.True(t, e.Amount.LessThan(decimal.NewFromInt(500)))
	}
}

func TestRunSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(t.TempDir() + "/sim.db")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := services.NewExpenseService(db.Expenses, nil, nil)
	res, err := Run(ctx, svc, fastOptions(), nil, nil)
	require.NoError(t, err)
	checkResult(t, res, 0)
}

type brokenTarget struct{ Target }

func (brokenTarget) List(context.Context) ([]core.Expense, error) {
	return nil, &core.StorageError{Op: "find_all", Err: errors.New("disk gone")}
}

func TestRunReturnsStorageFailure(t *testing.T) {
	ctx := context.Background()
	svc := services.NewExpenseService(memory.NewExpenses(), nil, nil)

	res, err := Run(ctx, brokenTarget{svc}, fastOptions(), nil, nil)
	require.Error(t, err)
	require.True(t, core.IsStorageFailure(err))
	// The writer still ran to completion.
	require.Equal(t, 5, res.After)
}

func TestRunFixedAmounts(t *testing.T) {
	ctx := context.Background()
	svc := services.NewExpenseService(memory.NewExpenses(), nil, nil)

	opts := fastOptions()
	opts.Amount = func(i int) decimal.Decimal { return decimal.NewFromInt(int64(i * 100)) }
	_, err := Run(ctx, svc, opts, nil, nil)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, "1500", summary.Total.String())
}
