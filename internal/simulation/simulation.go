// Package simulation runs one writer and several readers against the same
// expense collection at once, to show that readers always see consistent
// snapshots while inserts are in flight.
package simulation

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
)

// Target is the part of the expense service the simulation drives.
type Target interface {
	Add(ctx context.Context, e core.Expense) (int64, error)
	List(ctx context.Context) ([]core.Expense, error)
	Count(ctx context.Context) (int, error)
}

type Options struct {
	Writes         int
	WriteDelay     time.Duration
	Readers        int
	ReadsPerReader int
	ReadDelay      time.Duration
	Category       string

	// Amount returns the amount of the i-th insert (1-based). Defaults to a
	// random whole number in [50, 500).
	Amount func(i int) decimal.Decimal
	// Now stamps inserted expenses. Defaults to time.Now.
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		Writes:         5,
		WriteDelay:     100 * time.Millisecond,
		Readers:        2,
		ReadsPerReader: 3,
		ReadDelay:      150 * time.Millisecond,
		Category:       "Food",
	}
}

// Result records what every task observed.
type Result struct {
	Before      int
	After       int
	InsertedIDs []int64
	// ReaderCounts[r] holds the snapshot sizes reader r+1 saw, in order.
	ReaderCounts [][]int
}

// Run starts the writer and the readers together and waits for all of them.
// report receives the progress lines as they happen and may be nil.
// A storage error in any task is returned after every task has finished.
func Run(ctx context.Context, target Target, opts Options, report func(string), logger *log.Logger) (Result, error) {
	opts = withDefaults(opts)
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentSimulation)

	var mu sync.Mutex
	say := func(format string, args ...any) {
		if report == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		report(fmt.Sprintf(format, args...))
	}

	before, err := target.Count(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("count before simulation: %w", err)
	}

	res := Result{
		Before:       before,
		ReaderCounts: make([][]int, opts.Readers),
	}

	// Tasks do not share a cancelling context: every task runs to completion.
	var g errgroup.Group

	g.Go(func() error {
		for i := 1; i <= opts.Writes; i++ {
			id, err := target.Add(ctx, core.Expense{
				Date:        core.DateOf(opts.Now()),
				Amount:      opts.Amount(i),
				Category:    opts.Category,
				Description: fmt.Sprintf("Lunch %d", i),
			})
			if err != nil {
				return fmt.Errorf("writer insert %d: %w", i, err)
			}
			res.InsertedIDs = append(res.InsertedIDs, id)
			sleep(ctx, opts.WriteDelay)
		}
		say("Writer task completed.")
		return nil
	})

	for r := 0; r < opts.Readers; r++ {
		readerID := r + 1
		g.Go(func() error {
			counts := make([]int, 0, opts.ReadsPerReader)
			for j := 0; j < opts.ReadsPerReader; j++ {
				expenses, err := target.List(ctx)
				if err != nil {
					return fmt.Errorf("reader %d read %d: %w", readerID, j+1, err)
				}
				counts = append(counts, len(expenses))
				say("Reader %d read %d expenses.", readerID, len(expenses))
				sleep(ctx, opts.ReadDelay)
			}
			res.ReaderCounts[readerID-1] = counts
			return nil
		})
	}

	runErr := g.Wait()

	after, err := target.Count(ctx)
	if err != nil && runErr == nil {
		runErr = fmt.Errorf("count after simulation: %w", err)
	}
	res.After = after

	if runErr != nil {
		logger.ErrorContext(ctx, "Concurrency simulation failed",
			log.FieldOperation, log.OpSimulate,
			log.FieldError, runErr)
		return res, runErr
	}

	logger.InfoContext(ctx, "Concurrency simulation completed",
		log.FieldOperation, log.OpSimulate,
		log.FieldCount, len(res.InsertedIDs),
		"before", res.Before,
		"after", res.After)
	return res, nil
}

func withDefaults(opts Options) Options {
	def := DefaultOptions()
	if opts.Writes <= 0 {
		opts.Writes = def.Writes
	}
	if opts.Readers <= 0 {
		opts.Readers = def.Readers
	}
	if opts.ReadsPerReader <= 0 {
		opts.ReadsPerReader = def.ReadsPerReader
	}
	if opts.WriteDelay < 0 {
		opts.WriteDelay = 0
	}
	if opts.ReadDelay < 0 {
		opts.ReadDelay = 0
	}
	if opts.Category == "" {
		opts.Category = def.Category
	}
	if opts.Amount == nil {
		opts.Amount = randomAmount
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return opts
}

func randomAmount(int) decimal.Decimal {
	return decimal.NewFromInt(int64(50 + rand.Intn(450)))
}

// sleep pauses for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
