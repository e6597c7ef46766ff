package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
	"expensetracker/internal/report"
	"expensetracker/internal/storage"
)

// ExpenseService orchestrates expense operations across storage and the change feed
type ExpenseService struct {
	store storage.ExpenseStore
	feed  feed
}

func NewExpenseService(store storage.ExpenseStore, publisher events.Publisher, logger *log.Logger) *ExpenseService {
	return &ExpenseService{
		store: store,
		feed:  newFeed(publisher, logger),
	}
}

// Summary is the grouped total per category plus the grand total.
type Summary struct {
	Rows  []report.CategoryTotal
	Total decimal.Decimal
}

// Add validates and stores a new expense, returning its id.
func (s *ExpenseService) Add(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.feed.publish(ctx, events.NewRecordChanged(storage.ExpensesCollection, events.OpInserted, id))
	return id, nil
}

// AddBulk stores every expense or, on a validation failure, none of them.
func (s *ExpenseService) AddBulk(ctx context.Context, expenses []core.Expense) error {
	for i, e := range expenses {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("expense %d: %w", i, err)
		}
	}

	if err := s.store.InsertBulk(ctx, expenses); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}

	s.feed.publish(ctx, events.NewBulkInserted(storage.ExpensesCollection, len(expenses)))
	return nil
}

func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	e, err := s.store.FindByID(ctx, id)
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// List returns a snapshot of every expense in insertion order.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return expenses, nil
}

func (s *ExpenseService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count expenses: %w", err)
	}
	return n, nil
}

// Update overwrites the stored expense with the same id.
func (s *ExpenseService) Update(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if err := s.store.Update(ctx, e); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	s.feed.publish(ctx, events.NewRecordChanged(storage.ExpensesCollection, events.OpUpdated, e.ID))
	return nil
}

// UpdateDetails replaces amount, category and description of an existing
// expense. The date is kept.
func (s *ExpenseService) UpdateDetails(ctx context.Context, id int64, amount decimal.Decimal, category, description string) (core.Expense, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	e.Amount = amount
	e.Category = category
	e.Description = description

	if err := s.Update(ctx, e); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.feed.publish(ctx, events.NewRecordChanged(storage.ExpensesCollection, events.OpDeleted, id))
	return nil
}

// ByCategory returns the expenses whose category equals query ignoring case.
func (s *ExpenseService) ByCategory(ctx context.Context, query string) ([]core.Expense, error) {
	expenses, err := s.store.Find(ctx, func(e core.Expense) bool {
		return report.InCategory(e, query)
	})
	if err != nil {
		return nil, fmt.Errorf("query expenses by category: %w", err)
	}
	return expenses, nil
}

// Summary groups a snapshot of all expenses by category.
func (s *ExpenseService) Summary(ctx context.Context) (Summary, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Rows:  report.CategorySummary(expenses),
		Total: report.GrandTotal(expenses),
	}, nil
}

// ExportCSV writes a snapshot of all expenses to path and returns the
// number of data rows written.
func (s *ExpenseService) ExportCSV(ctx context.Context, path string) (int, error) {
	expenses, err := s.List(ctx)
	if err != nil {
		return 0, err
	}
	if err := export.ExportCSVFile(path, expenses); err != nil {
		return 0, fmt.Errorf("export expenses: %w", err)
	}
	return len(expenses), nil
}

// EnsureDocumentDemo inserts the two demo expenses when the collection is
// empty, then returns the full snapshot.
func (s *ExpenseService) EnsureDocumentDemo(ctx context.Context, now time.Time) ([]core.Expense, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		for _, e := range core.DocumentDemoExpenses(now) {
			if _, err := s.Add(ctx, e); err != nil {
				return nil, err
			}
		}
	}
	return s.List(ctx)
}
