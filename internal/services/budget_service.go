package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/log"
	"expensetracker/internal/report"
	"expensetracker/internal/storage"
)

// BudgetService orchestrates budget operations across storage and the change feed
type BudgetService struct {
	store storage.BudgetStore
	feed  feed
}

func NewBudgetService(store storage.BudgetStore, publisher events.Publisher, logger *log.Logger) *BudgetService {
	return &BudgetService{
		store: store,
		feed:  newFeed(publisher, logger),
	}
}

// Stats holds the budget aggregations shown together on the console.
type Stats struct {
	Total        decimal.Decimal
	MonthlyTotal decimal.Decimal
	Averages     []report.CategoryAverage
}

func (s *BudgetService) Add(ctx context.Context, b core.Budget) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.Insert(ctx, b)
	if err != nil {
		return 0, fmt.Errorf("save budget: %w", err)
	}

	s.feed.publish(ctx, events.NewRecordChanged(storage.BudgetsCollection, events.OpInserted, id))
	return id, nil
}

func (s *BudgetService) AddBulk(ctx context.Context, budgets []core.Budget) error {
	for i, b := range budgets {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("budget %d: %w", i, err)
		}
	}

	if err := s.store.InsertBulk(ctx, budgets); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}

	s.feed.publish(ctx, events.NewBulkInserted(storage.BudgetsCollection, len(budgets)))
	return nil
}

func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	budgets, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return budgets, nil
}

func (s *BudgetService) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count budgets: %w", err)
	}
	return n, nil
}

// WithTag looks budgets up through the tag index. Matching is exact and
// case-sensitive.
func (s *BudgetService) WithTag(ctx context.Context, tag string) ([]core.Budget, error) {
	budgets, err := s.store.FindByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("find budgets by tag %q: %w", tag, err)
	}
	return budgets, nil
}

// SumByTag totals the limits of budgets tagged with tag; zero when none are.
func (s *BudgetService) SumByTag(ctx context.Context, tag string) (decimal.Decimal, error) {
	budgets, err := s.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return report.SumLimitByTag(budgets, tag), nil
}

// Stats aggregates a single snapshot so the three figures agree.
func (s *BudgetService) Stats(ctx context.Context) (Stats, error) {
	budgets, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		Total:        report.TotalLimit(budgets),
		MonthlyTotal: report.SumLimitByTag(budgets, core.MonthlyTag),
		Averages:     report.AverageLimitByCategory(budgets),
	}, nil
}
