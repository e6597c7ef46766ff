package services

import (
	"context"

	"expensetracker/internal/core"
)

// LoadSampleData inserts the demo expenses and budgets. Running it twice
// inserts the records twice.
func LoadSampleData(ctx context.Context, expenses *ExpenseService, budgets *BudgetService) error {
	if err := expenses.AddBulk(ctx, core.SampleExpenses()); err != nil {
		return err
	}
	return budgets.AddBulk(ctx, core.SampleBudgets())
}

// SeedTagDemo inserts the three lowercase-tagged budgets one by one and
// returns those found under tag.
func SeedTagDemo(ctx context.Context, budgets *BudgetService, tag string) ([]core.Budget, error) {
	for _, b := range core.TagIndexBudgets() {
		if _, err := budgets.Add(ctx, b); err != nil {
			return nil, err
		}
	}
	return budgets.WithTag(ctx, tag)
}
