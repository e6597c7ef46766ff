// Package report holds the aggregation engine: pure functions over record
// snapshots. Nothing here touches storage or keeps state between calls, and
// empty input always yields an empty (or zero) result.
package report

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// CategoryTotal is the summed amount of one expense category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
}

// CategoryAverage is the mean budget limit of one budget category.
type CategoryAverage struct {
	Category string
	Average  decimal.Decimal
}

// CategorySummary groups expenses by category (case-sensitive, as entered)
// and sums each group. Rows are sorted by total descending; equal totals
// keep the order in which their categories first appeared.
func CategorySummary(expenses []core.Expense) []CategoryTotal {
	var (
		out   []CategoryTotal
		index = map[string]int{}
	)
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, CategoryTotal{Category: e.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(e.Amount)
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})
	return out
}

// ExpensesInCategory returns the expenses whose category equals query,
// ignoring case. It is an equality test, not a substring match.
func ExpensesInCategory(expenses []core.Expense, query string) []core.Expense {
	var out []core.Expense
	for _, e := range expenses {
		if InCategory(e, query) {
			out = append(out, e)
		}
	}
	return out
}

// InCategory is the predicate behind ExpensesInCategory.
func InCategory(e core.Expense, query string) bool {
	return strings.EqualFold(e.Category, query)
}

// GrandTotal sums every expense amount.
func GrandTotal(expenses []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// AverageLimitByCategory groups budgets by category (case-sensitive) and
// returns the mean limit of each group in first-seen order.
func AverageLimitByCategory(budgets []core.Budget) []CategoryAverage {
	type group struct {
		sum   decimal.Decimal
		count int64
	}
	var (
		order  []string
		groups = map[string]*group{}
	)
	for _, b := range budgets {
		g, ok := groups[b.Category]
		if !ok {
			g = &group{sum: decimal.Zero}
			groups[b.Category] = g
			order = append(order, b.Category)
		}
		g.sum = g.sum.Add(b.Limit)
		g.count++
	}

	out := make([]CategoryAverage, 0, len(order))
	for _, c := range order {
		g := groups[c]
		// A group exists only once it has a member, so count > 0.
		out = append(out, CategoryAverage{Category: c, Average: g.sum.Div(decimal.NewFromInt(g.count))})
	}
	return out
}

// BudgetsWithTag returns the budgets whose tag set contains tag (exact,
// case-sensitive).
func BudgetsWithTag(budgets []core.Budget, tag string) []core.Budget {
	var out []core.Budget
	for _, b := range budgets {
		if b.Tags.Contains(tag) {
			out = append(out, b)
		}
	}
	return out
}

// SumLimitByTag sums the limits of the budgets carrying tag. No match gives
// exactly zero.
func SumLimitByTag(budgets []core.Budget, tag string) decimal.Decimal {
	return TotalLimit(BudgetsWithTag(budgets, tag))
}

// TotalLimit sums every budget limit.
func TotalLimit(budgets []core.Budget) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Limit)
	}
	return total
}
