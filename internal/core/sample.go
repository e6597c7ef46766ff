package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyTag is the tag the budget statistics filter on.
const MonthlyTag = "Monthly"

func expense(day int, amount int64, category, description string) Expense {
	return Expense{
		Date:        NewDate(2025, time.September, day),
		Amount:      decimal.NewFromInt(amount),
		Category:    category,
		Description: description,
	}
}

func budget(category string, limit int64, tags ...string) Budget {
	return Budget{
		Category: category,
		Limit:    decimal.NewFromInt(limit),
		Month:    NewMonth(2025, time.October),
		Tags:     NewTagSet(tags...),
	}
}

// SampleExpenses returns the demo expense set, two weeks of September 2025.
func SampleExpenses() []Expense {
	return []Expense{
		expense(1, 150, "Food", "Breakfast"),
		expense(1, 50, "Transport", "Bus fare"),
		expense(2, 200, "Food", "Lunch"),
		expense(2, 300, "Shopping", "Groceries"),
		expense(3, 120, "Food", "Dinner"),
		expense(3, 75, "Transport", "Taxi"),
		expense(4, 500, "Shopping", "Clothes"),
		expense(4, 250, "Health", "Medicines"),
		expense(5, 80, "Food", "Breakfast"),
		expense(5, 60, "Transport", "Metro"),
		expense(6, 150, "Food", "Lunch"),
		expense(6, 100, "Entertainment", "Movie"),
		expense(7, 200, "Food", "Dinner"),
		expense(7, 300, "Shopping", "Electronics"),
		expense(8, 120, "Health", "Doctor visit"),
		expense(8, 50, "Transport", "Bus fare"),
		expense(9, 400, "Shopping", "Shoes"),
		expense(9, 90, "Food", "Lunch"),
		expense(10, 60, "Transport", "Taxi"),
		expense(10, 180, "Food", "Dinner"),
		expense(11, 120, "Entertainment", "Concert"),
		expense(11, 300, "Shopping", "Groceries"),
		expense(12, 50, "Transport", "Metro"),
		expense(12, 100, "Food", "Breakfast"),
		expense(13, 150, "Food", "Lunch"),
	}
}

// SampleBudgets returns the October 2025 demo budgets.
func SampleBudgets() []Budget {
	return []Budget{
		budget("Food", 8000, "Monthly", "Essential"),
		budget("Travel", 5000, "Monthly", "Optional"),
		budget("Entertainment", 3000, "Optional"),
		budget("Health", 4000, "Essential"),
		budget("Savings", 10000, "Monthly", "Goal"),
	}
}

// TagIndexBudgets returns the budgets inserted by the multi-key index demo.
func TagIndexBudgets() []Budget {
	return []Budget{
		budget("Monthly Groceries", 5000, "food", "monthly", "home"),
		budget("Entertainment Budget", 2000, "fun", "monthly", "leisure"),
		budget("Office Expenses", 10000, "office", "work", "monthly"),
	}
}

// DocumentDemoExpenses returns the two expenses added before the raw
// document view when the collection is empty.
func DocumentDemoExpenses(now time.Time) []Expense {
	return []Expense{
		{Date: DateOf(now), Amount: decimal.NewFromInt(250), Category: "Food", Description: "Lunch"},
		{Date: DateOf(now), Amount: decimal.NewFromInt(100), Category: "Transport", Description: "Taxi"},
	}
}
