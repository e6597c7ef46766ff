package export

import (
	"fmt"
	"io"

	"expensetracker/internal/core"
	"expensetracker/internal/report"
)

// categoryWidth is the left-justified category column of grouped outputs.
const categoryWidth = 15

// WriteExpenseTable prints the full expense listing.
func WriteExpenseTable(w io.Writer, expenses []core.Expense) {
	fmt.Fprintln(w, "\nID | Date       | Category   | Amount | Description")
	for _, e := range expenses {
		fmt.Fprintf(w, "%d | %s | %s | %s | %s\n", e.ID, e.Date, e.Category, e.Amount.String(), e.Description)
	}
}

// WriteCategoryListing prints the result of a category query.
func WriteCategoryListing(w io.Writer, query string, expenses []core.Expense) {
	fmt.Fprintf(w, "\nExpenses in category '%s':\n", query)
	for _, e := range expenses {
		fmt.Fprintf(w, "%d | %s | %s | %s\n", e.ID, e.Date, e.Amount.String(), e.Description)
	}
}

// WriteSummary prints one row per category total.
func WriteSummary(w io.Writer, rows []report.CategoryTotal) {
	fmt.Fprintln(w, "\nSQL-like Summary (Total per Category):")
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s %s\n", categoryWidth, r.Category, core.FormatCurrency(r.Total))
	}
}

// WriteAverages prints one row per category average.
func WriteAverages(w io.Writer, rows []report.CategoryAverage) {
	fmt.Fprintln(w, "\nAverage Limit by Category:")
	for _, r := range rows {
		fmt.Fprintf(w, "%-*s | Avg: %s\n", categoryWidth, r.Category, core.FormatCurrency(r.Average))
	}
}

// WriteBudgetTagListing prints the budgets found under a tag.
func WriteBudgetTagListing(w io.Writer, tag string, budgets []core.Budget) {
	fmt.Fprintf(w, "Budgets with tag '%s':\n", tag)
	for _, b := range budgets {
		fmt.Fprintf(w, "- %s (Limit: %s)\n", b.Category, b.Limit.String())
	}
}
