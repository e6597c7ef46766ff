package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"expensetracker/internal/core"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
	"expensetracker/internal/services"
	"expensetracker/internal/simulation"
)

const menuText = `
--- Personal Expense Tracker ---
1. Add Sample Data
2. Add Expense
3. Update Expense
4. Delete Expense
5. View Expenses
6. Query by Category
7. SQL-like Summary
8. Export to CSV
9. Run Concurrency Simulation
10. Show BSON Representation
11. Working With Files
12. Multi-Key Index example
13. Expressions and Functions
0. Exit
`

// tagDemoQuery is the tag looked up after seeding the multi-key index demo.
const tagDemoQuery = "food"

// errEndOfInput ends the menu loop when stdin is exhausted.
var errEndOfInput = errors.New("end of input")

// Options configures the menu actions that touch the outside world.
type Options struct {
	CSVPath    string
	Simulation simulation.Options
	// Now stamps the demo documents. Defaults to time.Now.
	Now func() time.Time
}

// App is the interactive console. It reads one line per prompt and writes
// everything meant for the user to out.
type App struct {
	in       *bufio.Scanner
	out      io.Writer
	expenses *services.ExpenseService
	budgets  *services.BudgetService
	opts     Options
	logger   *log.Logger
}

func NewApp(in io.Reader, out io.Writer, expenses *services.ExpenseService, budgets *services.BudgetService, opts Options, logger *log.Logger) *App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &App{
		in:       bufio.NewScanner(in),
		out:      out,
		expenses: expenses,
		budgets:  budgets,
		opts:     opts,
		logger:   logger.WithComponent(log.ComponentCLI),
	}
}

// Run shows the menu until the user picks 0, input ends or ctx is done.
// Failed actions are reported and the loop continues.
func (a *App) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(a.out, menuText)
		choice, err := a.prompt("Choose an option: ")
		if errors.Is(err, errEndOfInput) {
			return nil
		}
		if err != nil {
			return err
		}

		if choice == "0" {
			return nil
		}

		err = a.dispatch(ctx, choice)
		switch {
		case err == nil:
		case errors.Is(err, errEndOfInput):
			return nil
		default:
			a.report(ctx, choice, err)
		}
	}
}

func (a *App) dispatch(ctx context.Context, choice string) error {
	switch choice {
	case "1":
		return a.addSampleData(ctx)
	case "2":
		return a.addExpense(ctx)
	case "3":
		return a.updateExpense(ctx)
	case "4":
		return a.deleteExpense(ctx)
	case "5":
		return a.viewExpenses(ctx)
	case "6":
		return a.queryByCategory(ctx)
	case "7":
		return a.summary(ctx)
	case "8":
		return a.exportCSV(ctx)
	case "9":
		return a.runSimulation(ctx)
	case "10":
		return a.showDocuments(ctx)
	case "11":
		fmt.Fprintln(a.out, "=== Working with files ===")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "File storage is not available.")
		return nil
	case "12":
		return a.multiKeyIndex(ctx)
	case "13":
		return a.aggregations(ctx)
	default:
		fmt.Fprintln(a.out, "Invalid option.")
		return nil
	}
}

// report prints a failed action and keeps the loop going.
func (a *App) report(ctx context.Context, choice string, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(a.out, "Expense not found.")
	case errors.Is(err, core.ErrInvalidInput):
		fmt.Fprintln(a.out, err)
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
		errType := log.ErrorTypeInternal
		if core.IsStorageFailure(err) {
			errType = log.ErrorTypeStorage
		}
		a.logger.ErrorContext(ctx, "Menu action failed",
			"option", choice,
			"error_type", errType,
			log.FieldError, err)
	}
}

// prompt writes label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errEndOfInput
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// promptRaw is prompt for free text, where surrounding spaces are kept.
func (a *App) promptRaw(label string) (string, error) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errEndOfInput
	}
	return strings.TrimRight(a.in.Text(), "\r"), nil
}

func (a *App) promptID(label string) (int64, error) {
	s, err := a.prompt(label)
	if err != nil {
		return 0, err
	}
	return core.ParseID(s)
}

func (a *App) addSampleData(ctx context.Context) error {
	if err := services.LoadSampleData(ctx, a.expenses, a.budgets); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Sample expenses inserted successfully.")
	fmt.Fprintln(a.out, "Sample budget inserted successfully.")
	return nil
}

func (a *App) addExpense(ctx context.Context) error {
	s, err := a.prompt("Date (yyyy-MM-dd): ")
	if err != nil {
		return err
	}
	date, err := core.ParseDate(s)
	if err != nil {
		return err
	}

	s, err = a.prompt("Amount: ")
	if err != nil {
		return err
	}
	amount, err := core.ParseAmount(s)
	if err != nil {
		return err
	}

	category, err := a.promptRaw("Category: ")
	if err != nil {
		return err
	}
	description, err := a.promptRaw("Description: ")
	if err != nil {
		return err
	}

	if _, err := a.expenses.Add(ctx, core.Expense{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
	}); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Expense added successfully.")
	return nil
}

func (a *App) updateExpense(ctx context.Context) error {
	id, err := a.promptID("Enter Expense ID to update: ")
	if err != nil {
		return err
	}
	if _, err := a.expenses.Get(ctx, id); err != nil {
		return err
	}

	s, err := a.prompt("New Amount: ")
	if err != nil {
		return err
	}
	amount, err := core.ParseAmount(s)
	if err != nil {
		return err
	}
	category, err := a.promptRaw("New Category: ")
	if err != nil {
		return err
	}
	description, err := a.promptRaw("New Description: ")
	if err != nil {
		return err
	}

	if _, err := a.expenses.UpdateDetails(ctx, id, amount, category, description); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Expense updated successfully.")
	return nil
}

func (a *App) deleteExpense(ctx context.Context) error {
	id, err := a.promptID("Enter Expense ID to delete: ")
	if err != nil {
		return err
	}
	if err := a.expenses.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Expense deleted.")
	return nil
}

func (a *App) viewExpenses(ctx context.Context) error {
	expenses, err := a.expenses.List(ctx)
	if err != nil {
		return err
	}
	export.WriteExpenseTable(a.out, expenses)
	return nil
}

func (a *App) queryByCategory(ctx context.Context) error {
	query, err := a.promptRaw("Enter category to filter: ")
	if err != nil {
		return err
	}
	expenses, err := a.expenses.ByCategory(ctx, query)
	if err != nil {
		return err
	}
	export.WriteCategoryListing(a.out, query, expenses)
	return nil
}

func (a *App) summary(ctx context.Context) error {
	s, err := a.expenses.Summary(ctx)
	if err != nil {
		return err
	}
	export.WriteSummary(a.out, s.Rows)
	return nil
}

func (a *App) exportCSV(ctx context.Context) error {
	n, err := a.expenses.ExportCSV(ctx, a.opts.CSVPath)
	if err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "Exported expenses",
		log.FieldOperation, log.OpExport,
		log.FieldPath, a.opts.CSVPath,
		log.FieldCount, n)
	fmt.Fprintf(a.out, "Expenses exported to %s\n", a.opts.CSVPath)
	return nil
}

func (a *App) runSimulation(ctx context.Context) error {
	_, err := simulation.Run(ctx, a.expenses, a.opts.Simulation, func(line string) {
		fmt.Fprintln(a.out, line)
	}, a.logger)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Concurrency simulation completed.")
	return nil
}

func (a *App) showDocuments(ctx context.Context) error {
	expenses, err := a.expenses.EnsureDocumentDemo(ctx, a.opts.Now())
	if err != nil {
		return err
	}
	if err := export.WriteDocuments(a.out, expenses); err != nil {
		return err
	}

	if size, err := export.DocumentSize(expenses); err == nil {
		a.logger.DebugContext(ctx, "Rendered expense documents",
			log.FieldCount, len(expenses),
			"bytes", size)
	}
	return nil
}

func (a *App) multiKeyIndex(ctx context.Context) error {
	found, err := services.SeedTagDemo(ctx, a.budgets, tagDemoQuery)
	if err != nil {
		return err
	}
	export.WriteBudgetTagListing(a.out, tagDemoQuery, found)
	return nil
}

func (a *App) aggregations(ctx context.Context) error {
	stats, err := a.budgets.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "\n************* SUM *************")
	fmt.Fprintln(a.out, "Aggregate Functions: SUM Example")
	fmt.Fprintln(a.out, "\nBudget Collection: ")
	fmt.Fprintf(a.out, "Total Budget Limit: %s\n", core.FormatCurrency(stats.Total))
	fmt.Fprintln(a.out, "Equivalent to SQL's: SELECT SUM(Limit) FROM budgets;")

	fmt.Fprintln(a.out, "\n\nFiltered Aggregation: SUM Example")
	fmt.Fprintf(a.out, "\nTotal Monthly Budget: %s\n", core.FormatCurrency(stats.MonthlyTotal))
	fmt.Fprintf(a.out, "Equivalent to SQL's: SELECT SUM(Limit) FROM budgets WHERE Tags CONTAINS '%s'\n", core.MonthlyTag)

	fmt.Fprintln(a.out, "\n************* AVG *************")
	fmt.Fprintln(a.out, "\nAggregate Functions: AVG Example")
	export.WriteAverages(a.out, stats.Averages)
	fmt.Fprintln(a.out, "Equivalent to SQL's: SELECT Category, AVG(Limit) FROM budgets GROUP BY Category;")
	fmt.Fprintln(a.out, "\nInfo: budgets are read as one snapshot and aggregated in the program, not by the storage engine.")
	return nil
}
