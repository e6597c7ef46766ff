package worker

import (
	"context"
	"errors"
	"fmt"

	"expensetracker/internal/core"
	"expensetracker/internal/events"
	"expensetracker/internal/export"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// FeedWorker follows the record change feed and keeps the CSV export in
// step with the expense collection.
type FeedWorker struct {
	expenses storage.ExpenseStore
	budgets  storage.BudgetStore
	csvPath  string
	logger   *log.Logger
}

func NewFeedWorker(expenses storage.ExpenseStore, budgets storage.BudgetStore, csvPath string, logger *log.Logger) *FeedWorker {
	if logger == nil {
		logger = log.Nop()
	}
	return &FeedWorker{
		expenses: expenses,
		budgets:  budgets,
		csvPath:  csvPath,
		logger:   logger.WithComponent(log.ComponentEvents),
	}
}

// HandleRecordChanged processes a single record change from AMQP. A record
// deleted after the message was sent is not an error; storage failures are,
// so the message gets requeued.
func (w *FeedWorker) HandleRecordChanged(ctx context.Context, msg events.RecordChanged) error {
	w.logger.InfoContext(ctx, "Processing record change",
		log.FieldCollection, msg.Collection,
		log.FieldOperation, string(msg.Operation),
		log.FieldID, msg.ID,
		log.FieldCount, msg.Count)

	switch msg.Collection {
	case storage.ExpensesCollection:
		if err := w.describeExpense(ctx, msg); err != nil {
			return err
		}
		return w.SyncExport(ctx)
	case storage.BudgetsCollection:
		return w.describeBudget(ctx, msg)
	default:
		w.logger.WarnContext(ctx, "Ignoring change for unknown collection",
			log.FieldCollection, msg.Collection)
		return nil
	}
}

// SyncExport rewrites the CSV export from a fresh snapshot.
func (w *FeedWorker) SyncExport(ctx context.Context) error {
	expenses, err := w.expenses.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("read expenses: %w", err)
	}
	if err := export.ExportCSVFile(w.csvPath, expenses); err != nil {
		return fmt.Errorf("sync export: %w", err)
	}

	w.logger.DebugContext(ctx, "Export synced",
		log.FieldOperation, log.OpExport,
		log.FieldPath, w.csvPath,
		log.FieldCount, len(expenses))
	return nil
}

func (w *FeedWorker) describeExpense(ctx context.Context, msg events.RecordChanged) error {
	if !singleWrite(msg.Operation) {
		return nil
	}
	e, err := w.expenses.FindByID(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		w.logger.WarnContext(ctx, "Expense gone before processing", log.FieldID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	w.logger.InfoContext(ctx, "Expense written",
		log.FieldID, e.ID,
		log.FieldCategory, e.Category,
		log.FieldAmount, e.Amount.String())
	return nil
}

func (w *FeedWorker) describeBudget(ctx context.Context, msg events.RecordChanged) error {
	if !singleWrite(msg.Operation) {
		return nil
	}
	b, err := w.budgets.FindByID(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		w.logger.WarnContext(ctx, "Budget gone before processing", log.FieldID, msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get budget from storage: %w", err)
	}

	w.logger.InfoContext(ctx, "Budget written",
		log.FieldID, b.ID,
		log.FieldCategory, b.Category,
		log.FieldAmount, b.Limit.String(),
		log.FieldTag, b.Tags.String())
	return nil
}

// singleWrite reports whether op names one record that can be read back.
func singleWrite(op events.Operation) bool {
	return op == events.OpInserted || op == events.OpUpdated
}
