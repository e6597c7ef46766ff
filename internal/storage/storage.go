// Package storage defines the contract the tracker needs from a persistence
// backend. Every read returns a point-in-time snapshot: callers own the
// returned records and later writes never show through them.
package storage

import (
	"context"

	"expensetracker/internal/core"
)

// Collection is a keyed set of records of one kind.
//
// Insert assigns the identity and ignores any ID already set on the record.
// FindByID, Update and Delete return an error wrapping core.ErrNotFound for
// unknown identities. Backend failures are wrapped in *core.StorageError.
type Collection[T any] interface {
	Insert(ctx context.Context, record T) (int64, error)
	InsertBulk(ctx context.Context, records []T) error
	FindByID(ctx context.Context, id int64) (T, error)
	FindAll(ctx context.Context) ([]T, error)
	Find(ctx context.Context, match func(T) bool) ([]T, error)
	Update(ctx context.Context, record T) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type ExpenseStore interface {
	Collection[core.Expense]
}

// BudgetStore adds the lookup served by the multi-key index on tags: a budget
// is reachable under each of its tags.
type BudgetStore interface {
	Collection[core.Budget]
	FindByTag(ctx context.Context, tag string) ([]core.Budget, error)
}

// Names used in logs and error messages.
const (
	ExpensesCollection = "expenses"
	BudgetsCollection  = "budgets"
)
