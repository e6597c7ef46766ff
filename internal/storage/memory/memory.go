// Package memory is an in-process storage backend. Records live in a map
// guarded by a RWMutex; reads copy them out so callers get snapshots.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

// Codec tells a Collection how to handle a record type.
type Codec[T any] struct {
	ID    func(T) int64
	SetID func(T, int64) T
	Clone func(T) T
	// Keys, when set, lists the multi-key index entries of a record.
	Keys func(T) []string
}

type Collection[T any] struct {
	mu     sync.RWMutex
	name   string
	codec  Codec[T]
	nextID int64
	order  []int64 // insertion order
	items  map[int64]T
	index  map[string]map[int64]struct{}
}

func New[T any](name string, codec Codec[T]) *Collection[T] {
	c := &Collection[T]{
		name:  name,
		codec: codec,
		items: make(map[int64]T),
	}
	if codec.Keys != nil {
		c.index = make(map[string]map[int64]struct{})
	}
	return c
}

// Expenses is the in-memory expense collection.
type Expenses struct {
	*Collection[core.Expense]
}

func NewExpenses() *Expenses {
	return &Expenses{New(storage.ExpensesCollection, Codec[core.Expense]{
		ID:    func(e core.Expense) int64 { return e.ID },
		SetID: func(e core.Expense, id int64) core.Expense { e.ID = id; return e },
		Clone: core.Expense.Clone,
	})}
}

// Budgets is the in-memory budget collection with a multi-key tag index.
type Budgets struct {
	*Collection[core.Budget]
}

func NewBudgets() *Budgets {
	return &Budgets{New(storage.BudgetsCollection, Codec[core.Budget]{
		ID:    func(b core.Budget) int64 { return b.ID },
		SetID: func(b core.Budget, id int64) core.Budget { b.ID = id; return b },
		Clone: core.Budget.Clone,
		Keys:  func(b core.Budget) []string { return b.Tags.Values() },
	})}
}

// FindByTag implements storage.BudgetStore.
func (b *Budgets) FindByTag(ctx context.Context, tag string) ([]core.Budget, error) {
	return b.FindByKey(ctx, tag)
}

var (
	_ storage.ExpenseStore = (*Expenses)(nil)
	_ storage.BudgetStore  = (*Budgets)(nil)
)

// Insert stores a copy of record under a fresh identity.
func (c *Collection[T]) Insert(ctx context.Context, record T) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, core.WrapStorage("insert "+c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.insertLocked(record), nil
}

// InsertBulk stores all records atomically with respect to readers.
func (c *Collection[T]) InsertBulk(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return core.WrapStorage("bulk insert "+c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range records {
		c.insertLocked(r)
	}
	return nil
}

func (c *Collection[T]) insertLocked(record T) int64 {
	c.nextID++
	id := c.nextID
	record = c.codec.SetID(c.codec.Clone(record), id)
	c.items[id] = record
	c.order = append(c.order, id)
	c.addKeysLocked(id, record)
	return id
}

func (c *Collection[T]) FindByID(ctx context.Context, id int64) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, core.WrapStorage("find "+c.name, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.items[id]
	if !ok {
		return zero, c.notFound(id)
	}
	return c.codec.Clone(r), nil
}

// FindAll returns every record in insertion order.
func (c *Collection[T]) FindAll(ctx context.Context) ([]T, error) {
	return c.Find(ctx, nil)
}

// Find returns the records accepted by match, in insertion order. A nil
// match accepts everything.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.WrapStorage("find "+c.name, err)
	}
	c.mu.RLock()
	snapshot := make([]T, 0, len(c.order))
	for _, id := range c.order {
		snapshot = append(snapshot, c.codec.Clone(c.items[id]))
	}
	c.mu.RUnlock()

	if match == nil {
		return snapshot, nil
	}
	out := snapshot[:0]
	for _, r := range snapshot {
		if match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindByKey returns the records indexed under key, in insertion order.
func (c *Collection[T]) FindByKey(ctx context.Context, key string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.WrapStorage("find "+c.name, err)
	}
	if c.index == nil {
		return nil, fmt.Errorf("%s has no multi-key index", c.name)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := c.index[key]
	out := make([]T, 0, len(ids))
	for _, id := range c.order {
		if _, ok := ids[id]; ok {
			out = append(out, c.codec.Clone(c.items[id]))
		}
	}
	return out, nil
}

// Update overwrites every field of the stored record with the same identity.
func (c *Collection[T]) Update(ctx context.Context, record T) error {
	if err := ctx.Err(); err != nil {
		return core.WrapStorage("update "+c.name, err)
	}
	id := c.codec.ID(record)
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.items[id]
	if !ok {
		return c.notFound(id)
	}
	c.removeKeysLocked(id, old)
	record = c.codec.Clone(record)
	c.items[id] = record
	c.addKeysLocked(id, record)
	return nil
}

func (c *Collection[T]) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return core.WrapStorage("delete "+c.name, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	old, ok := c.items[id]
	if !ok {
		return c.notFound(id)
	}
	c.removeKeysLocked(id, old)
	delete(c.items, id)
	if i := slices.Index(c.order, id); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return nil
}

func (c *Collection[T]) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, core.WrapStorage("count "+c.name, err)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items), nil
}

func (c *Collection[T]) addKeysLocked(id int64, record T) {
	if c.index == nil {
		return
	}
	for _, k := range c.codec.Keys(record) {
		ids, ok := c.index[k]
		if !ok {
			ids = make(map[int64]struct{})
			c.index[k] = ids
		}
		ids[id] = struct{}{}
	}
}

func (c *Collection[T]) removeKeysLocked(id int64, record T) {
	if c.index == nil {
		return
	}
	for _, k := range c.codec.Keys(record) {
		delete(c.index[k], id)
		if len(c.index[k]) == 0 {
			delete(c.index, k)
		}
	}
}

func (c *Collection[T]) notFound(id int64) error {
	return fmt.Errorf("%s %d: %w", c.name, id, core.ErrNotFound)
}
