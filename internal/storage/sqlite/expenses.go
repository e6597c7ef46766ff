package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

const expenseColumns = `id, date, amount, category, description`

// Expenses implements storage.ExpenseStore.
type Expenses struct {
	db *sql.DB
}

var _ storage.ExpenseStore = (*Expenses)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e            core.Expense
		date, amount string
	)
	if err := row.Scan(&e.ID, &date, &amount, &e.Category, &e.Description); err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: corrupt date: %w", e.ID, err)
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: corrupt amount: %w", e.ID, err)
	}
	e.Date, e.Amount = d, a
	return e, nil
}

func (s *Expenses) Insert(ctx context.Context, e core.Expense) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (date, amount, category, description) VALUES (?, ?, ?, ?)`,
		e.Date.String(), e.Amount.String(), e.Category, e.Description)
	if err != nil {
		return 0, core.WrapStorage("insert expense", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, core.WrapStorage("insert expense", fmt.Errorf("last insert id: %w", err))
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"component", "storage",
		"id", id,
		"category", e.Category,
		"amount", e.Amount.String())

	return id, nil
}

func (s *Expenses) InsertBulk(ctx context.Context, expenses []core.Expense) error {
	return withTx(ctx, s.db, "bulk insert expenses", func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO expenses (date, amount, category, description) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, e := range expenses {
			if _, err := stmt.ExecContext(ctx, e.Date.String(), e.Amount.String(), e.Category, e.Description); err != nil {
				return fmt.Errorf("insert expense: %w", err)
			}
		}
		return nil
	})
}

func (s *Expenses) FindByID(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, notFound(storage.ExpensesCollection, id)
	}
	if err != nil {
		return core.Expense{}, core.WrapStorage("find expense", err)
	}
	return e, nil
}

// FindAll returns every expense in insertion (id) order.
func (s *Expenses) FindAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+expenseColumns+` FROM expenses ORDER BY id`)
	if err != nil {
		return nil, core.WrapStorage("list expenses", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, core.WrapStorage("list expenses", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapStorage("list expenses", err)
	}
	return out, nil
}

func (s *Expenses) Find(ctx context.Context, match func(core.Expense) bool) ([]core.Expense, error) {
	all, err := s.FindAll(ctx)
	if err != nil || match == nil {
		return all, err
	}
	out := make([]core.Expense, 0, len(all))
	for _, e := range all {
		if match(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Expenses) Update(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, amount = ?, category = ?, description = ? WHERE id = ?`,
		e.Date.String(), e.Amount.String(), e.Category, e.Description, e.ID)
	if err != nil {
		return core.WrapStorage("update expense", err)
	}
	return core.WrapStorage("update expense", checkAffected(res, storage.ExpensesCollection, e.ID))
}

func (s *Expenses) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return core.WrapStorage("delete expense", err)
	}
	return core.WrapStorage("delete expense", checkAffected(res, storage.ExpensesCollection, id))
}

func (s *Expenses) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM expenses`).Scan(&n); err != nil {
		return 0, core.WrapStorage("count expenses", err)
	}
	return n, nil
}
