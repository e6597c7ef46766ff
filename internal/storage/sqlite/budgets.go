package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
)

const budgetColumns = `b.id, b.category, b."limit", b.month`

// Budgets implements storage.BudgetStore. Tags live in budget_tags, one row
// per tag, which makes the tag index a multi-key index.
type Budgets struct {
	db *sql.DB
}

var _ storage.BudgetStore = (*Budgets)(nil)

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b            core.Budget
		limit, month string
	)
	if err := row.Scan(&b.ID, &b.Category, &limit, &month); err != nil {
		return core.Budget{}, err
	}
	l, err := decimal.NewFromString(limit)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %d: corrupt limit: %w", b.ID, err)
	}
	m, err := core.ParseMonth(month)
	if err != nil {
		return core.Budget{}, fmt.Errorf("budget %d: corrupt month: %w", b.ID, err)
	}
	b.Limit, b.Month = l, m
	return b, nil
}

func insertBudget(ctx context.Context, tx *sql.Tx, b core.Budget) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO budgets (category, "limit", month) VALUES (?, ?, ?)`,
		b.Category, b.Limit.String(), b.Month.String())
	if err != nil {
		return 0, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, insertTags(ctx, tx, id, b.Tags)
}

func insertTags(ctx context.Context, tx *sql.Tx, id int64, tags core.TagSet) error {
	for pos, tag := range tags.Values() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO budget_tags (budget_id, position, tag) VALUES (?, ?, ?)`, id, pos, tag); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}
	return nil
}

// queryBudgets runs a budget query and attaches tags read by tagQuery. Both
// queries run inside tx so the budgets and their tags come from one snapshot.
func queryBudgets(ctx context.Context, tx *sql.Tx, query, tagQuery string, args ...any) ([]core.Budget, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query budgets: %w", err)
	}
	var (
		out   []core.Budget
		index = map[int64]int{}
	)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		index[b.ID] = len(out)
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}

	tagRows, err := tx.QueryContext(ctx, tagQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var (
			id  int64
			tag string
		)
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			out[i].Tags = out[i].Tags.With(tag)
		}
	}
	return out, tagRows.Err()
}

func (s *Budgets) Insert(ctx context.Context, b core.Budget) (int64, error) {
	var id int64
	err := withTx(ctx, s.db, "insert budget", func(tx *sql.Tx) error {
		var err error
		id, err = insertBudget(ctx, tx, b)
		return err
	})
	if err != nil {
		return 0, err
	}

	slog.DebugContext(ctx, "Budget saved to SQLite",
		"component", "storage",
		"id", id,
		"category", b.Category,
		"tags", b.Tags.Len())

	return id, nil
}

func (s *Budgets) InsertBulk(ctx context.Context, budgets []core.Budget) error {
	return withTx(ctx, s.db, "bulk insert budgets", func(tx *sql.Tx) error {
		for _, b := range budgets {
			if _, err := insertBudget(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Budgets) FindByID(ctx context.Context, id int64) (core.Budget, error) {
	var found []core.Budget
	err := withTx(ctx, s.db, "find budget", func(tx *sql.Tx) error {
		var err error
		found, err = queryBudgets(ctx, tx,
			`SELECT `+budgetColumns+` FROM budgets b WHERE b.id = ?`,
			`SELECT budget_id, tag FROM budget_tags WHERE budget_id = ? ORDER BY position`,
			id)
		return err
	})
	if err != nil {
		return core.Budget{}, err
	}
	if len(found) == 0 {
		return core.Budget{}, notFound(storage.BudgetsCollection, id)
	}
	return found[0], nil
}

// FindAll returns every budget in insertion (id) order.
func (s *Budgets) FindAll(ctx context.Context) ([]core.Budget, error) {
	var all []core.Budget
	err := withTx(ctx, s.db, "list budgets", func(tx *sql.Tx) error {
		var err error
		all, err = queryBudgets(ctx, tx,
			`SELECT `+budgetColumns+` FROM budgets b ORDER BY b.id`,
			`SELECT budget_id, tag FROM budget_tags ORDER BY budget_id, position`)
		return err
	})
	return all, err
}

func (s *Budgets) Find(ctx context.Context, match func(core.Budget) bool) ([]core.Budget, error) {
	all, err := s.FindAll(ctx)
	if err != nil || match == nil {
		return all, err
	}
	out := make([]core.Budget, 0, len(all))
	for _, b := range all {
		if match(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

// FindByTag looks budgets up through idx_budget_tags_tag. Matching is
// case-sensitive (BINARY collation).
func (s *Budgets) FindByTag(ctx context.Context, tag string) ([]core.Budget, error) {
	var found []core.Budget
	err := withTx(ctx, s.db, "find budgets by tag", func(tx *sql.Tx) error {
		var err error
		found, err = queryBudgets(ctx, tx,
			`SELECT `+budgetColumns+` FROM budgets b
			 JOIN budget_tags t ON t.budget_id = b.id
			 WHERE t.tag = ? ORDER BY b.id`,
			`SELECT budget_id, tag FROM budget_tags
			 WHERE budget_id IN (SELECT budget_id FROM budget_tags WHERE tag = ?)
			 ORDER BY budget_id, position`,
			tag)
		return err
	})
	return found, err
}

func (s *Budgets) Update(ctx context.Context, b core.Budget) error {
	return withTx(ctx, s.db, "update budget", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE budgets SET category = ?, "limit" = ?, month = ? WHERE id = ?`,
			b.Category, b.Limit.String(), b.Month.String(), b.ID)
		if err != nil {
			return fmt.Errorf("update budget: %w", err)
		}
		if err := checkAffected(res, storage.BudgetsCollection, b.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_tags WHERE budget_id = ?`, b.ID); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		return insertTags(ctx, tx, b.ID, b.Tags)
	})
}

func (s *Budgets) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, "delete budget", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM budget_tags WHERE budget_id = ?`, id); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete budget: %w", err)
		}
		return checkAffected(res, storage.BudgetsCollection, id)
	})
}

func (s *Budgets) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM budgets`).Scan(&n); err != nil {
		return 0, core.WrapStorage("count budgets", err)
	}
	return n, nil
}
