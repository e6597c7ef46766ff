// Package sqlite is the file-backed storage backend. Expenses and budgets live
// in one SQLite database whose schema is managed by embedded migrations.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expensetracker/internal/core"

	_ "modernc.org/sqlite"
)

// DB owns the connection shared by the expense and budget collections.
type DB struct {
	db       *sql.DB
	path     string
	Expenses *Expenses
	Budgets  *Budgets
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite has a single writer; one connection also gives every read
	// transaction a consistent view.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	d := &DB{db: db, path: dbPath}
	d.Expenses = &Expenses{db: db}
	d.Budgets = &Budgets{db: db}

	slog.Debug("SQLite database ready", "component", "storage", "path", dbPath)
	return d, nil
}

func (d *DB) Path() string {
	return d.path
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func withTx(ctx context.Context, db *sql.DB, op string, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return core.WrapStorage(op, fmt.Errorf("begin transaction: %w", err))
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return core.WrapStorage(op, err)
	}
	if err := tx.Commit(); err != nil {
		return core.WrapStorage(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

func notFound(collection string, id int64) error {
	return fmt.Errorf("%s %d: %w", collection, id, core.ErrNotFound)
}

func checkAffected(res sql.Result, collection string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound(collection, id)
	}
	return nil
}
