// Package repository implements sqlite persistence for the ledger
// entities. Repositories run against the pooled connection by default;
// command handlers that need all-or-nothing semantics attach a
// transaction to the context with WithTx and every call inside the unit
// picks it up.
package repository

import (
	"context"
	"database/sql"
	"time"
)

type contextKey string

const txKey = contextKey("tx")

// executor abstracts *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WithTx returns a context carrying tx; repository calls made with it
// execute inside that transaction.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

func executorFrom(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(txKey).(*sql.Tx); ok {
		return tx
	}
	return db
}

// dateLayout is the canonical menu_date column format.
const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func parseDate(s string) time.Time {
	t, _ := time.Parse(dateLayout, s)
	return t
}
