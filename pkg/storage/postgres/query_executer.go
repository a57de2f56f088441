package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QueryExecuter is what repositories run statements on: the pool for
// standalone writes, a TxQueryExecuter for the steps of a cascading delete.
type QueryExecuter interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var (
	_ QueryExecuter = (*pgxpool.Pool)(nil)
	_ QueryExecuter = (*TxQueryExecuter)(nil)
	_ Pool          = (*pgxpool.Pool)(nil)
)

// TxQueryExecuter runs statements inside Tx. A zero value behaves like a
// closed transaction.
type TxQueryExecuter struct {
	Tx pgx.Tx
}

func (t *TxQueryExecuter) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	const op = "storage.postgres.TxQueryExecuter.Query"

	if t.Tx == nil {
		return nil, fmt.Errorf("%s: %w", op, pgx.ErrTxClosed)
	}
	rows, err := t.Tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func (t *TxQueryExecuter) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if t.Tx == nil {
		return closedRow{}
	}
	return t.Tx.QueryRow(ctx, sql, args...)
}

func (t *TxQueryExecuter) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	const op = "storage.postgres.TxQueryExecuter.Exec"

	if t.Tx == nil {
		return pgconn.CommandTag{}, fmt.Errorf("%s: %w", op, pgx.ErrTxClosed)
	}
	tag, err := t.Tx.Exec(ctx, sql, args...)
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("%s: %w", op, err)
	}
	return tag, nil
}

type closedRow struct{}

func (closedRow) Scan(...any) error {
	return pgx.ErrTxClosed
}
