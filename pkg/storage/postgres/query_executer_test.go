package postgres_test

import (
	"context"
	"testing"

	"gallery/pkg/storage/postgres"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxQueryExecuter_ZeroValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var tx postgres.TxQueryExecuter

	_, err := tx.Exec(ctx, "DELETE FROM orders WHERE id_order = $1", "o1")
	require.ErrorIs(t, err, pgx.ErrTxClosed)

	rows, err := tx.Query(ctx, "SELECT 1")
	require.ErrorIs(t, err, pgx.ErrTxClosed)
	assert.Nil(t, rows)

	var one int
	require.ErrorIs(t, tx.QueryRow(ctx, "SELECT 1").Scan(&one), pgx.ErrTxClosed)
}

func TestErrorCodes(t *testing.T) {
	t.Parallel()

	fk := &pgconn.PgError{Code: postgres.CodeForeignKeyViolation}
	assert.True(t, postgres.IsForeignKeyViolation(fk))
	assert.Equal(t, postgres.CodeForeignKeyViolation, postgres.ErrorCode(fk))

	lost := &pgconn.PgError{Code: "08006"}
	assert.True(t, postgres.IsConnectionException(lost))
	assert.False(t, postgres.IsForeignKeyViolation(lost))

	assert.Empty(t, postgres.ErrorCode(pgx.ErrNoRows))
}
