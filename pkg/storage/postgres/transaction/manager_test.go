package transaction_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"gallery/pkg/logger"
	"gallery/pkg/metric"
	"gallery/pkg/storage/postgres"
	"gallery/pkg/storage/postgres/transaction"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const _deleteLines = "DELETE FROM artworks_in_order WHERE id_order = $1"

var _txOptions = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}

func newManager(t *testing.T, opts ...transaction.Option) (pgxmock.PgxPoolIface, transaction.Manager) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})

	opts = append([]transaction.Option{transaction.RetryDelays(time.Millisecond, 2*time.Millisecond)}, opts...)
	tm, err := transaction.NewManager(postgres.NewWithPool(mock), logger.NewNop(),
		metric.NewFactory().Transaction(), opts...)
	require.NoError(t, err)
	return mock, tm
}

func deleteLines(ctx context.Context) func(tx postgres.QueryExecuter) error {
	return func(tx postgres.QueryExecuter) error {
		_, err := tx.Exec(ctx, _deleteLines, "o1")
		return err
	}
}

func TestExecuteInTransaction_Commits(t *testing.T) {
	t.Parallel()

	mock, tm := newManager(t)
	ctx := context.Background()

	mock.ExpectBeginTx(_txOptions)
	mock.ExpectExec(regexp.QuoteMeta(_deleteLines)).
		WithArgs("o1").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, tm.ExecuteInTransaction(ctx, "DeleteOrder", deleteLines(ctx)))
}

func TestExecuteInTransaction_RollsBackOnError(t *testing.T) {
	t.Parallel()

	mock, tm := newManager(t)
	ctx := context.Background()
	stepErr := errors.New("order is locked")

	mock.ExpectBeginTx(_txOptions)
	mock.ExpectRollback()

	err := tm.ExecuteInTransaction(ctx, "DeleteOrder", func(postgres.QueryExecuter) error {
		return stepErr
	})
	require.ErrorIs(t, err, stepErr)
}

func TestExecuteInTransaction_RetriesSerializationFailure(t *testing.T) {
	t.Parallel()

	mock, tm := newManager(t)
	ctx := context.Background()

	conflict := &pgconn.PgError{Code: postgres.CodeSerializationFailure}

	mock.ExpectBeginTx(_txOptions)
	mock.ExpectExec(regexp.QuoteMeta(_deleteLines)).WithArgs("o1").WillReturnError(conflict)
	mock.ExpectRollback()

	mock.ExpectBeginTx(_txOptions)
	mock.ExpectExec(regexp.QuoteMeta(_deleteLines)).
		WithArgs("o1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	require.NoError(t, tm.ExecuteInTransaction(ctx, "DeleteOrder", deleteLines(ctx)))
}

func TestExecuteInTransaction_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	mock, tm := newManager(t, transaction.MaxAttempts(2))
	ctx := context.Background()

	deadlock := &pgconn.PgError{Code: postgres.CodeDeadlockDetected}
	for range 2 {
		mock.ExpectBeginTx(_txOptions)
		mock.ExpectExec(regexp.QuoteMeta(_deleteLines)).WithArgs("o1").WillReturnError(deadlock)
		mock.ExpectRollback()
	}

	err := tm.ExecuteInTransaction(ctx, "DeleteOrder", deleteLines(ctx))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max attempts (2) exceeded for DeleteOrder")

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, postgres.CodeDeadlockDetected, pgErr.Code)
}

func TestExecuteInTransaction_BeginFails(t *testing.T) {
	t.Parallel()

	mock, tm := newManager(t)
	beginErr := errors.New("pool closed")

	mock.ExpectBeginTx(_txOptions).WillReturnError(beginErr)

	err := tm.ExecuteInTransaction(context.Background(), "DeleteArtwork", func(postgres.QueryExecuter) error {
		t.Fatal("callback must not run without a transaction")
		return nil
	})
	require.ErrorIs(t, err, beginErr)
	assert.Contains(t, err.Error(), "begin tx")
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	db := postgres.NewWithPool(mock)

	testCases := []struct {
		desc string
		db   *postgres.Postgres
		opts []transaction.Option
	}{
		{desc: "NilDatabase"},
		{desc: "ZeroAttempts", db: db, opts: []transaction.Option{transaction.MaxAttempts(0)}},
		{
			desc: "BaseAboveMax",
			db:   db,
			opts: []transaction.Option{transaction.RetryDelays(time.Second, time.Millisecond)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			tm, err := transaction.NewManager(tc.db, logger.NewNop(), metric.NewFactory().Transaction(), tc.opts...)
			require.Error(t, err)
			assert.Nil(t, tm)
		})
	}
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	require.NoError(t, transaction.HandleError("DeleteOrder", "delete lines", nil))

	cause := errors.New("boom")
	err := transaction.HandleError("DeleteOrder", "delete lines", cause)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, "DeleteOrder: delete lines: boom", err.Error())
}
