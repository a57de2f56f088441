package transaction

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"gallery/pkg/logger"
	"gallery/pkg/metric"
	"gallery/pkg/storage/postgres"

	"github.com/jackc/pgx/v5"
)

const (
	_defaultMaxAttempts    = 3
	_defaultBaseRetryDelay = 10 * time.Millisecond
	_defaultMaxRetryDelay  = 100 * time.Millisecond

	_backoffMultiplier = 2
)

//go:generate mockgen -source=manager.go -destination=mock/manager_mock.go -package=mock_transaction

type Manager interface {
	ExecuteInTransaction(
		ctx context.Context,
		operation string,
		fn func(tx postgres.QueryExecuter) error,
	) error
}

type manager struct {
	db      *postgres.Postgres
	log     logger.Logger
	metrics metric.Transaction

	maxAttempts    int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
}

func NewManager(
	db *postgres.Postgres,
	log logger.Logger,
	metrics metric.Transaction,
	opts ...Option,
) (Manager, error) {
	tm := &manager{
		db:      db,
		log:     log,
		metrics: metrics,

		maxAttempts:    _defaultMaxAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
	}

	for _, opt := range opts {
		opt(tm)
	}
	if err := tm.validate(); err != nil {
		return nil, fmt.Errorf("storage.postgres.transaction.NewManager: %w", err)
	}

	return tm, nil
}

// ExecuteInTransaction runs fn in a read-committed transaction and commits
// when fn returns nil. Serialization failures, deadlocks and dropped
// connections are retried with jittered backoff; anything else is returned
// as is.
func (tm *manager) ExecuteInTransaction(
	ctx context.Context,
	operation string,
	fn func(tx postgres.QueryExecuter) error,
) error {
	const op = "storage.postgres.transaction.ExecuteInTransaction"

	return tm.withRetry(ctx, operation, func() error {
		tx, err := tm.db.Pool.BeginTx(ctx, pgx.TxOptions{
			IsoLevel:   pgx.ReadCommitted,
			AccessMode: pgx.ReadWrite,
		})
		if err != nil {
			return fmt.Errorf("%s: begin tx: %w", op, err)
		}
		defer tm.safelyRollback(ctx, tx, operation)

		if err = fn(&postgres.TxQueryExecuter{Tx: tx}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err = tx.Commit(ctx); err != nil {
			return fmt.Errorf("%s: commit: %w", op, err)
		}
		return nil
	})
}

func (tm *manager) safelyRollback(ctx context.Context, tx pgx.Tx, operation string) {
	const op = "storage.postgres.transaction.safelyRollback"

	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		tm.log.LogAttrs(ctx, logger.ErrorLevel, "rollback failed",
			logger.String("operation", op),
			logger.String("transaction", operation),
			logger.Err(err),
		)
	}
}

func (tm *manager) withRetry(ctx context.Context, operation string, fn func() error) (err error) {
	const op = "storage.postgres.transaction.withRetry"

	attempt := 0
	defer func(start time.Time) {
		tm.metrics.Observe(operation, time.Since(start), attempt, err)
	}(time.Now())

	currentBackoff := tm.baseRetryDelay
	for attempt = 1; ; attempt++ {
		err = fn()
		if err == nil || !isRetryableError(err) {
			return err
		}
		if attempt == tm.maxAttempts {
			return fmt.Errorf("%s: max attempts (%d) exceeded for %s: %w",
				op, tm.maxAttempts, operation, err)
		}

		jitter := time.Duration(rand.Int64N(int64(currentBackoff * _backoffMultiplier)))
		if jitter > tm.maxRetryDelay {
			jitter = tm.maxRetryDelay
		}

		tm.log.LogAttrs(ctx, logger.WarnLevel, "retrying transaction",
			logger.String("operation", op),
			logger.String("transaction", operation),
			logger.Int("attempt", attempt),
			logger.Int("max_attempts", tm.maxAttempts),
			logger.Duration("retry_after", jitter),
			logger.Err(err),
		)

		timer := time.NewTimer(jitter)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%s: context canceled: %w", op, ctx.Err())
		}

		currentBackoff = min(currentBackoff*_backoffMultiplier, tm.maxRetryDelay)
	}
}

// HandleError tags err with the transaction and the step that produced it.
func HandleError(operation, step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %s: %w", operation, step, err)
}

func isRetryableError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	switch postgres.ErrorCode(err) {
	case "":
		return errors.Is(err, pgx.ErrTxClosed)
	case postgres.CodeSerializationFailure, postgres.CodeDeadlockDetected:
		return true
	}
	return postgres.IsConnectionException(err)
}
