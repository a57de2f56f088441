package postgres

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"gallery/internal/config"
	"gallery/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	_defaultMaxPoolSize    = 100
	_defaultConnAttempts   = 10
	_defaultBaseRetryDelay = 100 * time.Millisecond
	_defaultMaxRetryDelay  = 5 * time.Second
	_defaultPingTimeout    = 2 * time.Second

	_backoffMultiplier = 2
)

// Pool is the subset of *pgxpool.Pool the gateway relies on.
type Pool interface {
	QueryExecuter
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Postgres struct {
	Builder squirrel.StatementBuilderType
	Pool    Pool

	connAttempts   int
	baseRetryDelay time.Duration
	maxRetryDelay  time.Duration
	maxPoolSize    int32
}

func NewPostgres(cfg *config.Postgres, log logger.Logger, opts ...Option) (*Postgres, error) {
	const op = "storage.postgres.NewPostgres"

	pg := &Postgres{
		Builder:        newBuilder(),
		connAttempts:   _defaultConnAttempts,
		baseRetryDelay: _defaultBaseRetryDelay,
		maxRetryDelay:  _defaultMaxRetryDelay,
		maxPoolSize:    _defaultMaxPoolSize,
	}

	for _, opt := range opts {
		opt(pg)
	}
	if err := pg.validate(); err != nil {
		return nil, fmt.Errorf("%s: validation: %w", op, err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%s: parse pool config: %w", op, err)
	}
	poolConfig.MaxConns = pg.maxPoolSize

	currentBackoff := pg.baseRetryDelay
	for attempt := 1; attempt <= pg.connAttempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = connect(poolConfig)
		if err == nil {
			pg.Pool = pool
			return pg, nil
		}

		if attempt == pg.connAttempts {
			break
		}

		jitter := time.Duration(
			rand.Int64N(int64(currentBackoff * _backoffMultiplier)),
		)
		if jitter > pg.maxRetryDelay {
			jitter = pg.maxRetryDelay
		}

		log.Infow("PostgreSQL connection attempt failed",
			"operation", op,
			"attempt", attempt,
			"retry_after", jitter.String(),
			"error", err,
		)

		time.Sleep(jitter)

		currentBackoff = min(currentBackoff*_backoffMultiplier, pg.maxRetryDelay)
	}

	return nil, fmt.Errorf("%s: connect after %d attempts: %w", op, pg.connAttempts, err)
}

// NewWithPool wraps an already opened pool.
func NewWithPool(pool Pool) *Postgres {
	return &Postgres{
		Builder: newBuilder(),
		Pool:    pool,
	}
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

func connect(poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), _defaultPingTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}

	// pgxpool connects lazily; ping so a dead server fails here.
	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
