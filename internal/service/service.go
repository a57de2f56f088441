package service

import (
	"context"
	"errors"
	"time"

	"gallery/internal/entity"
	"gallery/pkg/logger"
	"gallery/pkg/storage/postgres"
	"gallery/pkg/storage/postgres/transaction"
)

//go:generate mockgen -source=service.go -destination=mock/service_mock.go -package=mock_service

const _slowOperationThreshold = 200 * time.Millisecond

type (
	ArtistRepository interface {
		List(ctx context.Context) ([]*entity.Artist, error)
		ListBornAfter(ctx context.Context, year int) ([]*entity.Artist, error)
		GetByID(ctx context.Context, id string) (*entity.Artist, error)
		Exists(ctx context.Context, id string) (bool, error)
		Create(ctx context.Context, artist *entity.Artist) (*entity.Artist, error)
		Update(ctx context.Context, artist *entity.Artist) (*entity.Artist, error)
		Delete(ctx context.Context, queryExecuter postgres.QueryExecuter, id string) error
	}

	CustomerRepository interface {
		List(ctx context.Context) ([]*entity.Customer, error)
		ListByAddress(ctx context.Context, substr string) ([]*entity.Customer, error)
		GetByID(ctx context.Context, id string) (*entity.Customer, error)
		Exists(ctx context.Context, id string) (bool, error)
		Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
		Update(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
		Delete(ctx context.Context, queryExecuter postgres.QueryExecuter, id string) error
	}

	ArtworkRepository interface {
		List(ctx context.Context) ([]*entity.Artwork, error)
		ListByType(ctx context.Context, artType string) ([]*entity.Artwork, error)
		GetByID(ctx context.Context, id string) (*entity.Artwork, error)
		Exists(ctx context.Context, id string) (bool, error)
		Create(ctx context.Context, artwork *entity.Artwork) (*entity.Artwork, error)
		Update(ctx context.Context, artwork *entity.Artwork) (*entity.Artwork, error)
		Delete(ctx context.Context, queryExecuter postgres.QueryExecuter, id string) error
	}

	OrderRepository interface {
		List(ctx context.Context) ([]*entity.Order, error)
		ListAfter(ctx context.Context, date entity.Date) ([]*entity.Order, error)
		ListDetailedRows(ctx context.Context) ([]entity.DetailedOrderRow, error)
		GetByID(ctx context.Context, id string) (*entity.Order, error)
		Exists(ctx context.Context, id string) (bool, error)
		Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
		Update(ctx context.Context, order *entity.Order) (*entity.Order, error)
		Delete(ctx context.Context, queryExecuter postgres.QueryExecuter, id string) error
	}

	ArtworkInOrderRepository interface {
		List(ctx context.Context) ([]*entity.ArtworkInOrder, error)
		GetByID(ctx context.Context, id string) (*entity.ArtworkInOrder, error)
		Exists(ctx context.Context, id string) (bool, error)
		Create(ctx context.Context, line *entity.ArtworkInOrder) (*entity.ArtworkInOrder, error)
		Update(ctx context.Context, line *entity.ArtworkInOrder) (*entity.ArtworkInOrder, error)
		Delete(ctx context.Context, queryExecuter postgres.QueryExecuter, id string) error
		DeleteByOrderID(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			orderID string,
		) (int64, error)
		DeleteByArtworkID(
			ctx context.Context,
			queryExecuter postgres.QueryExecuter,
			artworkID string,
		) (int64, error)
	}
)

// cascade runs the statements of a two-step delete. Without a transaction
// manager each statement commits on its own and a failure in the second step
// leaves the first one applied.
type cascade struct {
	txManager transaction.Manager
}

func (c cascade) run(
	ctx context.Context,
	operation string,
	fn func(queryExecuter postgres.QueryExecuter) error,
) error {
	if c.txManager == nil {
		return fn(nil)
	}
	return c.txManager.ExecuteInTransaction(ctx, operation, fn)
}

// trace logs the outcome of op when the returned func is deferred with the
// address of the caller's named error.
func trace(
	ctx context.Context,
	log logger.Logger,
	op string,
	attrs ...logger.Attr,
) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		duration := time.Since(start)
		fields := make([]logger.Attr, 0, len(attrs)+3)
		fields = append(fields, logger.String("op", op), logger.Duration("duration", duration))
		fields = append(fields, attrs...)

		switch err := *errp; {
		case err == nil && duration > _slowOperationThreshold:
			log.LogAttrs(ctx, logger.WarnLevel, "slow service operation", fields...)
		case err == nil:
			log.LogAttrs(ctx, logger.DebugLevel, "service operation completed", fields...)
		case errors.Is(err, entity.ErrDataNotFound):
			log.LogAttrs(ctx, logger.InfoLevel, "record not found", fields...)
		default:
			log.LogAttrs(ctx, logger.ErrorLevel, "service operation failed",
				append(fields, logger.Err(err))...)
		}
	}
}
