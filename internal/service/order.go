package service

import (
	"context"
	"fmt"

	"gallery/internal/entity"
	"gallery/pkg/logger"
	"gallery/pkg/storage/postgres"
	"gallery/pkg/storage/postgres/transaction"

	"github.com/google/uuid"
)

type OrderService struct {
	repo     OrderRepository
	lineRepo ArtworkInOrderRepository
	cascade  cascade
	logger   logger.Logger
}

func NewOrderService(
	repo OrderRepository,
	lineRepo ArtworkInOrderRepository,
	txManager transaction.Manager,
	log logger.Logger,
) *OrderService {
	return &OrderService{
		repo:     repo,
		lineRepo: lineRepo,
		cascade:  cascade{txManager: txManager},
		logger:   log,
	}
}

func (s *OrderService) List(ctx context.Context) (orders []*entity.Order, err error) {
	const op = "service.order.List"
	defer trace(ctx, s.logger, op)(&err)

	orders, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ListAfter returns orders placed strictly after date.
func (s *OrderService) ListAfter(
	ctx context.Context,
	date entity.Date,
) (orders []*entity.Order, err error) {
	const op = "service.order.ListAfter"
	defer trace(ctx, s.logger, op, logger.String("after", date.String()))(&err)

	orders, err = s.repo.ListAfter(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ListDetailed returns every order with its customer, line items and totals,
// in ascending order id.
func (s *OrderService) ListDetailed(
	ctx context.Context,
) (orders []*entity.DetailedOrder, err error) {
	const op = "service.order.ListDetailed"
	defer trace(ctx, s.logger, op)(&err)

	rows, err := s.repo.ListDetailedRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	orders, err = AggregateOrders(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.logger.LogAttrs(ctx, logger.DebugLevel, "orders aggregated",
		logger.String("op", op),
		logger.Int("rows", len(rows)),
		logger.Int("orders", len(orders)),
	)
	return orders, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (order *entity.Order, err error) {
	const op = "service.order.Get"
	defer trace(ctx, s.logger, op, logger.String("id_order", id))(&err)

	order, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}

// Create stores order under a freshly generated id. Any id set by the caller
// is discarded.
func (s *OrderService) Create(
	ctx context.Context,
	order *entity.Order,
) (created *entity.Order, err error) {
	const op = "service.order.Create"

	record := *order
	record.ID = uuid.NewString()
	defer trace(ctx, s.logger, op, logger.String("id_order", record.ID))(&err)

	created, err = s.repo.Create(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update replaces the customer and date of the order stored under id.
func (s *OrderService) Update(
	ctx context.Context,
	id string,
	order *entity.Order,
) (updated *entity.Order, err error) {
	const op = "service.order.Update"
	defer trace(ctx, s.logger, op, logger.String("id_order", id))(&err)

	found, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: exists: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}

	record := *order
	record.ID = id
	updated, err = s.repo.Update(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes the lines of the order, then the order itself.
func (s *OrderService) Delete(ctx context.Context, id string) (err error) {
	const op = "service.order.Delete"
	defer trace(ctx, s.logger, op, logger.String("id_order", id))(&err)

	err = s.cascade.run(ctx, "DeleteOrder", func(queryExecuter postgres.QueryExecuter) error {
		lines, err := s.lineRepo.DeleteByOrderID(ctx, queryExecuter, id)
		if err != nil {
			return transaction.HandleError("DeleteOrder", "delete order lines", err)
		}
		s.logger.LogAttrs(ctx, logger.DebugLevel, "order lines removed",
			logger.String("op", op),
			logger.String("id_order", id),
			logger.Int64("lines", lines),
		)

		if err = s.repo.Delete(ctx, queryExecuter, id); err != nil {
			return transaction.HandleError("DeleteOrder", "delete order", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
