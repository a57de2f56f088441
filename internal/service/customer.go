package service

import (
	"context"
	"fmt"

	"gallery/internal/entity"
	"gallery/pkg/logger"

	"github.com/google/uuid"
)

type CustomerService struct {
	repo   CustomerRepository
	logger logger.Logger
}

func NewCustomerService(repo CustomerRepository, log logger.Logger) *CustomerService {
	return &CustomerService{
		repo:   repo,
		logger: log,
	}
}

func (s *CustomerService) List(ctx context.Context) (customers []*entity.Customer, err error) {
	const op = "service.customer.List"
	defer trace(ctx, s.logger, op)(&err)

	customers, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

// ListByAddress returns customers whose address contains substr.
func (s *CustomerService) ListByAddress(
	ctx context.Context,
	substr string,
) (customers []*entity.Customer, err error) {
	const op = "service.customer.ListByAddress"
	defer trace(ctx, s.logger, op, logger.String("address", substr))(&err)

	customers, err = s.repo.ListByAddress(ctx, substr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

func (s *CustomerService) Get(
	ctx context.Context,
	id string,
) (customer *entity.Customer, err error) {
	const op = "service.customer.Get"
	defer trace(ctx, s.logger, op, logger.String("customer_id", id))(&err)

	customer, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customer, nil
}

// Create stores customer under a freshly generated id. Any id set by the caller
// is discarded.
func (s *CustomerService) Create(
	ctx context.Context,
	customer *entity.Customer,
) (created *entity.Customer, err error) {
	const op = "service.customer.Create"

	record := *customer
	record.ID = uuid.NewString()
	defer trace(ctx, s.logger, op, logger.String("customer_id", record.ID))(&err)

	created, err = s.repo.Create(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

func (s *CustomerService) Update(
	ctx context.Context,
	id string,
	customer *entity.Customer,
) (updated *entity.Customer, err error) {
	const op = "service.customer.Update"
	defer trace(ctx, s.logger, op, logger.String("customer_id", id))(&err)

	found, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: exists: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}

	record := *customer
	record.ID = id
	updated, err = s.repo.Update(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) (err error) {
	const op = "service.customer.Delete"
	defer trace(ctx, s.logger, op, logger.String("customer_id", id))(&err)

	if err = s.repo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
