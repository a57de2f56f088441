package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gallery/internal/entity"
	"gallery/pkg/metric"
	"gallery/pkg/storage/postgres"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const _customersTable = "customers"

var _customerColumns = []string{
	"customer_id", "first_name", "last_name", "email", "phone", "address",
}

type CustomerRepository struct {
	base
}

func NewCustomerRepository(db *postgres.Postgres, metrics metric.Storage) *CustomerRepository {
	return &CustomerRepository{base{db: db, metrics: metrics}}
}

func (r *CustomerRepository) List(ctx context.Context) (customers []*entity.Customer, err error) {
	const op = "repository.customer.List"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_customerColumns...).
		From(_customersTable).
		OrderBy("last_name", "first_name")

	return queryAll(ctx, r.db, op, query, scanCustomer)
}

// ListByAddress returns customers whose address contains substr.
func (r *CustomerRepository) ListByAddress(
	ctx context.Context,
	substr string,
) (customers []*entity.Customer, err error) {
	const op = "repository.customer.ListByAddress"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_customerColumns...).
		From(_customersTable).
		Where(squirrel.Like{"address": containsPattern(substr)}).
		OrderBy("last_name", "first_name")

	return queryAll(ctx, r.db, op, query, scanCustomer)
}

func (r *CustomerRepository) GetByID(
	ctx context.Context,
	id string,
) (customer *entity.Customer, err error) {
	const op = "repository.customer.GetByID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Select(_customerColumns...).
		From(_customersTable).
		Where(squirrel.Eq{"customer_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	customer, err = scanCustomer(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return customer, nil
}

func (r *CustomerRepository) Exists(ctx context.Context, id string) (found bool, err error) {
	const op = "repository.customer.Exists"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return exists(ctx, r.db, op, _customersTable, "customer_id", id)
}

func (r *CustomerRepository) Create(
	ctx context.Context,
	customer *entity.Customer,
) (created *entity.Customer, err error) {
	const op = "repository.customer.Create"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Insert(_customersTable).
		Columns(_customerColumns...).
		Values(
			customer.ID,
			customer.FirstName,
			customer.LastName,
			customer.Email,
			customer.Phone,
			customer.Address,
		).
		Suffix(returning(_customerColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	created, err = scanCustomer(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, writeError(op, err)
	}
	return created, nil
}

func (r *CustomerRepository) Update(
	ctx context.Context,
	customer *entity.Customer,
) (updated *entity.Customer, err error) {
	const op = "repository.customer.Update"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Update(_customersTable).
		Set("first_name", customer.FirstName).
		Set("last_name", customer.LastName).
		Set("email", customer.Email).
		Set("phone", customer.Phone).
		Set("address", customer.Address).
		Where(squirrel.Eq{"customer_id": customer.ID}).
		Suffix(returning(_customerColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	updated, err = scanCustomer(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, writeError(op, err)
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id string,
) (err error) {
	const op = "repository.customer.Delete"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	affected, err := deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _customersTable,
		squirrel.Eq{"customer_id": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDataNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	customer := &entity.Customer{}
	err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.Address,
	)
	if err != nil {
		return nil, err
	}
	return customer, nil
}
