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
	"github.com/jackc/pgx/v5/pgtype"
)

const _ordersTable = "orders"

var _orderColumns = []string{"id_order", "id_customer", "order_date"}

// _detailedColumns must stay in step with scanDetailedRow.
var _detailedColumns = []string{
	"o.id_order",
	"o.order_date",
	"c.customer_id",
	"c.first_name",
	"c.last_name",
	"c.email",
	"c.phone",
	"c.address",
	"aio.id_artwork_in_order",
	"aio.id_artwork",
	"aio.amount",
	"a.title",
	"a.description",
	"a.year_created",
	"a.price",
	"a.id_artist",
	"a.art_type",
}

type OrderRepository struct {
	base
}

func NewOrderRepository(db *postgres.Postgres, metrics metric.Storage) *OrderRepository {
	return &OrderRepository{base{db: db, metrics: metrics}}
}

func (r *OrderRepository) List(ctx context.Context) (orders []*entity.Order, err error) {
	const op = "repository.order.List"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return queryAll(ctx, r.db, op, r.db.Builder.Select(_orderColumns...).From(_ordersTable), scanOrder)
}

// ListAfter returns orders placed strictly after date.
func (r *OrderRepository) ListAfter(
	ctx context.Context,
	date entity.Date,
) (orders []*entity.Order, err error) {
	const op = "repository.order.ListAfter"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_orderColumns...).
		From(_ordersTable).
		Where(squirrel.Gt{"order_date": date.Time})

	return queryAll(ctx, r.db, op, query, scanOrder)
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (order *entity.Order, err error) {
	const op = "repository.order.GetByID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Select(_orderColumns...).
		From(_ordersTable).
		Where(squirrel.Eq{"id_order": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	order, err = scanOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return order, nil
}

func (r *OrderRepository) Exists(ctx context.Context, id string) (found bool, err error) {
	const op = "repository.order.Exists"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return exists(ctx, r.db, op, _ordersTable, "id_order", id)
}

func (r *OrderRepository) Create(
	ctx context.Context,
	order *entity.Order,
) (created *entity.Order, err error) {
	const op = "repository.order.Create"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Insert(_ordersTable).
		Columns(_orderColumns...).
		Values(order.ID, order.CustomerID, order.OrderDate.Time).
		Suffix(returning(_orderColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	created, err = scanOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, writeError(op, err)
	}
	return created, nil
}

func (r *OrderRepository) Update(
	ctx context.Context,
	order *entity.Order,
) (updated *entity.Order, err error) {
	const op = "repository.order.Update"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Update(_ordersTable).
		Set("id_customer", order.CustomerID).
		Set("order_date", order.OrderDate.Time).
		Where(squirrel.Eq{"id_order": order.ID}).
		Suffix(returning(_orderColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	updated, err = scanOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, writeError(op, err)
	}
	return updated, nil
}

func (r *OrderRepository) Delete(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id string,
) (err error) {
	const op = "repository.order.Delete"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	affected, err := deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _ordersTable,
		squirrel.Eq{"id_order": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDataNotFound
	}
	return nil
}

// ListDetailedRows runs the four-table join behind the detailed orders view.
// Rows of one order are contiguous and line items follow their id order.
func (r *OrderRepository) ListDetailedRows(
	ctx context.Context,
) (result []entity.DetailedOrderRow, err error) {
	const op = "repository.order.ListDetailedRows"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_detailedColumns...).
		From(_ordersTable+" o").
		Join(_customersTable+" c ON o.id_customer = c.customer_id").
		LeftJoin(_artworksInOrderTable+" aio ON o.id_order = aio.id_order").
		LeftJoin(_artworksTable+" a ON aio.id_artwork = a.id_artwork").
		OrderBy("o.id_order", "aio.id_artwork_in_order")

	return queryAll(ctx, r.db, op, query, scanDetailedRow)
}

func scanOrder(row pgx.Row) (*entity.Order, error) {
	order := &entity.Order{}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderDate.Time,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func scanDetailedRow(row pgx.Row) (entity.DetailedOrderRow, error) {
	var (
		result entity.DetailedOrderRow

		lineID, artworkID                     pgtype.Text
		amount, yearCreated                   pgtype.Int4
		title, description, artistID, artType pgtype.Text
		price                                 pgtype.Float8
	)

	err := row.Scan(
		&result.OrderID,
		&result.OrderDate.Time,
		&result.Customer.ID,
		&result.Customer.FirstName,
		&result.Customer.LastName,
		&result.Customer.Email,
		&result.Customer.Phone,
		&result.Customer.Address,
		&lineID,
		&artworkID,
		&amount,
		&title,
		&description,
		&yearCreated,
		&price,
		&artistID,
		&artType,
	)
	if err != nil {
		return entity.DetailedOrderRow{}, err
	}

	if !lineID.Valid {
		return result, nil
	}

	result.Line = entity.JoinedLine{
		Valid:     true,
		ID:        lineID.String,
		ArtworkID: artworkID.String,
		Amount:    int(amount.Int32),
	}
	if title.Valid && price.Valid {
		result.Line.Artwork = &entity.JoinedArtwork{
			Title:       title.String,
			Description: description.String,
			YearCreated: int(yearCreated.Int32),
			Price:       price.Float64,
			ArtistID:    artistID.String,
			ArtType:     artType.String,
		}
	}
	return result, nil
}
