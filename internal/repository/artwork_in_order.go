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

const _artworksInOrderTable = "artworks_in_order"

var _artworkInOrderColumns = []string{"id_artwork_in_order", "id_order", "id_artwork", "amount"}

type ArtworkInOrderRepository struct {
	base
}

func NewArtworkInOrderRepository(
	db *postgres.Postgres,
	metrics metric.Storage,
) *ArtworkInOrderRepository {
	return &ArtworkInOrderRepository{base{db: db, metrics: metrics}}
}

func (r *ArtworkInOrderRepository) List(
	ctx context.Context,
) (lines []*entity.ArtworkInOrder, err error) {
	const op = "repository.artworkInOrder.List"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_artworkInOrderColumns...).
		From(_artworksInOrderTable).
		OrderBy("id_order", "id_artwork")

	return queryAll(ctx, r.db, op, query, scanArtworkInOrder)
}

func (r *ArtworkInOrderRepository) GetByID(
	ctx context.Context,
	id string,
) (line *entity.ArtworkInOrder, err error) {
	const op = "repository.artworkInOrder.GetByID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Select(_artworkInOrderColumns...).
		From(_artworksInOrderTable).
		Where(squirrel.Eq{"id_artwork_in_order": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	line, err = scanArtworkInOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return line, nil
}

func (r *ArtworkInOrderRepository) Exists(ctx context.Context, id string) (found bool, err error) {
	const op = "repository.artworkInOrder.Exists"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return exists(ctx, r.db, op, _artworksInOrderTable, "id_artwork_in_order", id)
}

func (r *ArtworkInOrderRepository) Create(
	ctx context.Context,
	line *entity.ArtworkInOrder,
) (created *entity.ArtworkInOrder, err error) {
	const op = "repository.artworkInOrder.Create"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Insert(_artworksInOrderTable).
		Columns(_artworkInOrderColumns...).
		Values(line.ID, line.OrderID, line.ArtworkID, line.Amount).
		Suffix(returning(_artworkInOrderColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	created, err = scanArtworkInOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, writeError(op, err)
	}
	return created, nil
}

func (r *ArtworkInOrderRepository) Update(
	ctx context.Context,
	line *entity.ArtworkInOrder,
) (updated *entity.ArtworkInOrder, err error) {
	const op = "repository.artworkInOrder.Update"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Update(_artworksInOrderTable).
		Set("id_order", line.OrderID).
		Set("id_artwork", line.ArtworkID).
		Set("amount", line.Amount).
		Where(squirrel.Eq{"id_artwork_in_order": line.ID}).
		Suffix(returning(_artworkInOrderColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	updated, err = scanArtworkInOrder(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, writeError(op, err)
	}
	return updated, nil
}

func (r *ArtworkInOrderRepository) Delete(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id string,
) (err error) {
	const op = "repository.artworkInOrder.Delete"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	affected, err := deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _artworksInOrderTable,
		squirrel.Eq{"id_artwork_in_order": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDataNotFound
	}
	return nil
}

// DeleteByOrderID removes every line of the order. Zero rows is not an error.
func (r *ArtworkInOrderRepository) DeleteByOrderID(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	orderID string,
) (affected int64, err error) {
	const op = "repository.artworkInOrder.DeleteByOrderID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _artworksInOrderTable,
		squirrel.Eq{"id_order": orderID})
}

// DeleteByArtworkID removes every line referencing the artwork.
func (r *ArtworkInOrderRepository) DeleteByArtworkID(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	artworkID string,
) (affected int64, err error) {
	const op = "repository.artworkInOrder.DeleteByArtworkID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _artworksInOrderTable,
		squirrel.Eq{"id_artwork": artworkID})
}

func scanArtworkInOrder(row pgx.Row) (*entity.ArtworkInOrder, error) {
	line := &entity.ArtworkInOrder{}
	err := row.Scan(
		&line.ID,
		&line.OrderID,
		&line.ArtworkID,
		&line.Amount,
	)
	if err != nil {
		return nil, err
	}
	return line, nil
}
