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

const _artworksTable = "artworks"

var _artworkColumns = []string{
	"id_artwork", "title", "description", "year_created", "price", "id_artist", "art_type",
}

type ArtworkRepository struct {
	base
}

func NewArtworkRepository(db *postgres.Postgres, metrics metric.Storage) *ArtworkRepository {
	return &ArtworkRepository{base{db: db, metrics: metrics}}
}

func (r *ArtworkRepository) List(ctx context.Context) (artworks []*entity.Artwork, err error) {
	const op = "repository.artwork.List"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return queryAll(ctx, r.db, op, r.db.Builder.Select(_artworkColumns...).From(_artworksTable), scanArtwork)
}

func (r *ArtworkRepository) ListByType(
	ctx context.Context,
	artType string,
) (artworks []*entity.Artwork, err error) {
	const op = "repository.artwork.ListByType"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_artworkColumns...).
		From(_artworksTable).
		Where(squirrel.Eq{"art_type": artType})

	return queryAll(ctx, r.db, op, query, scanArtwork)
}

func (r *ArtworkRepository) GetByID(
	ctx context.Context,
	id string,
) (artwork *entity.Artwork, err error) {
	const op = "repository.artwork.GetByID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Select(_artworkColumns...).
		From(_artworksTable).
		Where(squirrel.Eq{"id_artwork": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	artwork, err = scanArtwork(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return artwork, nil
}

func (r *ArtworkRepository) Exists(ctx context.Context, id string) (found bool, err error) {
	const op = "repository.artwork.Exists"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return exists(ctx, r.db, op, _artworksTable, "id_artwork", id)
}

func (r *ArtworkRepository) Create(
	ctx context.Context,
	artwork *entity.Artwork,
) (created *entity.Artwork, err error) {
	const op = "repository.artwork.Create"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Insert(_artworksTable).
		Columns(_artworkColumns...).
		Values(
			artwork.ID,
			artwork.Title,
			artwork.Description,
			artwork.YearCreated,
			artwork.Price,
			artwork.ArtistID,
			artwork.ArtType,
		).
		Suffix(returning(_artworkColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	created, err = scanArtwork(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, writeError(op, err)
	}
	return created, nil
}

func (r *ArtworkRepository) Update(
	ctx context.Context,
	artwork *entity.Artwork,
) (updated *entity.Artwork, err error) {
	const op = "repository.artwork.Update"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Update(_artworksTable).
		Set("title", artwork.Title).
		Set("description", artwork.Description).
		Set("year_created", artwork.YearCreated).
		Set("price", artwork.Price).
		Set("id_artist", artwork.ArtistID).
		Set("art_type", artwork.ArtType).
		Where(squirrel.Eq{"id_artwork": artwork.ID}).
		Suffix(returning(_artworkColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	updated, err = scanArtwork(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, writeError(op, err)
	}
	return updated, nil
}

func (r *ArtworkRepository) Delete(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id string,
) (err error) {
	const op = "repository.artwork.Delete"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	affected, err := deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _artworksTable,
		squirrel.Eq{"id_artwork": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDataNotFound
	}
	return nil
}

func scanArtwork(row pgx.Row) (*entity.Artwork, error) {
	artwork := &entity.Artwork{}
	err := row.Scan(
		&artwork.ID,
		&artwork.Title,
		&artwork.Description,
		&artwork.YearCreated,
		&artwork.Price,
		&artwork.ArtistID,
		&artwork.ArtType,
	)
	if err != nil {
		return nil, err
	}
	return artwork, nil
}
