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

const _artistsTable = "artists"

var _artistColumns = []string{"artist_id", "first_name", "last_name", "birth_year"}

type ArtistRepository struct {
	base
}

func NewArtistRepository(db *postgres.Postgres, metrics metric.Storage) *ArtistRepository {
	return &ArtistRepository{base{db: db, metrics: metrics}}
}

func (r *ArtistRepository) List(ctx context.Context) (artists []*entity.Artist, err error) {
	const op = "repository.artist.List"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_artistColumns...).
		From(_artistsTable).
		OrderBy("last_name", "first_name")

	return queryAll(ctx, r.db, op, query, scanArtist)
}

func (r *ArtistRepository) ListBornAfter(
	ctx context.Context,
	year int,
) (artists []*entity.Artist, err error) {
	const op = "repository.artist.ListBornAfter"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	query := r.db.Builder.Select(_artistColumns...).
		From(_artistsTable).
		Where(squirrel.Gt{"birth_year": year}).
		OrderBy("last_name", "first_name")

	return queryAll(ctx, r.db, op, query, scanArtist)
}

func (r *ArtistRepository) GetByID(ctx context.Context, id string) (artist *entity.Artist, err error) {
	const op = "repository.artist.GetByID"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Select(_artistColumns...).
		From(_artistsTable).
		Where(squirrel.Eq{"artist_id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	artist, err = scanArtist(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, fmt.Errorf("%s: query row: %w", op, err)
	}
	return artist, nil
}

func (r *ArtistRepository) Exists(ctx context.Context, id string) (found bool, err error) {
	const op = "repository.artist.Exists"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	return exists(ctx, r.db, op, _artistsTable, "artist_id", id)
}

func (r *ArtistRepository) Create(
	ctx context.Context,
	artist *entity.Artist,
) (created *entity.Artist, err error) {
	const op = "repository.artist.Create"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Insert(_artistsTable).
		Columns(_artistColumns...).
		Values(artist.ID, artist.FirstName, artist.LastName, artist.BirthYear).
		Suffix(returning(_artistColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	created, err = scanArtist(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, writeError(op, err)
	}
	return created, nil
}

func (r *ArtistRepository) Update(
	ctx context.Context,
	artist *entity.Artist,
) (updated *entity.Artist, err error) {
	const op = "repository.artist.Update"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	sql, args, err := r.db.Builder.Update(_artistsTable).
		Set("first_name", artist.FirstName).
		Set("last_name", artist.LastName).
		Set("birth_year", artist.BirthYear).
		Where(squirrel.Eq{"artist_id": artist.ID}).
		Suffix(returning(_artistColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: building query: %w", op, err)
	}

	updated, err = scanArtist(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrDataNotFound
		}
		return nil, writeError(op, err)
	}
	return updated, nil
}

func (r *ArtistRepository) Delete(
	ctx context.Context,
	queryExecuter postgres.QueryExecuter,
	id string,
) (err error) {
	const op = "repository.artist.Delete"
	defer func(start time.Time) { r.observe(op, start, err) }(time.Now())

	affected, err := deleteWhere(ctx, r.db, r.executer(queryExecuter), op, _artistsTable,
		squirrel.Eq{"artist_id": id})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrDataNotFound
	}
	return nil
}

func scanArtist(row pgx.Row) (*entity.Artist, error) {
	artist := &entity.Artist{}
	err := row.Scan(
		&artist.ID,
		&artist.FirstName,
		&artist.LastName,
		&artist.BirthYear,
	)
	if err != nil {
		return nil, err
	}
	return artist, nil
}
