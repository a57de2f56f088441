package service

import (
	"context"
	"fmt"

	"gallery/internal/entity"
	"gallery/pkg/logger"

	"github.com/google/uuid"
)

type ArtistService struct {
	repo   ArtistRepository
	logger logger.Logger
}

func NewArtistService(repo ArtistRepository, log logger.Logger) *ArtistService {
	return &ArtistService{
		repo:   repo,
		logger: log,
	}
}

func (s *ArtistService) List(ctx context.Context) (artists []*entity.Artist, err error) {
	const op = "service.artist.List"
	defer trace(ctx, s.logger, op)(&err)

	artists, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artists, nil
}

// ListBornAfter returns artists with a birth year strictly greater than year.
func (s *ArtistService) ListBornAfter(
	ctx context.Context,
	year int,
) (artists []*entity.Artist, err error) {
	const op = "service.artist.ListBornAfter"
	defer trace(ctx, s.logger, op, logger.Int("year", year))(&err)

	artists, err = s.repo.ListBornAfter(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artists, nil
}

func (s *ArtistService) Get(ctx context.Context, id string) (artist *entity.Artist, err error) {
	const op = "service.artist.Get"
	defer trace(ctx, s.logger, op, logger.String("artist_id", id))(&err)

	artist, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artist, nil
}

// Create stores artist under a freshly generated id. Any id set by the caller
// is discarded.
func (s *ArtistService) Create(
	ctx context.Context,
	artist *entity.Artist,
) (created *entity.Artist, err error) {
	const op = "service.artist.Create"

	record := *artist
	record.ID = uuid.NewString()
	defer trace(ctx, s.logger, op, logger.String("artist_id", record.ID))(&err)

	created, err = s.repo.Create(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update replaces every non-key field of the artist stored under id.
func (s *ArtistService) Update(
	ctx context.Context,
	id string,
	artist *entity.Artist,
) (updated *entity.Artist, err error) {
	const op = "service.artist.Update"
	defer trace(ctx, s.logger, op, logger.String("artist_id", id))(&err)

	found, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: exists: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}

	record := *artist
	record.ID = id
	updated, err = s.repo.Update(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s *ArtistService) Delete(ctx context.Context, id string) (err error) {
	const op = "service.artist.Delete"
	defer trace(ctx, s.logger, op, logger.String("artist_id", id))(&err)

	if err = s.repo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
