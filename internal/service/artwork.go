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

type ArtworkService struct {
	repo     ArtworkRepository
	lineRepo ArtworkInOrderRepository
	cascade  cascade
	logger   logger.Logger
}

// NewArtworkService builds the service. txManager may be nil, in which case
// deletes run their statements without a surrounding transaction.
func NewArtworkService(
	repo ArtworkRepository,
	lineRepo ArtworkInOrderRepository,
	txManager transaction.Manager,
	log logger.Logger,
) *ArtworkService {
	return &ArtworkService{
		repo:     repo,
		lineRepo: lineRepo,
		cascade:  cascade{txManager: txManager},
		logger:   log,
	}
}

func (s *ArtworkService) List(ctx context.Context) (artworks []*entity.Artwork, err error) {
	const op = "service.artwork.List"
	defer trace(ctx, s.logger, op)(&err)

	artworks, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artworks, nil
}

func (s *ArtworkService) ListByType(
	ctx context.Context,
	artType string,
) (artworks []*entity.Artwork, err error) {
	const op = "service.artwork.ListByType"
	defer trace(ctx, s.logger, op, logger.String("art_type", artType))(&err)

	artworks, err = s.repo.ListByType(ctx, artType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artworks, nil
}

func (s *ArtworkService) Get(ctx context.Context, id string) (artwork *entity.Artwork, err error) {
	const op = "service.artwork.Get"
	defer trace(ctx, s.logger, op, logger.String("id_artwork", id))(&err)

	artwork, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return artwork, nil
}

// Create stores artwork under a freshly generated id. Any id set by the caller
// is discarded.
func (s *ArtworkService) Create(
	ctx context.Context,
	artwork *entity.Artwork,
) (created *entity.Artwork, err error) {
	const op = "service.artwork.Create"

	record := *artwork
	record.ID = uuid.NewString()
	defer trace(ctx, s.logger, op, logger.String("id_artwork", record.ID))(&err)

	created, err = s.repo.Create(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update replaces every non-key field of the artwork stored under id.
func (s *ArtworkService) Update(
	ctx context.Context,
	id string,
	artwork *entity.Artwork,
) (updated *entity.Artwork, err error) {
	const op = "service.artwork.Update"
	defer trace(ctx, s.logger, op, logger.String("id_artwork", id))(&err)

	found, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: exists: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}

	record := *artwork
	record.ID = id
	updated, err = s.repo.Update(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

// Delete removes the order lines referencing the artwork, then the artwork.
func (s *ArtworkService) Delete(ctx context.Context, id string) (err error) {
	const op = "service.artwork.Delete"
	defer trace(ctx, s.logger, op, logger.String("id_artwork", id))(&err)

	err = s.cascade.run(ctx, "DeleteArtwork", func(queryExecuter postgres.QueryExecuter) error {
		lines, err := s.lineRepo.DeleteByArtworkID(ctx, queryExecuter, id)
		if err != nil {
			return transaction.HandleError("DeleteArtwork", "delete order lines", err)
		}
		s.logger.LogAttrs(ctx, logger.DebugLevel, "order lines removed",
			logger.String("op", op),
			logger.String("id_artwork", id),
			logger.Int64("lines", lines),
		)

		if err = s.repo.Delete(ctx, queryExecuter, id); err != nil {
			return transaction.HandleError("DeleteArtwork", "delete artwork", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
