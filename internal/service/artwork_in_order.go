package service

import (
	"context"
	"fmt"

	"gallery/internal/entity"
	"gallery/pkg/logger"

	"github.com/google/uuid"
)

type ArtworkInOrderService struct {
	repo   ArtworkInOrderRepository
	logger logger.Logger
}

func NewArtworkInOrderService(
	repo ArtworkInOrderRepository,
	log logger.Logger,
) *ArtworkInOrderService {
	return &ArtworkInOrderService{
		repo:   repo,
		logger: log,
	}
}

func (s *ArtworkInOrderService) List(
	ctx context.Context,
) (lines []*entity.ArtworkInOrder, err error) {
	const op = "service.artworkInOrder.List"
	defer trace(ctx, s.logger, op)(&err)

	lines, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return lines, nil
}

func (s *ArtworkInOrderService) Get(
	ctx context.Context,
	id string,
) (line *entity.ArtworkInOrder, err error) {
	const op = "service.artworkInOrder.Get"
	defer trace(ctx, s.logger, op, logger.String("id_artwork_in_order", id))(&err)

	line, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return line, nil
}

func (s *ArtworkInOrderService) Create(
	ctx context.Context,
	line *entity.ArtworkInOrder,
) (created *entity.ArtworkInOrder, err error) {
	const op = "service.artworkInOrder.Create"

	record := *line
	record.ID = uuid.NewString()
	defer trace(ctx, s.logger, op, logger.String("id_artwork_in_order", record.ID))(&err)

	created, err = s.repo.Create(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// Update replaces every non-key field of the line stored under id.
func (s *ArtworkInOrderService) Update(
	ctx context.Context,
	id string,
	line *entity.ArtworkInOrder,
) (updated *entity.ArtworkInOrder, err error) {
	const op = "service.artworkInOrder.Update"
	defer trace(ctx, s.logger, op, logger.String("id_artwork_in_order", id))(&err)

	found, err := s.repo.Exists(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: exists: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrDataNotFound)
	}

	record := *line
	record.ID = id
	updated, err = s.repo.Update(ctx, &record)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s *ArtworkInOrderService) Delete(ctx context.Context, id string) (err error) {
	const op = "service.artworkInOrder.Delete"
	defer trace(ctx, s.logger, op, logger.String("id_artwork_in_order", id))(&err)

	if err = s.repo.Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
