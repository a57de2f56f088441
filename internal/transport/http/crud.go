package httpt

import (
	"context"
	"fmt"
	"net/http"

	"gallery/internal/entity"
	"gallery/pkg/logger"

	"github.com/gin-gonic/gin"
)

func listHandler[T any](
	h *Handler,
	op string,
	list func(ctx context.Context) ([]T, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.requestContext(c)
		defer cancel()

		records, err := list(ctx)
		if err != nil {
			h.handleServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

func getHandler[T any](
	h *Handler,
	op string,
	get func(ctx context.Context, id string) (*T, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := h.requestContext(c)
		defer cancel()

		record, err := get(ctx, c.Param("id"))
		if err != nil {
			h.handleServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}

func createHandler[T any](
	h *Handler,
	op string,
	create func(ctx context.Context, record *T) (*T, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			h.handleBindError(c, err, op)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		created, err := create(ctx, &body)
		if err != nil {
			h.handleServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusCreated, created)
	}
}

func updateHandler[T any](
	h *Handler,
	op string,
	update func(ctx context.Context, id string, record *T) (*T, error),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body T
		if err := c.ShouldBindJSON(&body); err != nil {
			h.handleBindError(c, err, op)
			return
		}

		ctx, cancel := h.requestContext(c)
		defer cancel()

		updated, err := update(ctx, c.Param("id"), &body)
		if err != nil {
			h.handleServiceError(c, err, op)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

func deleteHandler(
	h *Handler,
	op string,
	kind string,
	remove func(ctx context.Context, id string) error,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		ctx, cancel := h.requestContext(c)
		defer cancel()

		if err := remove(ctx, id); err != nil {
			h.handleServiceError(c, err, op)
			return
		}

		h.log.LogAttrs(ctx, logger.InfoLevel, kind+" deleted",
			logger.String("op", op),
			logger.String("id", id),
		)
		c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("%s %s deleted", kind, id)})
	}
}

// handleBindError answers requests whose body could not be decoded into the
// target record.
func (h *Handler) handleBindError(c *gin.Context, err error, op string) {
	h.handleServiceError(c, fmt.Errorf("%s: decode body: %w: %w", op, entity.ErrInvalidData, err), op)
}
