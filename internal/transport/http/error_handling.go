package httpt

import (
	"context"
	"errors"
	"net/http"

	"gallery/internal/entity"
	"gallery/pkg/logger"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleServiceError(c *gin.Context, err error, op string) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, entity.ErrInvalidData):
		h.log.LogAttrs(ctx, logger.WarnLevel, "invalid request",
			logger.String("op", op),
			logger.Err(err),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrDataNotFound):
		h.log.LogAttrs(ctx, logger.InfoLevel, "record not found",
			logger.String("op", op),
			logger.String("id", c.Param("id")),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
	case errors.Is(err, context.DeadlineExceeded):
		h.log.LogAttrs(ctx, logger.WarnLevel, "request timeout",
			logger.String("op", op),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "request timed out"})
	default:
		h.log.LogAttrs(ctx, logger.ErrorLevel, "internal server error",
			logger.String("op", op),
			logger.Err(err),
			logger.String("path", c.Request.URL.Path),
			logger.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}
