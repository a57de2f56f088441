package httpt

import (
	"context"
	"net/http"
	"strings"
	"time"

	"gallery/internal/entity"
	"gallery/pkg/logger"
	"gallery/pkg/metric"

	"github.com/gin-gonic/gin"
)

const _defaultRequestTimeout = 30 * time.Second

type (
	ArtistService interface {
		List(ctx context.Context) ([]*entity.Artist, error)
		ListBornAfter(ctx context.Context, year int) ([]*entity.Artist, error)
		Get(ctx context.Context, id string) (*entity.Artist, error)
		Create(ctx context.Context, artist *entity.Artist) (*entity.Artist, error)
		Update(ctx context.Context, id string, artist *entity.Artist) (*entity.Artist, error)
		Delete(ctx context.Context, id string) error
	}

	CustomerService interface {
		List(ctx context.Context) ([]*entity.Customer, error)
		ListByAddress(ctx context.Context, substr string) ([]*entity.Customer, error)
		Get(ctx context.Context, id string) (*entity.Customer, error)
		Create(ctx context.Context, customer *entity.Customer) (*entity.Customer, error)
		Update(ctx context.Context, id string, customer *entity.Customer) (*entity.Customer, error)
		Delete(ctx context.Context, id string) error
	}

	ArtworkService interface {
		List(ctx context.Context) ([]*entity.Artwork, error)
		ListByType(ctx context.Context, artType string) ([]*entity.Artwork, error)
		Get(ctx context.Context, id string) (*entity.Artwork, error)
		Create(ctx context.Context, artwork *entity.Artwork) (*entity.Artwork, error)
		Update(ctx context.Context, id string, artwork *entity.Artwork) (*entity.Artwork, error)
		Delete(ctx context.Context, id string) error
	}

	OrderService interface {
		List(ctx context.Context) ([]*entity.Order, error)
		ListAfter(ctx context.Context, date entity.Date) ([]*entity.Order, error)
		ListDetailed(ctx context.Context) ([]*entity.DetailedOrder, error)
		Get(ctx context.Context, id string) (*entity.Order, error)
		Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
		Update(ctx context.Context, id string, order *entity.Order) (*entity.Order, error)
		Delete(ctx context.Context, id string) error
	}

	ArtworkInOrderService interface {
		List(ctx context.Context) ([]*entity.ArtworkInOrder, error)
		Get(ctx context.Context, id string) (*entity.ArtworkInOrder, error)
		Create(ctx context.Context, line *entity.ArtworkInOrder) (*entity.ArtworkInOrder, error)
		Update(
			ctx context.Context,
			id string,
			line *entity.ArtworkInOrder,
		) (*entity.ArtworkInOrder, error)
		Delete(ctx context.Context, id string) error
	}

	Services struct {
		Artists         ArtistService
		Customers       CustomerService
		Artworks        ArtworkService
		Orders          OrderService
		ArtworksInOrder ArtworkInOrderService
	}
)

type Handler struct {
	svc            Services
	log            logger.Logger
	metrics        metric.HTTP
	router         *gin.Engine
	requestTimeout time.Duration
}

type Option func(*Handler)

// RequestTimeout bounds the time a handler waits on the service layer.
func RequestTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.requestTimeout = timeout
		}
	}
}

func NewHandler(
	svc Services,
	log logger.Logger,
	metrics metric.HTTP,
	opts ...Option,
) *Handler {
	h := &Handler{
		svc:            svc,
		log:            log,
		metrics:        metrics,
		requestTimeout: _defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}

	router := gin.New()
	router.RedirectTrailingSlash = false

	router.Use(h.requestIDMiddleware())
	router.Use(h.loggingMiddleware())
	router.Use(corsMiddleware())
	router.Use(gin.Recovery())

	h.router = router
	h.setupRoutes()

	return h
}

func (h *Handler) Engine() *gin.Engine {
	return h.router
}

// ServeHTTP routes "/artworks/" and "/artworks" to the same handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if path := r.URL.Path; len(path) > 1 && strings.HasSuffix(path, "/") {
		r.URL.Path = strings.TrimRight(path, "/")
		if r.URL.Path == "" {
			r.URL.Path = "/"
		}
		r.URL.RawPath = ""
	}
	h.router.ServeHTTP(w, r)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}
