package app

import (
	"context"
	"fmt"

	"gallery/internal/config"
	"gallery/internal/repository"
	"gallery/internal/service"
	httpt "gallery/internal/transport/http"
	"gallery/pkg/logger"
	"gallery/pkg/metric"
	"gallery/pkg/storage/postgres"
	"gallery/pkg/storage/postgres/transaction"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Run wires the service together and blocks until ctx is cancelled or one of
// the servers fails.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	if cfg.Env == "prod" || cfg.Env == "staging" {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := metric.NewFactory()

	db, err := initDatabase(&cfg.Postgres, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = repository.Migrate(ctx, db, log.With("component", "schema")); err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}

	txManager, err := initTransactionManager(&cfg.Postgres, db, log, metrics)
	if err != nil {
		return err
	}

	handler := httpt.NewHandler(
		initServices(db, txManager, log, metrics),
		log.With("component", "http"),
		metrics.HTTP(),
		httpt.RequestTimeout(cfg.HTTP.RequestTimeout),
	)

	eg, ctx := errgroup.WithContext(ctx)

	if cfg.Metrics.Enabled {
		metricsServer := httpt.NewMetricsServer(
			metrics.Handler(),
			&cfg.Metrics,
			cfg.HTTP.ShutdownTimeout,
			log.With("component", "metrics server"),
		)
		eg.Go(func() error {
			return metricsServer.Start(ctx)
		})
	}

	httpServer := httpt.NewHTTPServer(handler, &cfg.HTTP, log.With("component", "http server"))
	eg.Go(func() error {
		return httpServer.Start(ctx)
	})

	if err = eg.Wait(); err != nil {
		return fmt.Errorf("app.Run: %w", err)
	}
	return nil
}

func initDatabase(cfg *config.Postgres, log logger.Logger) (*postgres.Postgres, error) {
	db, err := postgres.NewPostgres(
		cfg,
		log.With("component", "database"),
		postgres.MaxPoolSize(cfg.PoolMax),
		postgres.MaxConnAttempts(cfg.ConnAttempts),
		postgres.RetryDelays(cfg.BaseRetryDelay, cfg.MaxRetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initDatabase: %w", err)
	}
	return db, nil
}

// initTransactionManager returns nil unless atomic deletes are enabled, which
// keeps cascading deletes as independent statements.
func initTransactionManager(
	cfg *config.Postgres,
	db *postgres.Postgres,
	log logger.Logger,
	metrics metric.Factory,
) (transaction.Manager, error) {
	if !cfg.AtomicDeletes {
		return nil, nil
	}

	txManager, err := transaction.NewManager(
		db,
		log.With("component", "transaction manager"),
		metrics.Transaction(),
	)
	if err != nil {
		return nil, fmt.Errorf("app.initTransactionManager: %w", err)
	}
	log.Infow("atomic deletes enabled")
	return txManager, nil
}

func initServices(
	db *postgres.Postgres,
	txManager transaction.Manager,
	log logger.Logger,
	metrics metric.Factory,
) httpt.Services {
	storage := metrics.Storage()

	artistRepo := repository.NewArtistRepository(db, storage)
	customerRepo := repository.NewCustomerRepository(db, storage)
	artworkRepo := repository.NewArtworkRepository(db, storage)
	orderRepo := repository.NewOrderRepository(db, storage)
	lineRepo := repository.NewArtworkInOrderRepository(db, storage)

	svcLog := log.With("component", "service")

	return httpt.Services{
		Artists:         service.NewArtistService(artistRepo, svcLog),
		Customers:       service.NewCustomerService(customerRepo, svcLog),
		Artworks:        service.NewArtworkService(artworkRepo, lineRepo, txManager, svcLog),
		Orders:          service.NewOrderService(orderRepo, lineRepo, txManager, svcLog),
		ArtworksInOrder: service.NewArtworkInOrderService(lineRepo, svcLog),
	}
}
