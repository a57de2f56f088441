package httpt

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"gallery/internal/config"
	"gallery/pkg/logger"

	"golang.org/x/sync/errgroup"
)

type HTTPServer struct {
	name            string
	server          *http.Server
	shutdownTimeout time.Duration
	log             logger.Logger
}

func NewHTTPServer(handler http.Handler, cfg *config.HTTP, log logger.Logger) *HTTPServer {
	return &HTTPServer{
		name: "api",
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             log,
	}
}

// NewMetricsServer serves the Prometheus handler on its own listener.
func NewMetricsServer(
	handler http.Handler,
	cfg *config.Metrics,
	shutdownTimeout time.Duration,
	log logger.Logger,
) *HTTPServer {
	return &HTTPServer{
		name: "metrics",
		server: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		},
		shutdownTimeout: shutdownTimeout,
		log:             log,
	}
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

// Start serves until ctx is done, then shuts the server down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	const op = "transport.http.HTTPServer.Start"

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		s.log.Infow("starting HTTP server", "server", s.name, "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: %s: listen and serve: %w", op, s.name, err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egCtx.Done()
		s.log.Infow("shutdown requested", "server", s.name, "timeout", s.shutdownTimeout.String())
		return s.Stop(context.WithoutCancel(ctx))
	})

	if err := eg.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.log.Errorw("HTTP server forced shutdown", "server", s.name, "error", err)
		return fmt.Errorf("transport.http.HTTPServer.Stop: %s: %w", s.name, err)
	}
	s.log.Infow("HTTP server stopped gracefully", "server", s.name)
	return nil
}
