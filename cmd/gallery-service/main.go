package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gallery/internal/app"
	"gallery/internal/config"
	"gallery/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	log, err := logger.NewAdapter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Infow("application starting",
		"env", cfg.Env,
		"version", cfg.App.Version,
		"atomic_deletes", cfg.Postgres.AtomicDeletes,
	)

	if err = app.Run(ctx, cfg, log); err != nil {
		log.Errorw("application failed", "error", err)
		return 1
	}

	log.Infow("application exited normally")
	return 0
}
