package repository

import (
	"context"
	"fmt"

	"gallery/pkg/logger"
	"gallery/pkg/storage/postgres"
)

var _schema = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		artist_id  TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name  TEXT NOT NULL,
		birth_year INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id TEXT PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL,
		address     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS artworks (
		id_artwork   TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL,
		year_created INTEGER NOT NULL,
		price        DOUBLE PRECISION NOT NULL,
		id_artist    TEXT NOT NULL REFERENCES artists (artist_id) ON DELETE CASCADE,
		art_type     TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id_order    TEXT PRIMARY KEY,
		id_customer TEXT NOT NULL REFERENCES customers (customer_id),
		order_date  DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS artworks_in_order (
		id_artwork_in_order TEXT PRIMARY KEY,
		id_order            TEXT NOT NULL REFERENCES orders (id_order),
		id_artwork          TEXT NOT NULL REFERENCES artworks (id_artwork),
		amount              INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS artworks_in_order_id_order_idx ON artworks_in_order (id_order)`,
	`CREATE INDEX IF NOT EXISTS artworks_in_order_id_artwork_idx ON artworks_in_order (id_artwork)`,
}

// Migrate creates the gallery tables when they are missing. Existing tables
// are left untouched.
func Migrate(ctx context.Context, db *postgres.Postgres, log logger.Logger) error {
	const op = "repository.Migrate"

	for i, stmt := range _schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: statement %d: %w", op, i, err)
		}
	}

	log.LogAttrs(ctx, logger.InfoLevel, "schema ready",
		logger.Int("statements", len(_schema)))
	return nil
}
