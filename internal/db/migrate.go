package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/bosstimers/internal/db/migrations"
)

// RunMigrations brings the best_times schema at dsn up to date. Safe to call
// on every start; applied versions are skipped.
func RunMigrations(ctx context.Context, dsn string) error {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("opening sql connection for migrations: %w", err)
	}
	defer sqlDB.Close()

	return migrate(ctx, sqlDB)
}

// migrate uses a goose provider bound to the embedded files, so nothing global
// is configured and tests may migrate several databases.
func migrate(ctx context.Context, sqlDB *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, sqlDB, migrations.FS)
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying best time migrations: %w", err)
	}
	for _, res := range results {
		slog.Debug("migration applied", "version", res.Source.Version, "took", res.Duration)
	}
	return nil
}
