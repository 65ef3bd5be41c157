// Command sync copies the configured sheet (or CSV export) into the Postgres
// mirror table so the bot can run with ROW_SOURCE=postgres.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project_armada/internal/config"
	"project_armada/internal/infrastructure"
	"project_armada/internal/logger"
	"project_armada/internal/repository"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("sync failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RowSource == config.RowSourcePostgres {
		return fmt.Errorf("ROW_SOURCE must be %q or %q to sync into postgres", config.RowSourceSheets, config.RowSourceCSV)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	source, err := repository.NewRowSource(ctx, cfg, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	rows, err := source.FetchAllRows(ctx)
	if err != nil {
		return err
	}

	copied, err := repository.NewTableManager(pgClient.Pool).ReplaceRows(ctx, cfg.PGTable, rows)
	if err != nil {
		return err
	}
	log.Info("mirror updated",
		zap.String("source", cfg.RowSource),
		zap.String("table", cfg.PGTable),
		zap.Int64("rows", copied),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
