// Command import loads a rentals CSV file into the SQLite store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/database"
	"github.com/jengzang/bikeshare-backend-go/internal/dataset"
	"github.com/jengzang/bikeshare-backend-go/internal/logging"
	"github.com/jengzang/bikeshare-backend-go/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	csvPath := flag.String("csv", cfg.DataPath, "CSV file to import")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogLevel)

	if err := importCSV(context.Background(), *csvPath, *dbPath, logger); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func importCSV(ctx context.Context, csvPath, dbPath string, logger *slog.Logger) error {
	start := time.Now()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer f.Close()

	raw, err := dataset.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", csvPath, err)
	}

	// Validates timestamps before anything is written
	ds, err := dataset.New(raw, "csv:"+csvPath, start)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, database.Config{Path: dbPath})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewMigrationManager(db).RunMigrations(ctx); err != nil {
		return err
	}

	repo := repository.NewRentalRepository(db)
	if err := repo.ReplaceAll(ctx, raw, csvPath, ds.Fingerprint()); err != nil {
		return err
	}
	stored, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if stored != int64(len(raw)) {
		return fmt.Errorf("stored %d rentals, expected %d", stored, len(raw))
	}

	logger.Info("import complete",
		"rows", stored,
		"db", dbPath,
		"fingerprint", ds.Fingerprint(),
		"unknown_seasons", ds.UnknownSeasons(),
		"took", time.Since(start),
	)
	return nil
}
