package dataset

import (
	"context"
	"fmt"

	"github.com/jengzang/bikeshare-backend-go/internal/config"
	"github.com/jengzang/bikeshare-backend-go/internal/database"
	"github.com/jengzang/bikeshare-backend-go/internal/repository"
)

// Open loads the dataset from the source selected in cfg
func Open(ctx context.Context, cfg *config.Config) (*Dataset, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return LoadFile(cfg.DataPath)
	case config.SourceSQLite:
		db, err := database.Open(ctx, database.Config{Path: cfg.DBPath})
		if err != nil {
			return nil, err
		}
		defer db.Close()

		if err := database.NewMigrationManager(db).RunMigrations(ctx); err != nil {
			return nil, err
		}
		return loadSQLite(ctx, repository.NewRentalRepository(db), cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

func loadSQLite(ctx context.Context, repo *repository.RentalRepository, path string) (*Dataset, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s has no rentals, run the import command first", ErrEmpty, path)
	}

	ds, err := LoadFrom(ctx, repo, "sqlite:"+path)
	if err != nil {
		return nil, err
	}

	imp, err := repo.LatestImport(ctx)
	if err != nil {
		return nil, err
	}
	if imp != nil {
		importedAt := imp.ImportedAt
		ds.info.ImportedFrom = imp.Source
		ds.info.ImportedAt = &importedAt
	}
	return ds, nil
}
