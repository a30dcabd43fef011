package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/database"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// RentalRepository handles database operations for rental records
type RentalRepository struct {
	db *sql.DB
}

// NewRentalRepository creates a new rental repository
func NewRentalRepository(db *sql.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

// ImportRecord describes one completed import
type ImportRecord struct {
	ID          int64     `json:"id"`
	Source      string    `json:"source"`
	Fingerprint string    `json:"fingerprint"`
	RowCount    int       `json:"row_count"`
	ImportedAt  time.Time `json:"imported_at"`
}

// ReplaceAll replaces every stored record with raw in a single transaction
func (r *RentalRepository) ReplaceAll(ctx context.Context, raw []models.RawRecord, source, fingerprint string) error {
	return database.Transaction(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM rentals"); err != nil {
			return fmt.Errorf("failed to clear rentals: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO rentals
			(datetime, season, holiday, workingday, weather, temp, atemp, humidity, windspeed, casual, registered, count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, rec := range raw {
			_, err := stmt.ExecContext(ctx,
				rec.DateTime, rec.Season, rec.Holiday, rec.WorkingDay, rec.Weather,
				rec.Temp, rec.ATemp, rec.Humidity, rec.WindSpeed,
				rec.Casual, rec.Registered, rec.Count,
			)
			if err != nil {
				return fmt.Errorf("failed to insert record %d: %w", i, err)
			}
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO imports (source, fingerprint, row_count) VALUES (?, ?, ?)",
			source, fingerprint, len(raw),
		)
		if err != nil {
			return fmt.Errorf("failed to record import: %w", err)
		}
		return nil
	})
}

// ListRentals returns every stored record in import order
func (r *RentalRepository) ListRentals(ctx context.Context) ([]models.RawRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT datetime, season, holiday, workingday, weather,
		temp, atemp, humidity, windspeed, casual, registered, count
		FROM rentals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	var records []models.RawRecord
	for rows.Next() {
		var rec models.RawRecord
		err := rows.Scan(
			&rec.DateTime, &rec.Season, &rec.Holiday, &rec.WorkingDay, &rec.Weather,
			&rec.Temp, &rec.ATemp, &rec.Humidity, &rec.WindSpeed,
			&rec.Casual, &rec.Registered, &rec.Count,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of stored records
func (r *RentalRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rentals").Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rentals: %w", err)
	}
	return total, nil
}

// LatestImport returns the most recent import, or nil when nothing was imported
func (r *RentalRepository) LatestImport(ctx context.Context) (*ImportRecord, error) {
	var rec ImportRecord
	err := r.db.QueryRowContext(ctx, `SELECT id, source, fingerprint, row_count, imported_at
		FROM imports ORDER BY id DESC LIMIT 1`).Scan(
		&rec.ID, &rec.Source, &rec.Fingerprint, &rec.RowCount, &rec.ImportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest import: %w", err)
	}
	return &rec, nil
}
