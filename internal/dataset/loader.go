package dataset

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// RecordSource provides raw records from a store
type RecordSource interface {
	ListRentals(ctx context.Context) ([]models.RawRecord, error)
}

// LoadFile reads and enriches a CSV file
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	raw, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return New(raw, "csv:"+path, time.Now())
}

// LoadFrom reads and enriches every record of a store
func LoadFrom(ctx context.Context, src RecordSource, name string) (*Dataset, error) {
	raw, err := src.ListRentals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return New(raw, name, time.Now())
}
