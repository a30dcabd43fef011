// Package dataset loads the rental records once and holds the enriched,
// read-only view shared by every request.
package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"sort"
	"strconv"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/enrich"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// ErrEmpty is returned when a source holds no records
var ErrEmpty = errors.New("dataset is empty")

// Dataset is an enriched, immutable rental dataset.
// Callers must treat the slices it returns as read-only.
type Dataset struct {
	info           models.DatasetInfo
	rows           []models.EnrichedRecord
	domain         models.Domain
	unknownSeasons int
}

// New enriches raw records and computes the dataset identity and filter domain
func New(raw []models.RawRecord, source string, loadedAt time.Time) (*Dataset, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}

	rows, err := enrich.Enrich(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to enrich %s: %w", source, err)
	}

	ds := &Dataset{
		info: models.DatasetInfo{
			Fingerprint: Fingerprint(raw),
			Source:      source,
			Rows:        len(rows),
			LoadedAt:    loadedAt,
		},
		rows: rows,
	}

	first, last := rows[0].Timestamp, rows[0].Timestamp
	years := make(map[int]bool)
	seasons := make(map[string]bool)
	weather := make(map[int]bool)
	for _, r := range rows {
		if r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if r.Timestamp.After(last) {
			last = r.Timestamp
		}
		years[r.Year] = true
		weather[r.Weather] = true
		if r.SeasonName == models.SeasonUnknown {
			ds.unknownSeasons++
			continue
		}
		seasons[r.SeasonName] = true
	}
	ds.info.FirstRecord = first.Format("2006-01-02 15:04:05")
	ds.info.LastRecord = last.Format("2006-01-02 15:04:05")

	ds.domain = models.Domain{
		Years:        sortedInts(years),
		WeatherCodes: sortedInts(weather),
		Metrics:      []string{models.MetricCount, models.MetricRegistered},
		HourMin:      0,
		HourMax:      23,
	}
	for _, s := range models.Seasons {
		if seasons[s] {
			ds.domain.Seasons = append(ds.domain.Seasons, s)
		}
	}

	return ds, nil
}

// Info returns the dataset metadata
func (d *Dataset) Info() models.DatasetInfo {
	return d.info
}

// Fingerprint returns the content hash identifying the dataset
func (d *Dataset) Fingerprint() string {
	return d.info.Fingerprint
}

// Rows returns the enriched records in source order
func (d *Dataset) Rows() []models.EnrichedRecord {
	return d.rows
}

// Domain returns the selectable filter values
func (d *Dataset) Domain() models.Domain {
	domain := d.domain
	domain.Years = append([]int(nil), d.domain.Years...)
	domain.Seasons = append([]string(nil), d.domain.Seasons...)
	domain.WeatherCodes = append([]int(nil), d.domain.WeatherCodes...)
	domain.Metrics = append([]string(nil), d.domain.Metrics...)
	return domain
}

// UnknownSeasons returns the number of records with a season code outside 1-4
func (d *Dataset) UnknownSeasons() int {
	return d.unknownSeasons
}

// Fingerprint hashes the canonical form of raw records. Equal content in
// equal order always yields the same fingerprint, whatever the source.
func Fingerprint(raw []models.RawRecord) string {
	h := sha256.New()
	for _, r := range raw {
		writeRecord(h, r)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func writeRecord(h hash.Hash, r models.RawRecord) {
	buf := make([]byte, 0, 128)
	buf = append(buf, r.DateTime...)
	for _, v := range []int{r.Season, r.Holiday, r.WorkingDay, r.Weather} {
		buf = append(buf, '|')
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	for _, v := range []float64{r.Temp, r.ATemp, r.Humidity, r.WindSpeed} {
		buf = append(buf, '|')
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
	}
	for _, v := range []int{r.Casual, r.Registered, r.Count} {
		buf = append(buf, '|')
		buf = strconv.AppendInt(buf, int64(v), 10)
	}
	buf = append(buf, '\n')
	h.Write(buf)
}

func sortedInts(set map[int]bool) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}
