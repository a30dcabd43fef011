// Package enrich derives calendar and time-bucket attributes from raw rental rows.
package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// Accepted timestamp layouts, tried in order. Timestamps are wall clock
// values and are never converted between zones.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseError reports a record whose timestamp could not be parsed
type ParseError struct {
	Row   int // zero-based record index
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("row %d: invalid datetime: %v", e.Row, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParseTimestamp parses a timezone-naive timestamp
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%q does not match any accepted layout (%s)",
		value, strings.Join(timestampLayouts, ", "))
}

// SeasonName maps a season code to its name, unknown codes map to "unknown"
func SeasonName(code int) string {
	switch code {
	case 1:
		return models.SeasonSpring
	case 2:
		return models.SeasonSummer
	case 3:
		return models.SeasonFall
	case 4:
		return models.SeasonWinter
	default:
		return models.SeasonUnknown
	}
}

// DayPeriodOf buckets an hour: [0,6) night, [6,12) morning, [12,18) afternoon, [18,24) evening
func DayPeriodOf(hour int) string {
	switch {
	case hour < 6:
		return models.PeriodNight
	case hour < 12:
		return models.PeriodMorning
	case hour < 18:
		return models.PeriodAfternoon
	default:
		return models.PeriodEvening
	}
}

// EnrichRecord derives the calendar fields of a single record.
// row is only used to identify the record in a ParseError.
func EnrichRecord(row int, raw models.RawRecord) (models.EnrichedRecord, error) {
	ts, err := ParseTimestamp(raw.DateTime)
	if err != nil {
		return models.EnrichedRecord{}, &ParseError{Row: row, Value: raw.DateTime, Err: err}
	}

	return models.EnrichedRecord{
		RawRecord:  raw,
		Timestamp:  ts,
		Year:       ts.Year(),
		Month:      int(ts.Month()),
		Hour:       ts.Hour(),
		DayOfWeek:  ts.Weekday().String(),
		SeasonName: SeasonName(raw.Season),
		DayPeriod:  DayPeriodOf(ts.Hour()),
	}, nil
}

// Enrich derives calendar fields for every record, preserving length and order.
// The first malformed timestamp aborts the whole transform.
func Enrich(raw []models.RawRecord) ([]models.EnrichedRecord, error) {
	enriched := make([]models.EnrichedRecord, len(raw))
	for i, r := range raw {
		rec, err := EnrichRecord(i, r)
		if err != nil {
			return nil, err
		}
		enriched[i] = rec
	}
	return enriched, nil
}
