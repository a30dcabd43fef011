package models

import "time"

// RawRecord represents one hourly observation as stored in the source file
type RawRecord struct {
	DateTime   string  `json:"datetime" db:"datetime"` // 2011-01-01 00:00:00
	Season     int     `json:"season" db:"season"`     // 1-4
	Holiday    int     `json:"holiday" db:"holiday"`   // 0/1
	WorkingDay int     `json:"workingday" db:"workingday"`
	Weather    int     `json:"weather" db:"weather"` // 1 clear ... 4 heavy rain
	Temp       float64 `json:"temp" db:"temp"`
	ATemp      float64 `json:"atemp" db:"atemp"`
	Humidity   float64 `json:"humidity" db:"humidity"`
	WindSpeed  float64 `json:"windspeed" db:"windspeed"`
	Casual     int     `json:"casual" db:"casual"`
	Registered int     `json:"registered" db:"registered"`
	Count      int     `json:"count" db:"count"`
}

// EnrichedRecord is a RawRecord plus derived calendar fields
type EnrichedRecord struct {
	RawRecord

	Timestamp  time.Time `json:"timestamp"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	Hour       int       `json:"hour"`
	DayOfWeek  string    `json:"day_of_week"` // Monday ... Sunday
	SeasonName string    `json:"season_name"` // spring, summer, fall, winter, unknown
	DayPeriod  string    `json:"day_period"`  // night, morning, afternoon, evening
}

// Metric returns the value of the given target metric
func (r EnrichedRecord) Metric(metric string) float64 {
	if metric == MetricRegistered {
		return float64(r.Registered)
	}
	return float64(r.Count)
}

// Season names
const (
	SeasonSpring  = "spring"
	SeasonSummer  = "summer"
	SeasonFall    = "fall"
	SeasonWinter  = "winter"
	SeasonUnknown = "unknown"
)

// Seasons lists the valid season names in season code order
var Seasons = []string{SeasonSpring, SeasonSummer, SeasonFall, SeasonWinter}

// Day periods
const (
	PeriodNight     = "night"
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
	PeriodEvening   = "evening"
)

// DayPeriods lists the day periods in chronological order
var DayPeriods = []string{PeriodNight, PeriodMorning, PeriodAfternoon, PeriodEvening}

// Target metrics
const (
	MetricCount      = "count"
	MetricRegistered = "registered"
)

// DatasetInfo describes a loaded dataset
type DatasetInfo struct {
	Fingerprint string    `json:"fingerprint"`
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	LoadedAt    time.Time `json:"loaded_at"`
	FirstRecord string    `json:"first_record,omitempty"`
	LastRecord  string    `json:"last_record,omitempty"`

	// Set when the dataset was read from an imported SQLite store
	ImportedFrom string     `json:"imported_from,omitempty"`
	ImportedAt   *time.Time `json:"imported_at,omitempty"`
}
