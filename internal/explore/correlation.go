package explore

import (
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/stats"
)

// Column extracts one numeric column from a record
type Column struct {
	Name  string
	Value func(models.EnrichedRecord) float64
}

// NumericColumns are the numeric columns of an enriched record, raw first
var NumericColumns = []Column{
	{"season", func(r models.EnrichedRecord) float64 { return float64(r.Season) }},
	{"holiday", func(r models.EnrichedRecord) float64 { return float64(r.Holiday) }},
	{"workingday", func(r models.EnrichedRecord) float64 { return float64(r.WorkingDay) }},
	{"weather", func(r models.EnrichedRecord) float64 { return float64(r.Weather) }},
	{"temp", func(r models.EnrichedRecord) float64 { return r.Temp }},
	{"atemp", func(r models.EnrichedRecord) float64 { return r.ATemp }},
	{"humidity", func(r models.EnrichedRecord) float64 { return r.Humidity }},
	{"windspeed", func(r models.EnrichedRecord) float64 { return r.WindSpeed }},
	{"casual", func(r models.EnrichedRecord) float64 { return float64(r.Casual) }},
	{"registered", func(r models.EnrichedRecord) float64 { return float64(r.Registered) }},
	{"count", func(r models.EnrichedRecord) float64 { return float64(r.Count) }},
	{"year", func(r models.EnrichedRecord) float64 { return float64(r.Year) }},
	{"month", func(r models.EnrichedRecord) float64 { return float64(r.Month) }},
	{"hour", func(r models.EnrichedRecord) float64 { return float64(r.Hour) }},
}

// Correlation computes the Pearson matrix of columns over rows. The matrix is
// reported as insufficient when rows is empty or fewer than two columns are given.
func Correlation(rows []models.EnrichedRecord, columns []Column) *models.CorrelationMatrix {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}

	matrix := &models.CorrelationMatrix{Columns: names, Rows: len(rows)}
	switch {
	case len(rows) == 0:
		matrix.Insufficient = true
		matrix.Reason = "no rows match the current filters"
		return matrix
	case len(columns) < 2:
		matrix.Insufficient = true
		matrix.Reason = "not enough numeric columns to compute correlations"
		return matrix
	}

	data := make([][]float64, len(columns))
	for i, c := range columns {
		col := make([]float64, len(rows))
		for j, r := range rows {
			col[j] = c.Value(r)
		}
		data[i] = col
	}

	matrix.Values = stats.CorrelationMatrix(data)
	return matrix
}
