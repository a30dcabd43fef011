// Package explore filters the enriched rental dataset and computes the
// summary statistics shown as KPIs.
package explore

import (
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/stats"
)

// Matches reports whether a record satisfies every predicate of spec.
// Only the year predicate is skipped, and only when all years are selected.
func Matches(r models.EnrichedRecord, spec models.FilterSpec) bool {
	if spec.Year != models.AllYears && r.Year != spec.Year {
		return false
	}
	if !containsString(spec.Seasons, r.SeasonName) {
		return false
	}
	if !containsInt(spec.Weather, r.Weather) {
		return false
	}
	if r.Hour < spec.HourMin || r.Hour > spec.HourMax {
		return false
	}
	switch spec.WorkingDay {
	case models.WorkingDayTrue:
		if r.WorkingDay != 1 {
			return false
		}
	case models.WorkingDayFalse:
		if r.WorkingDay != 0 {
			return false
		}
	}
	return true
}

// Filter returns the records matching spec, in dataset order
func Filter(rows []models.EnrichedRecord, spec models.FilterSpec) []models.EnrichedRecord {
	filtered := make([]models.EnrichedRecord, 0)
	for _, r := range rows {
		if Matches(r, spec) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Summarize computes total, mean, peak hour and distribution of metric.
// An empty input yields a zero total and nil mean, peak hour and distribution.
func Summarize(rows []models.EnrichedRecord, metric string) models.Summary {
	summary := models.Summary{Metric: metric, Rows: len(rows)}
	if len(rows) == 0 {
		return summary
	}

	values := make([]float64, len(rows))
	var total int64
	for i, r := range rows {
		v := r.Metric(metric)
		values[i] = v
		total += int64(v)
	}
	summary.Total = total

	mean := float64(total) / float64(len(rows))
	summary.Mean = &mean

	if hour, ok := PeakHour(rows, metric); ok {
		summary.PeakHour = &hour
	}

	min, q1, median, q3, max := stats.FiveNumberSummary(values)
	summary.Spread = &models.Distribution{
		Min:    min,
		Q1:     q1,
		Median: median,
		Q3:     q3,
		Max:    max,
		StdDev: stats.StdDev(values),
	}

	return summary
}

// PeakHour returns the hour with the highest mean metric. Ties resolve to
// the smallest hour. ok is false when rows is empty.
func PeakHour(rows []models.EnrichedRecord, metric string) (hour int, ok bool) {
	// Exact sums keep equal means bit-identical across hours
	var sums [24]float64
	var counts [24]int
	for _, r := range rows {
		if r.Hour < 0 || r.Hour > 23 {
			continue
		}
		sums[r.Hour] += r.Metric(metric)
		counts[r.Hour]++
	}

	peak, best := -1, 0.0
	for h := 0; h < 24; h++ {
		if counts[h] == 0 {
			continue
		}
		mean := sums[h] / float64(counts[h])
		// strictly greater keeps the earlier hour on ties
		if peak < 0 || mean > best {
			peak, best = h, mean
		}
	}
	if peak < 0 {
		return 0, false
	}
	return peak, true
}

// Evaluate filters rows by spec and summarizes the result over spec.Metric
func Evaluate(rows []models.EnrichedRecord, spec models.FilterSpec) *models.FilteredResult {
	filtered := Filter(rows, spec)
	return &models.FilteredResult{
		Spec:    spec,
		Rows:    filtered,
		Summary: Summarize(filtered, spec.Metric),
	}
}
