package analysis

import (
	"sort"
	"strconv"

	"github.com/jengzang/bikeshare-backend-go/internal/explore"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
	"github.com/jengzang/bikeshare-backend-go/internal/stats"
)

// Chart names
const (
	ChartHourly        = "hourly"
	ChartDayPeriod     = "day-period"
	ChartSeason        = "season"
	ChartWeather       = "weather"
	ChartWeekdayHourly = "weekday-hourly"
	ChartCorrelation   = "correlation"
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func init() {
	RegisterChart(ChartHourly, HourlyChart)
	RegisterChart(ChartDayPeriod, DayPeriodChart)
	RegisterChart(ChartSeason, SeasonChart)
	RegisterChart(ChartWeather, WeatherChart)
	RegisterChart(ChartWeekdayHourly, WeekdayHourlyChart)
	RegisterChart(ChartCorrelation, CorrelationChart)
}

// bucket accumulates the metric of one group
type bucket struct {
	label string
	x     float64
	acc   stats.Accumulator
}

// groupBy accumulates metric per key, keeping buckets keyed by label
func groupBy(rows []models.EnrichedRecord, metric string, key func(models.EnrichedRecord) (string, float64)) map[string]*bucket {
	groups := make(map[string]*bucket)
	for _, r := range rows {
		label, x := key(r)
		b, ok := groups[label]
		if !ok {
			b = &bucket{label: label, x: x}
			groups[label] = b
		}
		b.acc.Add(r.Metric(metric))
	}
	return groups
}

// points orders the buckets by label order, skipping empty ones
func points(groups map[string]*bucket, order []string) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(groups))
	for _, label := range order {
		b, ok := groups[label]
		if !ok {
			continue
		}
		lower, upper := b.acc.CI95()
		out = append(out, models.ChartPoint{
			Label:   b.label,
			X:       b.x,
			Mean:    b.acc.Mean(),
			CILower: lower,
			CIUpper: upper,
			N:       b.acc.N(),
		})
	}
	return out
}

func metricLabel(metric string) string {
	if metric == models.MetricRegistered {
		return "Mean registered rentals"
	}
	return "Mean rentals"
}

func hourKey(r models.EnrichedRecord) (string, float64) {
	return strconv.Itoa(r.Hour), float64(r.Hour)
}

func hourOrder() []string {
	order := make([]string, 24)
	for h := range order {
		order[h] = strconv.Itoa(h)
	}
	return order
}

// HourlyChart plots the mean metric by hour of day
func HourlyChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	groups := groupBy(rows, spec.Metric, hourKey)
	return &models.Chart{
		Name:   ChartHourly,
		Title:  "Mean rentals by hour",
		Kind:   models.ChartKindLine,
		XLabel: "Hour of day",
		YLabel: metricLabel(spec.Metric),
		Series: []models.ChartSeries{{Name: spec.Metric, Points: points(groups, hourOrder())}},
	}
}

// DayPeriodChart compares the mean metric of the four day periods
func DayPeriodChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	groups := groupBy(rows, spec.Metric, func(r models.EnrichedRecord) (string, float64) {
		for i, p := range models.DayPeriods {
			if p == r.DayPeriod {
				return p, float64(i)
			}
		}
		return r.DayPeriod, -1
	})
	return &models.Chart{
		Name:   ChartDayPeriod,
		Title:  "Mean rentals by period of day",
		Kind:   models.ChartKindBar,
		XLabel: "Period of day",
		YLabel: metricLabel(spec.Metric),
		Series: []models.ChartSeries{{Name: spec.Metric, Points: points(groups, models.DayPeriods)}},
	}
}

// SeasonChart compares the mean metric of each season
func SeasonChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	groups := groupBy(rows, spec.Metric, func(r models.EnrichedRecord) (string, float64) {
		return r.SeasonName, float64(r.Season)
	})
	order := append(append([]string(nil), models.Seasons...), models.SeasonUnknown)
	return &models.Chart{
		Name:   ChartSeason,
		Title:  "Mean rentals by season",
		Kind:   models.ChartKindBar,
		XLabel: "Season",
		YLabel: metricLabel(spec.Metric),
		Series: []models.ChartSeries{{Name: spec.Metric, Points: points(groups, order)}},
	}
}

// WeatherChart compares the mean metric of each weather category
func WeatherChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	groups := groupBy(rows, spec.Metric, func(r models.EnrichedRecord) (string, float64) {
		return strconv.Itoa(r.Weather), float64(r.Weather)
	})

	codes := make([]int, 0, len(groups))
	for _, b := range groups {
		codes = append(codes, int(b.x))
	}
	sort.Ints(codes)
	order := make([]string, len(codes))
	for i, c := range codes {
		order[i] = strconv.Itoa(c)
	}

	return &models.Chart{
		Name:   ChartWeather,
		Title:  "Mean rentals by weather",
		Kind:   models.ChartKindBar,
		XLabel: "Weather category",
		YLabel: metricLabel(spec.Metric),
		Series: []models.ChartSeries{{Name: spec.Metric, Points: points(groups, order)}},
	}
}

// WeekdayHourlyChart plots the hourly mean metric with one series per weekday
func WeekdayHourlyChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	byDay := make(map[string][]models.EnrichedRecord)
	for _, r := range rows {
		byDay[r.DayOfWeek] = append(byDay[r.DayOfWeek], r)
	}

	chart := &models.Chart{
		Name:   ChartWeekdayHourly,
		Title:  "Hourly rentals by day of week",
		Kind:   models.ChartKindLine,
		XLabel: "Hour",
		YLabel: metricLabel(spec.Metric),
	}
	for _, day := range weekdays {
		dayRows, ok := byDay[day]
		if !ok {
			continue
		}
		groups := groupBy(dayRows, spec.Metric, hourKey)
		chart.Series = append(chart.Series, models.ChartSeries{Name: day, Points: points(groups, hourOrder())})
	}
	return chart
}

// CorrelationChart wraps the correlation matrix of the numeric columns
func CorrelationChart(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart {
	return &models.Chart{
		Name:        ChartCorrelation,
		Title:       "Correlation heatmap (numeric features)",
		Kind:        models.ChartKindHeatmap,
		Correlation: explore.Correlation(rows, explore.NumericColumns),
	}
}
