package analysis

import (
	"fmt"
	"testing"

	"github.com/jengzang/bikeshare-backend-go/internal/enrich"
	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

func enriched(t *testing.T, stamps []string, counts []int, seasons []int, weather []int) []models.EnrichedRecord {
	t.Helper()
	raw := make([]models.RawRecord, len(stamps))
	for i := range stamps {
		raw[i] = models.RawRecord{DateTime: stamps[i], Count: counts[i], Registered: counts[i] / 2, Season: seasons[i], Weather: weather[i]}
	}
	rows, err := enrich.Enrich(raw)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	return rows
}

var countSpec = models.FilterSpec{Metric: models.MetricCount}

func TestRegistryHasEveryChart(t *testing.T) {
	want := []string{ChartCorrelation, ChartDayPeriod, ChartHourly, ChartSeason, ChartWeather, ChartWeekdayHourly}
	got := ChartNames()
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if GetChart("pie") != nil {
		t.Fatalf("expected no builder for an unknown chart")
	}
}

func TestHourlyChartMeans(t *testing.T) {
	rows := enriched(t,
		[]string{"2011-01-01 08:00:00", "2011-01-02 08:00:00", "2011-01-01 17:00:00"},
		[]int{10, 30, 5},
		[]int{1, 1, 1},
		[]int{1, 1, 1},
	)

	chart := HourlyChart(rows, countSpec)
	pts := chart.Series[0].Points
	if len(pts) != 2 {
		t.Fatalf("expected 2 hourly points, got %d", len(pts))
	}
	if pts[0].Label != "8" || pts[0].Mean != 20 || pts[0].N != 2 {
		t.Fatalf("unexpected 8h point %+v", pts[0])
	}
	if !(pts[0].CILower < 20 && pts[0].CIUpper > 20) {
		t.Fatalf("expected interval around the mean, got %+v", pts[0])
	}
	if pts[1].Label != "17" || pts[1].Mean != 5 || pts[1].CILower != 5 {
		t.Fatalf("unexpected 17h point %+v", pts[1])
	}
}

func TestDayPeriodChartOrder(t *testing.T) {
	rows := enriched(t,
		[]string{"2011-01-01 20:00:00", "2011-01-01 02:00:00", "2011-01-01 13:00:00"},
		[]int{1, 2, 3},
		[]int{1, 1, 1},
		[]int{1, 1, 1},
	)

	pts := DayPeriodChart(rows, countSpec).Series[0].Points
	var labels []string
	for _, p := range pts {
		labels = append(labels, p.Label)
	}
	if fmt.Sprint(labels) != "[night afternoon evening]" {
		t.Fatalf("unexpected order %v", labels)
	}
}

func TestSeasonAndWeatherCharts(t *testing.T) {
	rows := enriched(t,
		[]string{"2011-07-01 10:00:00", "2011-01-01 10:00:00", "2011-04-01 10:00:00"},
		[]int{30, 10, 20},
		[]int{3, 1, 2},
		[]int{3, 1, 1},
	)
	spec := models.FilterSpec{Metric: models.MetricRegistered}

	season := SeasonChart(rows, spec).Series[0].Points
	if len(season) != 3 || season[0].Label != models.SeasonSpring || season[2].Label != models.SeasonFall {
		t.Fatalf("unexpected season points %+v", season)
	}
	if season[2].Mean != 15 {
		t.Fatalf("expected registered mean 15 for fall, got %v", season[2].Mean)
	}

	weather := WeatherChart(rows, spec).Series[0].Points
	if len(weather) != 2 || weather[0].Label != "1" || weather[1].Label != "3" {
		t.Fatalf("unexpected weather points %+v", weather)
	}
	if weather[0].Mean != 7.5 {
		t.Fatalf("expected mean 7.5 for weather 1, got %v", weather[0].Mean)
	}
}

func TestWeekdayHourlySeries(t *testing.T) {
	rows := enriched(t,
		// 2011-01-03 is a Monday, 2011-01-01 a Saturday
		[]string{"2011-01-01 09:00:00", "2011-01-03 09:00:00", "2011-01-03 10:00:00"},
		[]int{1, 2, 3},
		[]int{1, 1, 1},
		[]int{1, 1, 1},
	)

	series := WeekdayHourlyChart(rows, countSpec).Series
	if len(series) != 2 || series[0].Name != "Monday" || series[1].Name != "Saturday" {
		t.Fatalf("unexpected series %+v", series)
	}
	if len(series[0].Points) != 2 {
		t.Fatalf("expected 2 Monday points, got %d", len(series[0].Points))
	}
}

func TestChartsOnEmptyRows(t *testing.T) {
	for _, name := range ChartNames() {
		chart := GetChart(name)(nil, countSpec)
		if chart == nil {
			t.Fatalf("%s: nil chart", name)
		}
		for _, s := range chart.Series {
			if len(s.Points) != 0 {
				t.Fatalf("%s: expected no points", name)
			}
		}
	}
	if c := CorrelationChart(nil, countSpec); !c.Correlation.Insufficient {
		t.Fatalf("expected insufficient correlation for empty rows")
	}
}
