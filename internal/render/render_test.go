package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRenderLineAndBar(t *testing.T) {
	charts := []*models.Chart{
		{
			Kind: models.ChartKindLine, Title: "hourly", XLabel: "Hour", YLabel: "Mean",
			Series: []models.ChartSeries{{Name: "count", Points: []models.ChartPoint{
				{Label: "7", X: 7, Mean: 10}, {Label: "8", X: 8, Mean: 25}, {Label: "9", X: 9, Mean: 12},
			}}},
		},
		{
			Kind: models.ChartKindLine, Title: "weekday",
			Series: []models.ChartSeries{
				{Name: "Monday", Points: []models.ChartPoint{{X: 8, Mean: 3}, {X: 9, Mean: 4}}},
				{Name: "Sunday", Points: []models.ChartPoint{{X: 8, Mean: 1}, {X: 9, Mean: 2}}},
			},
		},
		{
			Kind: models.ChartKindBar, Title: "season", YLabel: "Mean",
			Series: []models.ChartSeries{{Name: "count", Points: []models.ChartPoint{
				{Label: "spring", Mean: 100}, {Label: "summer", Mean: 200},
			}}},
		},
	}

	for _, c := range charts {
		var buf bytes.Buffer
		if err := PNG(&buf, c, Options{Width: 400, Height: 300}); err != nil {
			t.Fatalf("%s: render: %v", c.Title, err)
		}
		if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
			t.Fatalf("%s: output is not a PNG", c.Title)
		}
	}
}

func TestRenderSingleHour(t *testing.T) {
	c := &models.Chart{
		Kind:   models.ChartKindLine,
		Series: []models.ChartSeries{{Name: "count", Points: []models.ChartPoint{{X: 8, Mean: 0}}}},
	}
	var buf bytes.Buffer
	if err := PNG(&buf, c, Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer

	empty := &models.Chart{Kind: models.ChartKindBar, Series: []models.ChartSeries{{Name: "count"}}}
	if err := PNG(&buf, empty, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	emptyLine := &models.Chart{Kind: models.ChartKindLine}
	if err := PNG(&buf, emptyLine, Options{}); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}

	heatmap := &models.Chart{Kind: models.ChartKindHeatmap}
	if err := PNG(&buf, heatmap, Options{}); !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
