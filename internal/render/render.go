// Package render draws chart payloads as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

var (
	// ErrNoData is returned when a chart has nothing to draw
	ErrNoData = errors.New("chart has no data points")
	// ErrUnsupported is returned for chart kinds without an image form
	ErrUnsupported = errors.New("chart kind cannot be rendered as an image")
)

// Default image size in pixels
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

var accent = drawing.ColorFromHex("2e86de")

// Options controls the output image
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return w, h
}

// PNG renders c into w
func PNG(w io.Writer, c *models.Chart, opts Options) error {
	switch c.Kind {
	case models.ChartKindLine:
		return renderLine(w, c, opts)
	case models.ChartKindBar:
		return renderBar(w, c, opts)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, c.Kind)
	}
}

func renderLine(w io.Writer, c *models.Chart, opts Options) error {
	width, height := opts.size()

	var series []chart.Series
	maxY := 0.0
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, s := range c.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.X, p.Mean
			maxY = math.Max(maxY, p.Mean)
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		}

		style := chart.Style{StrokeWidth: 2, DotWidth: 3}
		if len(c.Series) == 1 {
			style.StrokeColor = accent
			style.DotColor = accent
		} else {
			color := chart.GetDefaultColor(i)
			style.StrokeColor = color
			style.DotColor = color
		}
		series = append(series, chart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys, Style: style})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	// A single hour would otherwise give a zero-width axis
	if maxX-minX < 1 {
		minX, maxX = minX-1, maxX+1
	}

	ch := chart.Chart{
		Title:  c.Title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           c.XLabel,
			Range:          &chart.ContinuousRange{Min: minX, Max: maxX},
			ValueFormatter: integerFormatter,
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)},
		},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	return ch.Render(chart.PNG, w)
}

func renderBar(w io.Writer, c *models.Chart, opts Options) error {
	width, height := opts.size()
	if len(c.Series) == 0 || len(c.Series[0].Points) == 0 {
		return ErrNoData
	}

	points := c.Series[0].Points
	bars := make([]chart.Value, len(points))
	maxY := 0.0
	for i, p := range points {
		bars[i] = chart.Value{
			Label: p.Label,
			Value: p.Mean,
			Style: chart.Style{FillColor: accent.WithAlpha(uint8(255 - 150*i/len(points))), StrokeColor: accent},
		}
		maxY = math.Max(maxY, p.Mean)
	}

	bc := chart.BarChart{
		Title:    c.Title,
		Width:    width,
		Height:   height,
		BarWidth: barWidth(width, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name:  c.YLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: upperBound(maxY)},
		},
		Bars: bars,
	}

	return bc.Render(chart.PNG, w)
}

// upperBound leaves headroom above the highest value and avoids an empty range
func upperBound(max float64) float64 {
	if max <= 0 {
		return 1
	}
	return max * 1.1
}

func barWidth(width, n int) int {
	bw := width / (2 * n)
	if bw > 120 {
		bw = 120
	}
	if bw < 10 {
		bw = 10
	}
	return bw
}

func integerFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
