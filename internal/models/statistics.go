package models

// Summary holds the KPI statistics of a filtered view.
// Mean and PeakHour are nil when the filtered set is empty.
type Summary struct {
	Metric   string        `json:"metric"`
	Rows     int           `json:"rows"`
	Total    int64         `json:"total"`
	Mean     *float64      `json:"mean"`
	PeakHour *int          `json:"peak_hour"`
	Spread   *Distribution `json:"distribution,omitempty"`
}

// Distribution is the five-number summary of the target metric
type Distribution struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"std_dev"`
}

// FilteredResult is the outcome of evaluating a FilterSpec
type FilteredResult struct {
	Spec    FilterSpec       `json:"spec"`
	Rows    []EnrichedRecord `json:"-"`
	Summary Summary          `json:"summary"`
}

// CorrelationMatrix holds pairwise Pearson coefficients of numeric columns.
// A nil cell means the coefficient is undefined (constant column).
type CorrelationMatrix struct {
	Columns      []string     `json:"columns"`
	Values       [][]*float64 `json:"values,omitempty"`
	Rows         int          `json:"rows"`
	Insufficient bool         `json:"insufficient"`
	Reason       string       `json:"reason,omitempty"`
}

// ChartPoint is one bucket of a chart series
type ChartPoint struct {
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Mean    float64 `json:"mean"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
	N       int     `json:"n"`
}

// ChartSeries is a named sequence of chart points
type ChartSeries struct {
	Name   string       `json:"name"`
	Points []ChartPoint `json:"points"`
}

// Chart is the presentation payload for a named chart
type Chart struct {
	Name        string             `json:"name"`
	Title       string             `json:"title"`
	Kind        string             `json:"kind"` // line, bar, heatmap
	XLabel      string             `json:"x_label"`
	YLabel      string             `json:"y_label"`
	Series      []ChartSeries      `json:"series,omitempty"`
	Correlation *CorrelationMatrix `json:"correlation,omitempty"`
}

// Chart kinds
const (
	ChartKindLine    = "line"
	ChartKindBar     = "bar"
	ChartKindHeatmap = "heatmap"
)
