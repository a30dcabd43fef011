// Package analysis builds the chart payloads derived from a filtered view.
package analysis

import (
	"sort"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// ChartBuilder builds a chart from the rows of a filtered view
type ChartBuilder func(rows []models.EnrichedRecord, spec models.FilterSpec) *models.Chart

// ChartRegistry maps chart names to builders
var ChartRegistry = make(map[string]ChartBuilder)

// RegisterChart registers a chart builder under name
func RegisterChart(name string, builder ChartBuilder) {
	ChartRegistry[name] = builder
}

// GetChart returns the builder registered under name, or nil
func GetChart(name string) ChartBuilder {
	return ChartRegistry[name]
}

// ChartNames returns the registered chart names in sorted order
func ChartNames() []string {
	names := make([]string, 0, len(ChartRegistry))
	for name := range ChartRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
