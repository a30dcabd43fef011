package models

// FilterParams represents raw filter selections bound from the query string
type FilterParams struct {
	Year       string   `form:"year"`       // all, 2011, 2012
	Season     []string `form:"season"`     // repeatable or comma separated
	Weather    []string `form:"weather"`    // repeatable or comma separated codes
	WorkingDay string   `form:"workingDay"` // any, true, false, 1, 0
	HourMin    *int     `form:"hourMin"`    // 0-23
	HourMax    *int     `form:"hourMax"`    // 0-23
	Metric     string   `form:"metric"`     // count, registered
}

// PageParams represents pagination parameters for row listings
type PageParams struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// FilterSpec is a validated set of constraints over the enriched dataset.
// Year 0 selects all years and skips the year predicate.
type FilterSpec struct {
	Year       int      `json:"year"`
	Seasons    []string `json:"seasons"`
	Weather    []int    `json:"weather"`
	WorkingDay string   `json:"working_day"`
	HourMin    int      `json:"hour_min"`
	HourMax    int      `json:"hour_max"`
	Metric     string   `json:"metric"`
}

// AllYears is the FilterSpec.Year value that bypasses the year filter
const AllYears = 0

// WorkingDay selections
const (
	WorkingDayAny   = "any"
	WorkingDayTrue  = "true"
	WorkingDayFalse = "false"
)

// Domain lists the values a FilterSpec may select for the loaded dataset
type Domain struct {
	Years        []int    `json:"years"`
	Seasons      []string `json:"seasons"`
	WeatherCodes []int    `json:"weather_codes"`
	Metrics      []string `json:"metrics"`
	HourMin      int      `json:"hour_min"`
	HourMax      int      `json:"hour_max"`
}

// FilterOptions describes the selectable filter values and their defaults
type FilterOptions struct {
	Domain   Domain     `json:"domain"`
	Defaults FilterSpec `json:"defaults"`
	Charts   []string   `json:"charts"`
}

// RowPage is one page of filtered enriched records
type RowPage struct {
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Total    int              `json:"total"`
	Rows     []EnrichedRecord `json:"rows"`
}
