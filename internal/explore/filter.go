package explore

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// ValidationError reports a filter selection outside its domain
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// DefaultFilter returns the selection shown before any user interaction:
// all years, every season and observed weather code, any working day,
// the whole day and the total count
func DefaultFilter(domain models.Domain) models.FilterSpec {
	seasons := domain.Seasons
	if len(seasons) == 0 {
		seasons = models.Seasons
	}
	return models.FilterSpec{
		Year:       models.AllYears,
		Seasons:    append([]string(nil), seasons...),
		Weather:    append([]int(nil), domain.WeatherCodes...),
		WorkingDay: models.WorkingDayAny,
		HourMin:    0,
		HourMax:    23,
		Metric:     models.MetricCount,
	}
}

// ParseFilter coerces raw selections into a FilterSpec and validates it
// against the domain. Missing selections take their default; a season or
// weather selection that is present but empty is rejected.
func ParseFilter(params models.FilterParams, domain models.Domain) (models.FilterSpec, error) {
	spec := DefaultFilter(domain)

	if year := strings.TrimSpace(params.Year); year != "" && !isAll(year) {
		y, err := strconv.Atoi(year)
		if err != nil {
			return spec, invalid("year", "%q is not a year", year)
		}
		spec.Year = y
	}

	if params.Season != nil {
		seasons := splitList(params.Season)
		if len(seasons) == 0 {
			return spec, invalid("season", "at least one season must be selected")
		}
		spec.Seasons = make([]string, 0, len(seasons))
		for _, s := range seasons {
			spec.Seasons = append(spec.Seasons, strings.ToLower(s))
		}
	}

	if params.Weather != nil {
		codes := splitList(params.Weather)
		if len(codes) == 0 {
			return spec, invalid("weather", "at least one weather category must be selected")
		}
		spec.Weather = make([]int, 0, len(codes))
		for _, c := range codes {
			code, err := strconv.Atoi(c)
			if err != nil {
				return spec, invalid("weather", "%q is not a weather code", c)
			}
			spec.Weather = append(spec.Weather, code)
		}
	}

	if wd := strings.TrimSpace(params.WorkingDay); wd != "" {
		switch strings.ToLower(wd) {
		case "any", "both", "all":
			spec.WorkingDay = models.WorkingDayAny
		case "true", "1", "yes":
			spec.WorkingDay = models.WorkingDayTrue
		case "false", "0", "no":
			spec.WorkingDay = models.WorkingDayFalse
		default:
			return spec, invalid("workingDay", "%q is not one of any, true, false", wd)
		}
	}

	if params.HourMin != nil {
		spec.HourMin = *params.HourMin
	}
	if params.HourMax != nil {
		spec.HourMax = *params.HourMax
	}

	if metric := strings.TrimSpace(params.Metric); metric != "" {
		spec.Metric = strings.ToLower(metric)
	}

	return Normalize(spec, domain)
}

// Normalize validates a FilterSpec against the domain and returns it with
// deduplicated, sorted selections so equal selections compare equal
func Normalize(spec models.FilterSpec, domain models.Domain) (models.FilterSpec, error) {
	if spec.Year != models.AllYears && !containsInt(domain.Years, spec.Year) {
		return spec, invalid("year", "%d is not in the dataset (available: %v)", spec.Year, domain.Years)
	}

	if len(spec.Seasons) == 0 {
		return spec, invalid("season", "at least one season must be selected")
	}
	seasons := make(map[string]bool, len(spec.Seasons))
	for _, s := range spec.Seasons {
		if !containsString(models.Seasons, s) {
			return spec, invalid("season", "%q is not one of %v", s, models.Seasons)
		}
		seasons[s] = true
	}
	spec.Seasons = spec.Seasons[:0:0]
	for _, s := range models.Seasons {
		if seasons[s] {
			spec.Seasons = append(spec.Seasons, s)
		}
	}

	if len(spec.Weather) == 0 {
		return spec, invalid("weather", "at least one weather category must be selected")
	}
	weather := make(map[int]bool, len(spec.Weather))
	for _, c := range spec.Weather {
		if !containsInt(domain.WeatherCodes, c) {
			return spec, invalid("weather", "%d is not an observed weather code (available: %v)", c, domain.WeatherCodes)
		}
		weather[c] = true
	}
	spec.Weather = make([]int, 0, len(weather))
	for c := range weather {
		spec.Weather = append(spec.Weather, c)
	}
	sort.Ints(spec.Weather)

	switch spec.WorkingDay {
	case models.WorkingDayAny, models.WorkingDayTrue, models.WorkingDayFalse:
	case "":
		spec.WorkingDay = models.WorkingDayAny
	default:
		return spec, invalid("workingDay", "%q is not one of any, true, false", spec.WorkingDay)
	}

	if spec.HourMin < 0 || spec.HourMin > 23 {
		return spec, invalid("hourMin", "%d is outside 0-23", spec.HourMin)
	}
	if spec.HourMax < 0 || spec.HourMax > 23 {
		return spec, invalid("hourMax", "%d is outside 0-23", spec.HourMax)
	}
	if spec.HourMin > spec.HourMax {
		return spec, invalid("hourRange", "min %d is greater than max %d", spec.HourMin, spec.HourMax)
	}

	switch spec.Metric {
	case models.MetricCount, models.MetricRegistered:
	case "":
		spec.Metric = models.MetricCount
	default:
		return spec, invalid("metric", "%q is not one of count, registered", spec.Metric)
	}

	return spec, nil
}

func isAll(v string) bool {
	switch strings.ToLower(v) {
	case "all", "both", "any":
		return true
	}
	return false
}

// splitList flattens repeated and comma separated values
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func containsString(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
