package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jengzang/bikeshare-backend-go/internal/models"
)

// FilterKey builds the cache key of a filter evaluation. Pass a normalized
// FilterSpec so that equal selections produce equal keys.
func FilterKey(kind, fingerprint string, spec models.FilterSpec) string {
	weather := make([]string, len(spec.Weather))
	for i, w := range spec.Weather {
		weather[i] = strconv.Itoa(w)
	}

	return makeKey(
		kind,
		fingerprint,
		"year="+strconv.Itoa(spec.Year),
		"seasons="+strings.Join(spec.Seasons, ","),
		"weather="+strings.Join(weather, ","),
		"workingday="+spec.WorkingDay,
		"hours="+strconv.Itoa(spec.HourMin)+"-"+strconv.Itoa(spec.HourMax),
		"metric="+spec.Metric,
	)
}

func makeKey(parts ...string) string {
	joined := strings.Join(parts, "|")
	h := sha1.Sum([]byte(joined))
	return parts[0] + ":" + hex.EncodeToString(h[:])
}
