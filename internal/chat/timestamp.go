package chat

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultLayout renders normalized timestamps.
const DefaultLayout = "Jan 2, 15:04"

// secondsBoundary separates Unix seconds from Unix milliseconds: smaller
// magnitudes are seconds.
const secondsBoundary = 1e10

// NormalizeTimestamp converts a backend timestamp into a display string.
// Numbers and numeric strings are Unix seconds below 1e10 and Unix
// milliseconds otherwise. RFC 3339 strings are reformatted; any other
// non-empty string is taken to be display-ready. Everything else, including
// NaN and infinities, yields "".
func NormalizeTimestamp(v any, loc *time.Location, layout string) string {
	if loc == nil {
		loc = time.Local
	}
	if layout == "" {
		layout = DefaultLayout
	}

	switch x := v.(type) {
	case nil:
		return ""
	case gjson.Result:
		return normalizeResult(x, loc, layout)
	case string:
		return normalizeString(x, loc, layout)
	case json.Number:
		return normalizeString(x.String(), loc, layout)
	case float64:
		return formatEpoch(x, loc, layout)
	case float32:
		return formatEpoch(float64(x), loc, layout)
	case int:
		return formatEpoch(float64(x), loc, layout)
	case int64:
		return formatEpoch(float64(x), loc, layout)
	case int32:
		return formatEpoch(float64(x), loc, layout)
	case uint64:
		return formatEpoch(float64(x), loc, layout)
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.In(loc).Format(layout)
	default:
		return ""
	}
}

func normalizeResult(r gjson.Result, loc *time.Location, layout string) string {
	switch r.Type {
	case gjson.Number:
		return normalizeString(r.Raw, loc, layout)
	case gjson.String:
		return normalizeString(r.Str, loc, layout)
	default:
		return ""
	}
}

func normalizeString(s string, loc *time.Location, layout string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return formatEpoch(f, loc, layout)
	}
	for _, l := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(l, s); err == nil {
			return t.In(loc).Format(layout)
		}
	}
	if lower := strings.ToLower(s); lower == "null" || lower == "undefined" {
		return ""
	}
	return s
}

func formatEpoch(f float64, loc *time.Location, layout string) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	var t time.Time
	if math.Abs(f) < secondsBoundary {
		sec, frac := math.Modf(f)
		t = time.Unix(int64(sec), int64(frac*1e9))
	} else {
		t = time.UnixMilli(int64(f))
	}
	return t.In(loc).Format(layout)
}
