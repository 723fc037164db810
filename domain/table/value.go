package table

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the accepted datetime formats, tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02-01-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// IsNull reports whether a cell counts as missing: nil, or a string that is
// empty after trimming.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// ParseFloat coerces a cell to a float64 when possible. Thousands
// separators and a leading currency marker are tolerated so that values
// like "$1,234.50" still count as numeric.
func ParseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		s = strings.TrimLeft(s, "$€£")
		s = strings.ReplaceAll(s, ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ParseBool coerces a cell to a boolean. Accepted tokens mirror the common
// spreadsheet vocabulary: true/false, yes/no, y/n.
func ParseBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes", "y":
			return true, true
		case "false", "no", "n":
			return false, true
		}
	}
	return false, false
}

// ParseTime coerces a cell to a timestamp using the fixed layout list.
func ParseTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Stringify renders a cell for display and sample collection.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02")
	}
	return fmt.Sprintf("%v", v)
}
