package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultUnits is used when neither the catalog nor the roadmap carries a unit value.
const DefaultUnits = 3.0

// ParseUnits accepts the loosely typed unit values found in catalog data:
// numbers, numeric strings, and ranges like "3-4" (leading value wins).
// Anything unparsable yields 0.
func ParseUnits(units any) float64 {
	switch v := units.(type) {
	case nil:
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		return parseUnitString(v)
	default:
		return 0
	}
}

func parseUnitString(s string) float64 {
	s = strings.TrimLeft(strings.TrimSpace(s), "|&")
	if i := strings.Index(s, "-"); i >= 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// UnitsOr returns u when positive, otherwise the first positive fallback.
func UnitsOr(u float64, fallbacks ...float64) float64 {
	if u > 0 {
		return u
	}
	for _, f := range fallbacks {
		if f > 0 {
			return f
		}
	}
	return 0
}

// FormatUnits renders units without a trailing ".0" for whole values.
func FormatUnits(u float64) string {
	if u == float64(int64(u)) {
		return fmt.Sprintf("%d", int64(u))
	}
	return fmt.Sprintf("%.1f", u)
}
