package speedlimit

import (
	"regexp"
	"strconv"
	"strings"
)

// MphToKmh converts miles per hour to kilometers per hour.
const MphToKmh = 1.60934

// textLimits maps known textual maxspeed values to km/h. Country-prefixed
// variants carry the same defaults as their generic class names.
var textLimits = map[string]float64{
	"RS:urban":    50,
	"RS:rural":    80,
	"RS:trunk":    100,
	"RS:motorway": 120,
	"urban":       50,
	"rural":       80,
	"trunk":       100,
	"motorway":    120,
	"walk":        5,
}

var numericToken = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParseMaxspeed parses a raw OSM maxspeed string into km/h. Handles plain
// numbers ("50", "50 km/h"), mph values ("30 mph"), and the textual codes in
// textLimits. "none" and anything without a numeric token are unparseable;
// the second return is false for those.
func ParseMaxspeed(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "none" {
		return 0, false
	}

	if v, ok := textLimits[raw]; ok {
		return v, true
	}

	token := numericToken.FindString(raw)
	if token == "" {
		return 0, false
	}

	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}

	if strings.Contains(strings.ToLower(raw), "mph") {
		value *= MphToKmh
	}

	return value, true
}
