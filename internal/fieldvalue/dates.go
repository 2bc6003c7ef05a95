package fieldvalue

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// Known date input layouts, tried in order; the first successful parse wins.
// The compact form comes first because it is the field store's native
// storage format. Day/month/year is tried before month/day/year, which
// makes ambiguous slash dates resolve as day-first.
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2006/01/02",
}

// Looser layouts used as a last resort before giving up on a date string.
var freeformLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

var compactDateRe = regexp.MustCompile(`^\d{8}$`)

// IsCompactDate reports whether s is the 8-digit storage form.
func IsCompactDate(s string) bool {
	return compactDateRe.MatchString(s)
}

// parseDateString runs the ordered layout chain, then the free-form
// fallbacks. Returns false when nothing matched.
func parseDateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range freeformLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseDateValue accepts a numeric unix timestamp or a date string.
func parseDateValue(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case string:
		// Numeric strings that are not the compact form are treated as
		// date strings, not timestamps; the compact form wins in the
		// layout chain anyway.
		return parseDateString(v)
	case float64:
		if v != math.Trunc(v) {
			return time.Time{}, false
		}
		return time.Unix(int64(v), 0).UTC(), true
	case int:
		return time.Unix(int64(v), 0).UTC(), true
	case int64:
		return time.Unix(v, 0).UTC(), true
	}
	return time.Time{}, false
}

// parseTimeString accepts HH:MM:SS, then HH:MM.
func parseTimeString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("15:04:05", s); err == nil {
		return t, true
	}
	if t, err := time.Parse("15:04", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
