package fieldvalue

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/member-admin-api/internal/models"
)

var (
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	wsRe    = regexp.MustCompile(`[\t\n\r ]+`)
)

// Sanitize maps a user-submitted edit value to its storable form, directed
// by field type. Invalid input degrades to a safe zero value rather than
// erroring.
func Sanitize(input interface{}, t models.FieldType) interface{} {
	switch t {
	case models.TypeEmail:
		s := strings.TrimSpace(toString(input))
		if !emailRe.MatchString(s) {
			return ""
		}
		return s

	case models.TypeURL:
		s := strings.TrimSpace(toString(input))
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return ""
		}
		return s

	case models.TypeNumber:
		n, ok := toFloat(input)
		if !ok {
			return float64(0)
		}
		return n

	case models.TypeDate:
		// Only the compact storage form is accepted from edits.
		s := strings.TrimSpace(toString(input))
		if !IsCompactDate(s) {
			return ""
		}
		return s

	case models.TypeTrueFalse:
		if toBool(input) {
			return 1
		}
		return 0

	case models.TypeCheckbox:
		arr, ok := toSlice(input)
		if !ok {
			if s := sanitizeText(toString(input)); s != "" {
				return []string{s}
			}
			return []string{}
		}
		out := make([]string, 0, len(arr))
		for _, item := range arr {
			if s := sanitizeText(toString(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}

	return sanitizeText(toString(input))
}

// sanitizeText strips markup and control whitespace from a plain text value.
func sanitizeText(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
