package fieldvalue

import (
	"net/url"
	"strings"

	"github.com/member-admin-api/internal/models"
)

// Result is the outcome of validating a submitted field value.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

func ok() Result { return Result{Valid: true} }

func fail(msg string) Result { return Result{Valid: false, Message: msg} }

// Validate checks a sanitized value against its field definition. It never
// errors; failures come back as a structured result.
func Validate(value interface{}, def *models.FieldDefinition) Result {
	if def.Required && isMissing(value) {
		return fail(def.Label + " is required")
	}
	if isMissing(value) {
		return ok()
	}

	switch def.Type {
	case models.TypeEmail:
		if !emailRe.MatchString(strings.TrimSpace(toString(value))) {
			return fail(def.Label + " must be a valid email address")
		}
	case models.TypeURL:
		s := strings.TrimSpace(toString(value))
		u, err := url.ParseRequestURI(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fail(def.Label + " must be a valid URL")
		}
	}
	return ok()
}

// isMissing implements the required-field emptiness check: nil, the empty
// string and empty slices are missing; 0 and "0" are present values.
func isMissing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	case []interface{}:
		return len(v) == 0
	}
	return false
}
