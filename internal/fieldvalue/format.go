package fieldvalue

import (
	"context"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/member-admin-api/internal/models"
)

// Placeholder is rendered for values that are absent.
const Placeholder = "—"

const displayWordLimit = 10

// RefResolver resolves reference-typed values against host data. All methods
// degrade: a failed lookup returns an error and the formatter falls back to
// the placeholder.
type RefResolver interface {
	UserDisplayName(ctx context.Context, id int64) (string, error)
	PostTitle(ctx context.Context, id int64) (string, error)
	AttachmentURL(ctx context.Context, id int64) (url, title string, err error)
	AttachmentThumbURL(ctx context.Context, id int64) (string, error)
}

// Formatter maps raw field values to display strings or minimal markup
// fragments, per field type.
type Formatter struct {
	refs RefResolver

	dateLayout     string
	dateTimeLayout string
	timeLayout     string
	yes            string
	no             string
}

// NewFormatter creates a Formatter. refs may be nil, in which case
// reference-typed values render as the placeholder.
func NewFormatter(refs RefResolver) *Formatter {
	return &Formatter{
		refs:           refs,
		dateLayout:     "2006-01-02",
		dateTimeLayout: "2006-01-02 15:04",
		timeLayout:     "15:04",
		yes:            "Yes",
		no:             "No",
	}
}

// Format renders value for the user-list column of the given field.
func (f *Formatter) Format(ctx context.Context, value interface{}, def *models.FieldDefinition) string {
	// A false boolean is a value, not an absence, and never satisfies
	// isEmpty; absent values render as the placeholder for every type.
	if isEmpty(value) {
		return Placeholder
	}

	switch def.Type {
	case models.TypeText, models.TypeTextarea, models.TypeEmail, models.TypeURL, models.TypePassword:
		return trimWords(toString(value), displayWordLimit)

	case models.TypeNumber:
		n, ok := toFloat(value)
		if !ok {
			return toString(value)
		}
		return groupThousands(int64(math.Round(n)))

	case models.TypeSelect, models.TypeRadio, models.TypeButtonGroup:
		if arr, ok := toSlice(value); ok {
			return joinChoiceLabels(arr, def)
		}
		return def.ChoiceLabel(toString(value))

	case models.TypeCheckbox:
		if arr, ok := toSlice(value); ok {
			return joinChoiceLabels(arr, def)
		}
		return f.boolLabel(value)

	case models.TypeTrueFalse:
		return f.boolLabel(value)

	case models.TypeDate:
		if t, ok := parseDateValue(value); ok {
			return t.Format(f.dateLayout)
		}
		return toString(value)

	case models.TypeTime:
		if t, ok := parseTimeString(toString(value)); ok {
			return t.Format(f.timeLayout)
		}
		return toString(value)

	case models.TypeDateTime:
		if t, ok := parseDateValue(value); ok {
			return t.Format(f.dateTimeLayout)
		}
		return toString(value)

	case models.TypeImage:
		return f.formatImage(ctx, value)

	case models.TypeFile:
		return f.formatFile(ctx, value)

	case models.TypeUserRef:
		return f.formatRefs(ctx, value, f.resolveUser)

	case models.TypePostRef:
		return f.formatRefs(ctx, value, f.resolvePost)

	case models.TypeUnknown:
		if arr, ok := toSlice(value); ok {
			return joinValues(arr)
		}
		return trimWords(toString(value), displayWordLimit)
	}

	// Unreachable: the switch covers every FieldType constant.
	return trimWords(toString(value), displayWordLimit)
}

// FormatExport renders value for a CSV cell: never truncated, references and
// media as bare URLs or titles, empty string for absent values.
func (f *Formatter) FormatExport(ctx context.Context, value interface{}, def *models.FieldDefinition) string {
	if isEmpty(value) {
		return ""
	}

	switch def.Type {
	case models.TypeSelect, models.TypeRadio, models.TypeButtonGroup:
		if arr, ok := toSlice(value); ok {
			return joinChoiceLabels(arr, def)
		}
		return def.ChoiceLabel(toString(value))

	case models.TypeCheckbox:
		if arr, ok := toSlice(value); ok {
			return joinChoiceLabels(arr, def)
		}
		return toString(value)

	case models.TypeTrueFalse:
		return f.boolLabel(value)

	case models.TypeDate:
		if s, ok := value.(string); ok && IsCompactDate(s) {
			return s[0:4] + "-" + s[4:6] + "-" + s[6:8]
		}
		if t, ok := parseDateValue(value); ok {
			return t.Format(f.dateLayout)
		}
		return toString(value)

	case models.TypeDateTime:
		if t, ok := parseDateValue(value); ok {
			return t.Format(f.dateTimeLayout)
		}
		return toString(value)

	case models.TypeImage, models.TypeFile:
		if obj, ok := value.(map[string]interface{}); ok {
			return toString(obj["url"])
		}
		if id, ok := toInt64(value); ok && f.refs != nil {
			if url, _, err := f.refs.AttachmentURL(ctx, id); err == nil {
				return url
			}
		}
		return ""

	case models.TypeUserRef:
		return f.exportRefs(ctx, value, f.resolveUser)

	case models.TypePostRef:
		return f.exportRefs(ctx, value, f.resolvePost)
	}

	if arr, ok := toSlice(value); ok {
		return joinValues(arr)
	}
	return strings.TrimSpace(toString(value))
}

func (f *Formatter) boolLabel(value interface{}) string {
	if toBool(value) {
		return f.yes
	}
	return f.no
}

func (f *Formatter) formatImage(ctx context.Context, value interface{}) string {
	if obj, ok := value.(map[string]interface{}); ok {
		if url := toString(obj["url"]); url != "" {
			alt := toString(obj["alt"])
			return imgTag(url, alt)
		}
		return Placeholder
	}
	if id, ok := toInt64(value); ok && f.refs != nil {
		if url, err := f.refs.AttachmentThumbURL(ctx, id); err == nil && url != "" {
			return imgTag(url, "")
		}
	}
	return Placeholder
}

func (f *Formatter) formatFile(ctx context.Context, value interface{}) string {
	if obj, ok := value.(map[string]interface{}); ok {
		if url := toString(obj["url"]); url != "" {
			name := toString(obj["filename"])
			if name == "" {
				name = "File"
			}
			return linkTag(url, name)
		}
		return Placeholder
	}
	if id, ok := toInt64(value); ok && f.refs != nil {
		if url, title, err := f.refs.AttachmentURL(ctx, id); err == nil && url != "" {
			if title == "" {
				title = "File"
			}
			return linkTag(url, title)
		}
	}
	return Placeholder
}

type refResolveFunc func(ctx context.Context, id int64) (string, bool)

func (f *Formatter) resolveUser(ctx context.Context, id int64) (string, bool) {
	if f.refs == nil {
		return "", false
	}
	name, err := f.refs.UserDisplayName(ctx, id)
	return name, err == nil && name != ""
}

func (f *Formatter) resolvePost(ctx context.Context, id int64) (string, bool) {
	if f.refs == nil {
		return "", false
	}
	title, err := f.refs.PostTitle(ctx, id)
	return title, err == nil && title != ""
}

func (f *Formatter) formatRefs(ctx context.Context, value interface{}, resolve refResolveFunc) string {
	names := f.resolveAll(ctx, value, resolve)
	if len(names) == 0 {
		return Placeholder
	}
	return strings.Join(names, ", ")
}

func (f *Formatter) exportRefs(ctx context.Context, value interface{}, resolve refResolveFunc) string {
	return strings.Join(f.resolveAll(ctx, value, resolve), ", ")
}

func (f *Formatter) resolveAll(ctx context.Context, value interface{}, resolve refResolveFunc) []string {
	var ids []int64
	if arr, ok := toSlice(value); ok {
		for _, item := range arr {
			if id, ok := toInt64(item); ok {
				ids = append(ids, id)
			}
		}
	} else if id, ok := toInt64(value); ok {
		ids = append(ids, id)
	}

	var names []string
	for _, id := range ids {
		if name, ok := resolve(ctx, id); ok {
			names = append(names, name)
		}
	}
	return names
}

func joinChoiceLabels(arr []interface{}, def *models.FieldDefinition) string {
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := toString(item); s != "" {
			parts = append(parts, def.ChoiceLabel(s))
		}
	}
	return strings.Join(parts, ", ")
}

func joinValues(arr []interface{}) string {
	parts := make([]string, 0, len(arr))
	for _, item := range arr {
		if s := toString(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func imgTag(url, alt string) string {
	return fmt.Sprintf(`<img src="%s" alt="%s">`, html.EscapeString(url), html.EscapeString(alt))
}

func linkTag(url, text string) string {
	return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, html.EscapeString(url), html.EscapeString(text))
}
