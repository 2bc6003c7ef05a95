package models

// FieldType is the closed set of custom field types the admin understands.
// Unknown types are preserved via FieldDefinition.RawType so they can still
// be displayed with the generic fallback formatting.
type FieldType int

const (
	TypeUnknown FieldType = iota
	TypeText
	TypeTextarea
	TypeNumber
	TypeEmail
	TypeURL
	TypePassword
	TypeSelect
	TypeRadio
	TypeButtonGroup
	TypeCheckbox
	TypeTrueFalse
	TypeDate
	TypeTime
	TypeDateTime
	TypeImage
	TypeFile
	TypeUserRef
	TypePostRef
)

var fieldTypeNames = map[FieldType]string{
	TypeUnknown:     "unknown",
	TypeText:        "text",
	TypeTextarea:    "textarea",
	TypeNumber:      "number",
	TypeEmail:       "email",
	TypeURL:         "url",
	TypePassword:    "password",
	TypeSelect:      "select",
	TypeRadio:       "radio",
	TypeButtonGroup: "button_group",
	TypeCheckbox:    "checkbox",
	TypeTrueFalse:   "true_false",
	TypeDate:        "date",
	TypeTime:        "time",
	TypeDateTime:    "datetime",
	TypeImage:       "image",
	TypeFile:        "file",
	TypeUserRef:     "user",
	TypePostRef:     "post_object",
}

var fieldTypesByName = map[string]FieldType{
	"text":             TypeText,
	"textarea":         TypeTextarea,
	"number":           TypeNumber,
	"email":            TypeEmail,
	"url":              TypeURL,
	"password":         TypePassword,
	"select":           TypeSelect,
	"radio":            TypeRadio,
	"button_group":     TypeButtonGroup,
	"checkbox":         TypeCheckbox,
	"true_false":       TypeTrueFalse,
	"date":             TypeDate,
	"date_picker":      TypeDate,
	"time":             TypeTime,
	"time_picker":      TypeTime,
	"datetime":         TypeDateTime,
	"date_time_picker": TypeDateTime,
	"image":            TypeImage,
	"file":             TypeFile,
	"user":             TypeUserRef,
	"post_object":      TypePostRef,
}

// ParseFieldType maps a stored type tag to a FieldType. Unrecognized tags
// map to TypeUnknown; callers keep the original string in RawType.
func ParseFieldType(s string) FieldType {
	if t, ok := fieldTypesByName[s]; ok {
		return t
	}
	return TypeUnknown
}

// String returns the canonical type tag.
func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// Sortable reports whether columns of this type may be sorted on.
func (t FieldType) Sortable() bool {
	switch t {
	case TypeText, TypeNumber, TypeEmail, TypeDate, TypeDateTime, TypeSelect, TypeRadio, TypeTrueFalse:
		return true
	}
	return false
}

// Editable reports whether values of this type may be edited inline.
func (t FieldType) Editable() bool {
	switch t {
	case TypeText, TypeTextarea, TypeNumber, TypeEmail, TypeURL, TypeSelect,
		TypeRadio, TypeCheckbox, TypeTrueFalse, TypeDate:
		return true
	}
	return false
}

// Choice is one value/label pair of a choice-based field. Order matters, so
// choices are a slice rather than a map.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition describes one custom field attachable to user records.
// Immutable once fetched for a cache cycle; keyed by Key.
type FieldDefinition struct {
	Key      string    `json:"key"`
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Type     FieldType `json:"-"`
	RawType  string    `json:"type"`
	Group    string    `json:"group"`
	Choices  []Choice  `json:"choices,omitempty"`
	Required bool      `json:"required"`
}

// ChoiceLabel resolves a stored choice value to its display label, falling
// back to the value itself.
func (f *FieldDefinition) ChoiceLabel(value string) string {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

// LocationRule is one targeting rule of a field group.
type LocationRule struct {
	Param    string `json:"param"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// FieldGroup is a named set of fields with location rules describing what
// the group attaches to.
type FieldGroup struct {
	Key      string         `json:"key"`
	Title    string         `json:"title"`
	Location []LocationRule `json:"location"`
}

// TargetsUsers reports whether any location rule attaches this group to the
// user form or to a user role.
func (g *FieldGroup) TargetsUsers() bool {
	for _, rule := range g.Location {
		if rule.Param == "user_form" || rule.Param == "user_role" {
			return true
		}
	}
	return false
}
