package models

import "strings"

// ColumnPrefix namespaces custom-field columns so their keys can never
// collide with host list columns.
const ColumnPrefix = "cf_"

// ColumnKey builds the list-column key for a field key.
func ColumnKey(fieldKey string) string {
	return ColumnPrefix + fieldKey
}

// FieldKeyFromColumn strips the column prefix, reporting whether key was a
// custom-field column at all.
func FieldKeyFromColumn(columnKey string) (string, bool) {
	if !strings.HasPrefix(columnKey, ColumnPrefix) {
		return "", false
	}
	return columnKey[len(ColumnPrefix):], true
}

// Column describes one custom-field column of the user list.
type Column struct {
	Key      string   `json:"key"`   // cf_<fieldKey>
	Label    string   `json:"label"` // "Label (Group)"
	Type     string   `json:"type"`
	Sortable bool     `json:"sortable"`
	Editable bool     `json:"editable"`
	Choices  []Choice `json:"choices,omitempty"`
}

// Cell is one rendered custom-field value of a user row. Editable is true
// only when the requesting user may edit this cell; clients start every
// editable cell in the displaying state.
type Cell struct {
	Key      string      `json:"key"`
	Value    string      `json:"value"` // display-formatted
	Raw      interface{} `json:"raw,omitempty"`
	Editable bool        `json:"editable"`
	State    EditorState `json:"state,omitempty"`
}

// UserRow is one user of the customized list.
type UserRow struct {
	User  *User  `json:"user"`
	Cells []Cell `json:"cells"`
}

// ListQuery narrows and pages the user list.
type ListQuery struct {
	Role    string
	Keyword string
	SortKey string // cf_<fieldKey>; unknown or non-sortable keys are ignored
	Desc    bool
	Page    int
	PerPage int
}

// ListResult is one page of the customized user list.
type ListResult struct {
	Columns []Column  `json:"columns"`
	Rows    []UserRow `json:"rows"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
}

// FieldUpdateResult is the outcome of an inline edit. On validation failure
// Valid is false and nothing was persisted; Value always reflects what the
// list now displays.
type FieldUpdateResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Value   string `json:"value"`
}
