package models

// Export charsets.
const (
	CharsetUTF8   = "UTF-8"
	CharsetLatin1 = "ISO-8859-1"
)

// ExportRequest describes one CSV export. Constructed per request, never
// persisted.
type ExportRequest struct {
	HostFields   []string // host attribute keys, export order
	CustomFields []string // FieldDefinition keys, export order
	Roles        []string // role names; empty or containing "all" means no filter
	Delimiter    rune     // ',', ';' or '\t'
	Charset      string   // CharsetUTF8 or CharsetLatin1
}

// AllRoles reports whether the role filter is a no-op.
func (r *ExportRequest) AllRoles() bool {
	if len(r.Roles) == 0 {
		return true
	}
	for _, role := range r.Roles {
		if role == "all" {
			return true
		}
	}
	return false
}

// Empty reports whether no fields at all were selected.
func (r *ExportRequest) Empty() bool {
	return len(r.HostFields) == 0 && len(r.CustomFields) == 0
}

// ParseDelimiter maps the submitted delimiter token to its rune, defaulting
// to comma for anything unrecognized.
func ParseDelimiter(s string) rune {
	switch s {
	case ";":
		return ';'
	case "\t", `\t`, "tab":
		return '\t'
	default:
		return ','
	}
}
