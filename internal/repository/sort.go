package repository

// SortSpec is a typed sort request against a custom-field column. The user
// repository turns it into an injection-safe ORDER BY; callers never hand
// over SQL fragments.
type SortSpec struct {
	// MetaKey is the value-storage key in user_meta; bound as a query
	// parameter, never interpolated.
	MetaKey string
	// Numeric selects numeric ordering of the stored value.
	Numeric bool
	// Desc flips the value ordering. Users lacking the value sort last
	// either way.
	Desc bool
}

// numericPattern matches the decimal forms the cast below accepts. Stored
// meta values are free text, so anything else has to be treated as absent
// rather than fed to CAST, which would abort the whole query.
const numericPattern = `'^-?[0-9]+(\.[0-9]+)?$'`

// orderClause renders the ORDER BY body for a sorted list query. The joined
// user_meta alias is fixed to "sm". Rows without a stored value are pushed
// last via the leading CASE regardless of direction, and u.id keeps the
// ordering stable.
func (s *SortSpec) orderClause() string {
	if s == nil {
		return "u.login ASC"
	}

	missing := "sm.meta_value IS NULL OR sm.meta_value = ''"
	value := "sm.meta_value"
	if s.Numeric {
		missing += " OR sm.meta_value !~ " + numericPattern
		value = "CASE WHEN sm.meta_value ~ " + numericPattern +
			" THEN CAST(sm.meta_value AS DOUBLE PRECISION) END"
	}

	dir := " ASC"
	if s.Desc {
		dir = " DESC"
	}

	return "CASE WHEN " + missing + " THEN 1 ELSE 0 END, " +
		value + dir + ", u.id ASC"
}
