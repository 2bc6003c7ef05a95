package models

// SettingsKey is the options-store key holding the column settings.
const SettingsKey = "member_admin_settings"

// Settings is the persisted column configuration: an ordered sequence of
// field keys enabled as extra user-list columns.
type Settings struct {
	EnabledFields []string `json:"enabled_fields"`
}

// Dedupe returns the enabled keys with duplicates removed, first occurrence
// wins, order preserved.
func (s *Settings) Dedupe() []string {
	seen := make(map[string]bool, len(s.EnabledFields))
	out := make([]string, 0, len(s.EnabledFields))
	for _, key := range s.EnabledFields {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}
