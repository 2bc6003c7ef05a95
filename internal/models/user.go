package models

import (
	"time"
)

// User represents a user record. Custom-field values are not embedded; they
// are read per (user, field) pair from the meta store.
type User struct {
	ID          int64     `json:"id" db:"id"`
	Login       string    `json:"login" db:"login"`
	Email       string    `json:"email" db:"email"`
	Nicename    string    `json:"nicename" db:"nicename"`
	URL         string    `json:"url" db:"url"`
	Registered  time.Time `json:"registered" db:"registered"`
	Status      int       `json:"status" db:"status"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Roles       []string  `json:"roles"`
}

// HasRole reports whether the user carries the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RoleAdministrator is the role required for settings and export actions.
const RoleAdministrator = "administrator"

// HostFields lists the host user attributes selectable for export, in the
// order they appear in the export field picker.
var HostFields = []struct {
	Key   string
	Label string
}{
	{"id", "User ID"},
	{"login", "Username"},
	{"email", "Email"},
	{"nicename", "Nicename"},
	{"url", "Website"},
	{"registered", "Registration Date"},
	{"status", "User Status"},
	{"display_name", "Display Name"},
	{"first_name", "First Name"},
	{"last_name", "Last Name"},
	{"nickname", "Nickname"},
	{"description", "Biographical Info"},
	{"locale", "Language"},
	{"roles", "Roles"},
}

// HostFieldLabel returns the display label for a host field key, falling
// back to the key itself.
func HostFieldLabel(key string) string {
	for _, f := range HostFields {
		if f.Key == key {
			return f.Label
		}
	}
	return key
}

// IsHostField reports whether key names a selectable host field.
func IsHostField(key string) bool {
	for _, f := range HostFields {
		if f.Key == key {
			return true
		}
	}
	return false
}
