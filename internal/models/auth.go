package models

// Actor is the authenticated caller of a request, decoded from its token.
type Actor struct {
	UserID int64    `json:"user_id"`
	Roles  []string `json:"roles"`
}

// IsAdmin reports whether the actor carries the administrator role.
func (a *Actor) IsAdmin() bool {
	for _, r := range a.Roles {
		if r == RoleAdministrator {
			return true
		}
	}
	return false
}

// CanEditUser reports whether the actor may edit the given user's fields:
// administrators may edit anyone, everyone may edit themselves.
func (a *Actor) CanEditUser(userID int64) bool {
	return a.IsAdmin() || a.UserID == userID
}
