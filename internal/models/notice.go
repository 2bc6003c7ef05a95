package models

// Notice kinds.
const (
	NoticeError = "error"
	NoticeInfo  = "info"
)

// Known notice ids.
const (
	// NoticeMissingFieldSource is shown while the field-definition source
	// is unreachable. Not dismissible; it clears itself on recovery.
	NoticeMissingFieldSource = "missing_field_source"
	// NoticeFeedback is the informational feedback prompt. Dismissing it
	// pauses it per user for two months.
	NoticeFeedback = "feedback"
)

// NoticeDismissalPrefix prefixes the per-user attribute key that records a
// dismissal timestamp.
const NoticeDismissalPrefix = "notice_dismissed_"

// Notice is one pending admin notice for the requesting user.
type Notice struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}
