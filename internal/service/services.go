package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/member-admin-api/internal/catalog"
	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

// Sentinel errors shared by the services. Handlers map them to HTTP statuses.
var (
	ErrUnauthorized  = errors.New("not allowed")
	ErrUnknownField  = errors.New("unknown field")
	ErrNotEditable   = errors.New("field is not editable")
	ErrUserNotFound  = errors.New("user not found")
	ErrEmptyExport   = errors.New("no fields selected")
	ErrUnknownNotice = errors.New("unknown notice")
)

// SettingsService manages the enabled-columns configuration.
type SettingsService interface {
	Available(ctx context.Context) (*AvailableFields, error)
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, actor models.Actor, enabled []string) (*models.Settings, error)
}

// ListService serves the customized user list and inline edits.
type ListService interface {
	Columns(ctx context.Context) []models.Column
	ListUsers(ctx context.Context, actor models.Actor, query models.ListQuery) (*models.ListResult, error)
	UpdateField(ctx context.Context, actor models.Actor, userID int64, columnKey string, input interface{}) (*models.FieldUpdateResult, error)
}

// ExportService streams user exports.
type ExportService interface {
	ExportUsers(ctx context.Context, actor models.Actor, req models.ExportRequest, w http.ResponseWriter) error
}

// NoticeService serves and records admin notices.
type NoticeService interface {
	Pending(ctx context.Context, actor models.Actor) ([]models.Notice, error)
	Dismiss(ctx context.Context, actor models.Actor, noticeID string) error
}

// AvailableFields is the field-picker payload: everything selectable plus
// what is currently enabled, in stored order.
type AvailableFields struct {
	Fields  []models.FieldDefinition `json:"fields"`
	Enabled []string                 `json:"enabled"`
}

// Services holds all service interfaces
type Services struct {
	Settings SettingsService
	List     ListService
	Export   ExportService
	Notice   NoticeService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cat *catalog.Catalog, log zerolog.Logger) *Services {
	return &Services{
		Settings: newSettingsService(repos, cat, log),
		List:     newListService(repos, cat, log),
		Export:   newExportService(repos, cat, log),
		Notice:   newNoticeService(repos, cat, log),
	}
}
