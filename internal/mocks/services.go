package mocks

import (
	"context"
	"net/http"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/service"
)

// MockSettingsService is a mock implementation of SettingsService
type MockSettingsService struct {
	Settings    *models.Settings
	Fields      []models.FieldDefinition
	UpdateCalls [][]string
	Err         error
}

func NewMockSettingsService() *MockSettingsService {
	return &MockSettingsService{Settings: &models.Settings{EnabledFields: []string{}}}
}

func (m *MockSettingsService) Available(ctx context.Context) (*service.AvailableFields, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return &service.AvailableFields{Fields: m.Fields, Enabled: m.Settings.EnabledFields}, nil
}

func (m *MockSettingsService) Get(ctx context.Context) (*models.Settings, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Settings, nil
}

func (m *MockSettingsService) Update(ctx context.Context, actor models.Actor, enabled []string) (*models.Settings, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if !actor.IsAdmin() {
		return nil, service.ErrUnauthorized
	}
	m.UpdateCalls = append(m.UpdateCalls, enabled)
	m.Settings = &models.Settings{EnabledFields: enabled}
	return m.Settings, nil
}

// MockListService is a mock implementation of ListService
type MockListService struct {
	Result       *models.ListResult
	UpdateResult *models.FieldUpdateResult
	LastQuery    models.ListQuery
	Err          error
}

func NewMockListService() *MockListService {
	return &MockListService{Result: &models.ListResult{Columns: []models.Column{}, Rows: []models.UserRow{}}}
}

func (m *MockListService) Columns(ctx context.Context) []models.Column {
	return m.Result.Columns
}

func (m *MockListService) ListUsers(ctx context.Context, actor models.Actor, query models.ListQuery) (*models.ListResult, error) {
	m.LastQuery = query
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Result, nil
}

func (m *MockListService) UpdateField(ctx context.Context, actor models.Actor, userID int64, columnKey string, input interface{}) (*models.FieldUpdateResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.UpdateResult, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	LastRequest models.ExportRequest
	Body        string
	Err         error
}

func (m *MockExportService) ExportUsers(ctx context.Context, actor models.Actor, req models.ExportRequest, w http.ResponseWriter) error {
	m.LastRequest = req
	if m.Err != nil {
		return m.Err
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	_, err := w.Write([]byte(m.Body))
	return err
}

// MockNoticeService is a mock implementation of NoticeService
type MockNoticeService struct {
	Notices   []models.Notice
	Dismissed []string
	Err       error
}

func (m *MockNoticeService) Pending(ctx context.Context, actor models.Actor) ([]models.Notice, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Notices, nil
}

func (m *MockNoticeService) Dismiss(ctx context.Context, actor models.Actor, noticeID string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Dismissed = append(m.Dismissed, noticeID)
	return nil
}
