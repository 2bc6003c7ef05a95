package mocks

import (
	"context"
	"fmt"
	"sort"

	"github.com/member-admin-api/internal/models"
	"github.com/member-admin-api/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users     map[int64]*models.User
	ListFunc  func(ctx context.Context, opts repository.ListOptions) ([]*models.User, error)
	ListCalls []repository.ListOptions
	Err       error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{Users: make(map[int64]*models.User)}
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) List(ctx context.Context, opts repository.ListOptions) ([]*models.User, error) {
	m.ListCalls = append(m.ListCalls, opts)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.ListFunc != nil {
		return m.ListFunc(ctx, opts)
	}
	return m.sorted(opts.Roles), nil
}

func (m *MockUserRepository) Count(ctx context.Context, opts repository.ListOptions) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.sorted(opts.Roles)), nil
}

func (m *MockUserRepository) StreamByRoles(ctx context.Context, roles []string, callback func(*models.User) error) error {
	if m.Err != nil {
		return m.Err
	}
	for _, u := range m.sorted(roles) {
		if err := callback(u); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockUserRepository) sorted(roles []string) []*models.User {
	var users []*models.User
	for _, u := range m.Users {
		if len(roles) > 0 && !hasAnyRole(u, roles) {
			continue
		}
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func hasAnyRole(u *models.User, roles []string) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// MockMetaRepository is a mock implementation of MetaRepository
type MockMetaRepository struct {
	Values   map[string]string // "<userID>/<key>"
	SetCalls int
	Err      error
	SetErr   error
}

func NewMockMetaRepository() *MockMetaRepository {
	return &MockMetaRepository{Values: make(map[string]string)}
}

func metaID(userID int64, key string) string {
	return fmt.Sprintf("%d/%s", userID, key)
}

func (m *MockMetaRepository) Get(ctx context.Context, userID int64, key string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Values[metaID(userID, key)], nil
}

func (m *MockMetaRepository) Set(ctx context.Context, userID int64, key, value string) error {
	m.SetCalls++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Values[metaID(userID, key)] = value
	return nil
}

func (m *MockMetaRepository) Delete(ctx context.Context, userID int64, key string) error {
	delete(m.Values, metaID(userID, key))
	return nil
}

// MockOptionRepository is a mock implementation of OptionRepository
type MockOptionRepository struct {
	Options  map[string]string
	SetCalls int
	Err      error
}

func NewMockOptionRepository() *MockOptionRepository {
	return &MockOptionRepository{Options: make(map[string]string)}
}

func (m *MockOptionRepository) Get(ctx context.Context, key string) (string, bool, error) {
	if m.Err != nil {
		return "", false, m.Err
	}
	value, found := m.Options[key]
	return value, found, nil
}

func (m *MockOptionRepository) Set(ctx context.Context, key, value string) error {
	m.SetCalls++
	if m.Err != nil {
		return m.Err
	}
	m.Options[key] = value
	return nil
}

func (m *MockOptionRepository) Delete(ctx context.Context, key string) error {
	delete(m.Options, key)
	return nil
}

// MockFieldRepository is a mock implementation of FieldRepository
type MockFieldRepository struct {
	Groups     []models.FieldGroup
	Fields     map[string][]models.FieldDefinition
	GroupCalls int
	Err        error
}

func NewMockFieldRepository() *MockFieldRepository {
	return &MockFieldRepository{Fields: make(map[string][]models.FieldDefinition)}
}

func (m *MockFieldRepository) ListGroups(ctx context.Context) ([]models.FieldGroup, error) {
	m.GroupCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Groups, nil
}

func (m *MockFieldRepository) ListFields(ctx context.Context, groupKey string) ([]models.FieldDefinition, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Fields[groupKey], nil
}

// MockRefRepository is a mock implementation of RefRepository
type MockRefRepository struct {
	DisplayNames map[int64]string
	Titles       map[int64]string
	URLs         map[int64]string
	ThumbURLs    map[int64]string
}

func NewMockRefRepository() *MockRefRepository {
	return &MockRefRepository{
		DisplayNames: make(map[int64]string),
		Titles:       make(map[int64]string),
		URLs:         make(map[int64]string),
		ThumbURLs:    make(map[int64]string),
	}
}

func (m *MockRefRepository) UserDisplayName(ctx context.Context, id int64) (string, error) {
	return m.DisplayNames[id], nil
}

func (m *MockRefRepository) PostTitle(ctx context.Context, id int64) (string, error) {
	return m.Titles[id], nil
}

func (m *MockRefRepository) AttachmentURL(ctx context.Context, id int64) (url, title string, err error) {
	return m.URLs[id], m.Titles[id], nil
}

func (m *MockRefRepository) AttachmentThumbURL(ctx context.Context, id int64) (string, error) {
	if thumb := m.ThumbURLs[id]; thumb != "" {
		return thumb, nil
	}
	return m.URLs[id], nil
}

// NewRepositories bundles fresh mocks into a repository set.
func NewRepositories() (*repository.Repositories, *MockUserRepository, *MockMetaRepository, *MockOptionRepository, *MockFieldRepository) {
	users := NewMockUserRepository()
	meta := NewMockMetaRepository()
	options := NewMockOptionRepository()
	fields := NewMockFieldRepository()
	repos := &repository.Repositories{
		User:   users,
		Meta:   meta,
		Option: options,
		Field:  fields,
		Ref:    NewMockRefRepository(),
	}
	return repos, users, meta, options, fields
}
