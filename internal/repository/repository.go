package repository

import (
	"context"

	"github.com/member-admin-api/internal/database"
	"github.com/member-admin-api/internal/models"
)

// UserRepository defines the interface for user record access.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, opts ListOptions) ([]*models.User, error)
	Count(ctx context.Context, opts ListOptions) (int, error)
	StreamByRoles(ctx context.Context, roles []string, callback func(*models.User) error) error
}

// MetaRepository is the per-user attribute store: arbitrary named string
// values per user id.
type MetaRepository interface {
	Get(ctx context.Context, userID int64, key string) (string, error)
	Set(ctx context.Context, userID int64, key, value string) error
	Delete(ctx context.Context, userID int64, key string) error
}

// OptionRepository is the process-wide key-value settings store.
type OptionRepository interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// FieldRepository is the field-definition source.
type FieldRepository interface {
	ListGroups(ctx context.Context) ([]models.FieldGroup, error)
	ListFields(ctx context.Context, groupKey string) ([]models.FieldDefinition, error)
}

// RefRepository resolves reference-typed field values against host data.
// It satisfies fieldvalue.RefResolver.
type RefRepository interface {
	UserDisplayName(ctx context.Context, id int64) (string, error)
	PostTitle(ctx context.Context, id int64) (string, error)
	AttachmentURL(ctx context.Context, id int64) (url, title string, err error)
	AttachmentThumbURL(ctx context.Context, id int64) (string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	User   UserRepository
	Meta   MetaRepository
	Option OptionRepository
	Field  FieldRepository
	Ref    RefRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		User:   NewUserRepo(db),
		Meta:   NewMetaRepo(db),
		Option: NewOptionRepo(db),
		Field:  NewFieldRepo(db),
		Ref:    NewRefRepo(db),
	}
}
