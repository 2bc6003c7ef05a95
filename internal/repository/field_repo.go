package repository

import (
	"context"
	"encoding/json"

	"github.com/member-admin-api/internal/database"
	"github.com/member-admin-api/internal/models"
)

// fieldRepo is the concrete implementation of FieldRepository
type fieldRepo struct {
	db *database.DB
}

// NewFieldRepo creates a new field-definition repository
func NewFieldRepo(db *database.DB) FieldRepository {
	return &fieldRepo{db: db}
}

// ListGroups returns all field groups with their location rules.
func (r *fieldRepo) ListGroups(ctx context.Context) ([]models.FieldGroup, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT group_key, title, location FROM field_groups ORDER BY title, group_key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []models.FieldGroup
	for rows.Next() {
		var g models.FieldGroup
		var location []byte
		if err := rows.Scan(&g.Key, &g.Title, &location); err != nil {
			return nil, err
		}
		if len(location) > 0 {
			if err := json.Unmarshal(location, &g.Location); err != nil {
				return nil, err
			}
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// ListFields returns the fields of one group in display order.
func (r *fieldRepo) ListFields(ctx context.Context, groupKey string) ([]models.FieldDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT field_key, name, label, field_type, choices, required
		FROM fields
		WHERE group_key = $1
		ORDER BY position, field_key
	`, groupKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fields []models.FieldDefinition
	for rows.Next() {
		var f models.FieldDefinition
		var choices []byte
		if err := rows.Scan(&f.Key, &f.Name, &f.Label, &f.RawType, &choices, &f.Required); err != nil {
			return nil, err
		}
		f.Type = models.ParseFieldType(f.RawType)
		if len(choices) > 0 {
			if err := json.Unmarshal(choices, &f.Choices); err != nil {
				return nil, err
			}
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}
