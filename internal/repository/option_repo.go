package repository

import (
	"context"
	"database/sql"

	"github.com/member-admin-api/internal/database"
)

// optionRepo is the concrete implementation of OptionRepository
type optionRepo struct {
	db *database.DB
}

// NewOptionRepo creates a new site-wide option repository
func NewOptionRepo(db *database.DB) OptionRepository {
	return &optionRepo{db: db}
}

// Get reads one option. found is false when the key has never been set.
func (r *optionRepo) Get(ctx context.Context, key string) (value string, found bool, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT option_value FROM options WHERE option_key = $1", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes one option, inserting or replacing.
func (r *optionRepo) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO options (option_key, option_value)
		VALUES ($1, $2)
		ON CONFLICT (option_key) DO UPDATE SET option_value = EXCLUDED.option_value
	`, key, value)
	return err
}

// Delete removes one option.
func (r *optionRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM options WHERE option_key = $1", key)
	return err
}
