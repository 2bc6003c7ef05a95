package repository

import (
	"context"
	"database/sql"

	"github.com/member-admin-api/internal/database"
)

// metaRepo is the concrete implementation of MetaRepository
type metaRepo struct {
	db *database.DB
}

// NewMetaRepo creates a new per-user attribute repository
func NewMetaRepo(db *database.DB) MetaRepository {
	return &metaRepo{db: db}
}

// Get reads one attribute value. A missing row reads as the empty string,
// matching the attribute store's "no value" semantics.
func (r *metaRepo) Get(ctx context.Context, userID int64, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT meta_value FROM user_meta WHERE user_id = $1 AND meta_key = $2",
		userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set writes one attribute value, inserting or replacing.
func (r *metaRepo) Set(ctx context.Context, userID int64, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_meta (user_id, meta_key, meta_value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, meta_key) DO UPDATE SET meta_value = EXCLUDED.meta_value
	`, userID, key, value)
	return err
}

// Delete removes one attribute value.
func (r *metaRepo) Delete(ctx context.Context, userID int64, key string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_meta WHERE user_id = $1 AND meta_key = $2", userID, key)
	return err
}
