package repository

import (
	"context"
	"database/sql"

	"github.com/member-admin-api/internal/database"
)

// refRepo resolves user, post and attachment references stored in field
// values against host tables.
type refRepo struct {
	db *database.DB
}

// NewRefRepo creates a new reference resolver
func NewRefRepo(db *database.DB) RefRepository {
	return &refRepo{db: db}
}

// UserDisplayName returns the display name for a referenced user, or "" when
// the user no longer exists.
func (r *refRepo) UserDisplayName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx,
		"SELECT display_name FROM users WHERE id = $1", id).Scan(&name)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

// PostTitle returns the title of a referenced post, or "" when it is gone.
func (r *refRepo) PostTitle(ctx context.Context, id int64) (string, error) {
	var title string
	err := r.db.QueryRowContext(ctx,
		"SELECT title FROM posts WHERE id = $1", id).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return title, nil
}

// AttachmentURL returns the file URL and title of an attachment. Both are ""
// when the attachment is gone.
func (r *refRepo) AttachmentURL(ctx context.Context, id int64) (url, title string, err error) {
	err = r.db.QueryRowContext(ctx,
		"SELECT url, title FROM attachments WHERE id = $1", id).Scan(&url, &title)
	if err == sql.ErrNoRows {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	return url, title, nil
}

// AttachmentThumbURL returns the thumbnail URL of an attachment, falling back
// to the full URL when no thumbnail was generated.
func (r *refRepo) AttachmentThumbURL(ctx context.Context, id int64) (string, error) {
	var thumb sql.NullString
	var full string
	err := r.db.QueryRowContext(ctx,
		"SELECT thumb_url, url FROM attachments WHERE id = $1", id).Scan(&thumb, &full)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if thumb.Valid && thumb.String != "" {
		return thumb.String, nil
	}
	return full, nil
}
