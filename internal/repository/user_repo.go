package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/member-admin-api/internal/database"
	"github.com/member-admin-api/internal/models"
)

// ListOptions narrows and orders a user list query.
type ListOptions struct {
	Roles   []string // empty means all roles
	Keyword string   // matches login, email and display name
	Sort    *SortSpec
	Offset  int
	Limit   int
}

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

const userColumns = "u.id, u.login, u.email, u.nicename, u.url, u.registered, u.status, u.display_name"

// GetByID retrieves a user by ID, roles included. Returns nil when the user
// does not exist.
func (r *userRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `,
			COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		WHERE u.id = $1
		GROUP BY u.id
	`
	var user models.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Login, &user.Email, &user.Nicename, &user.URL,
		&user.Registered, &user.Status, &user.DisplayName, pq.Array(&user.Roles),
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves a page of users matching the options. When a SortSpec is
// present the query joins the attribute store so that users without the
// value still appear, ordered last.
func (r *userRepo) List(ctx context.Context, opts ListOptions) ([]*models.User, error) {
	var (
		args  []interface{}
		where []string
		join  string
	)

	if opts.Sort != nil {
		args = append(args, opts.Sort.MetaKey)
		join = fmt.Sprintf("LEFT JOIN user_meta sm ON sm.user_id = u.id AND sm.meta_key = $%d", len(args))
	}
	if len(opts.Roles) > 0 {
		args = append(args, pq.Array(opts.Roles))
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_roles ur2 WHERE ur2.user_id = u.id AND ur2.role = ANY($%d))", len(args)))
	}
	if opts.Keyword != "" {
		args = append(args, "%"+opts.Keyword+"%")
		where = append(where, fmt.Sprintf(
			"(u.login ILIKE $%d OR u.email ILIKE $%[1]d OR u.display_name ILIKE $%[1]d)", len(args)))
	}

	query := `
		SELECT ` + userColumns + `,
			COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		` + join + `
	`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY u.id"
	if opts.Sort != nil {
		query += ", sm.meta_value"
	}
	query += " ORDER BY " + opts.Sort.orderClause()

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Login, &user.Email, &user.Nicename, &user.URL,
			&user.Registered, &user.Status, &user.DisplayName, pq.Array(&user.Roles),
		)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// Count returns how many users match the options, ignoring pagination and
// ordering.
func (r *userRepo) Count(ctx context.Context, opts ListOptions) (int, error) {
	var (
		args  []interface{}
		where []string
	)
	if len(opts.Roles) > 0 {
		args = append(args, pq.Array(opts.Roles))
		where = append(where, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM user_roles ur WHERE ur.user_id = u.id AND ur.role = ANY($%d))", len(args)))
	}
	if opts.Keyword != "" {
		args = append(args, "%"+opts.Keyword+"%")
		where = append(where, fmt.Sprintf(
			"(u.login ILIKE $%d OR u.email ILIKE $%[1]d OR u.display_name ILIKE $%[1]d)", len(args)))
	}

	query := "SELECT COUNT(*) FROM users u"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// StreamByRoles streams users matching the role filter one row at a time for
// export (memory efficient). An empty roles slice streams everyone.
func (r *userRepo) StreamByRoles(ctx context.Context, roles []string, callback func(*models.User) error) error {
	query := `
		SELECT ` + userColumns + `,
			COALESCE(array_agg(ur.role) FILTER (WHERE ur.role IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
	`
	var args []interface{}
	if len(roles) > 0 {
		args = append(args, pq.Array(roles))
		query += " WHERE EXISTS (SELECT 1 FROM user_roles ur2 WHERE ur2.user_id = u.id AND ur2.role = ANY($1))"
	}
	query += " GROUP BY u.id ORDER BY u.id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var user models.User
		err := rows.Scan(
			&user.ID, &user.Login, &user.Email, &user.Nicename, &user.URL,
			&user.Registered, &user.Status, &user.DisplayName, pq.Array(&user.Roles),
		)
		if err != nil {
			return err
		}
		if err := callback(&user); err != nil {
			return err
		}
	}
	return rows.Err()
}
