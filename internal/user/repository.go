package user

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omarsaleh/divvy/internal/database"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new registered user into the database
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	query := `
		INSERT INTO users (username, email, phone, avatar_url, is_external)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, username, email, phone, avatar_url, is_external, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, req.Username, req.Email, req.Phone, req.AvatarURL).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.IsExternal,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", database.Unavailable(err))
	}

	return user, nil
}

// CreateExternal inserts an app-less person identified by free text. The
// email uniqueness index does not apply to external rows, so the same email
// can appear on several of them.
func (r *Repository) CreateExternal(ctx context.Context, req *CreateExternalRequest) (*User, error) {
	query := `
		INSERT INTO users (username, email, phone, is_external)
		VALUES ($1, $2, $3, TRUE)
		RETURNING id, username, email, phone, avatar_url, is_external, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Email, req.Phone).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.IsExternal,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create external user: %w", database.Unavailable(err))
	}

	return user, nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, email, phone, avatar_url, is_external, created_at
		FROM users
		WHERE id = $1
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.IsExternal,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", database.Unavailable(err))
	}

	return user, nil
}

// GetByEmail retrieves a registered user by their email, case-insensitively.
// External rows are excluded because their emails are mere matching hints.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, username, email, phone, avatar_url, is_external, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND NOT is_external
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.IsExternal,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", database.Unavailable(err))
	}

	return user, nil
}

// List retrieves registered users with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM users WHERE NOT is_external`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", database.Unavailable(err))
	}

	query := `
		SELECT id, username, email, phone, avatar_url, is_external, created_at
		FROM users
		WHERE NOT is_external
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", database.Unavailable(err))
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Phone,
			&user.AvatarURL,
			&user.IsExternal,
			&user.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	return users, total, nil
}

// Update modifies an existing user
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	query := `
		UPDATE users
		SET username = COALESCE($2, username),
		    phone = COALESCE($3, phone),
		    avatar_url = COALESCE($4, avatar_url)
		WHERE id = $1
		RETURNING id, username, email, phone, avatar_url, is_external, created_at
	`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id, req.Username, req.Phone, req.AvatarURL).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Phone,
		&user.AvatarURL,
		&user.IsExternal,
		&user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update user: %w", database.Unavailable(err))
	}

	return user, nil
}

// Delete removes a user from the database
func (r *Repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", database.Unavailable(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
