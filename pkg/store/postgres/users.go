package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mockerhub/registry/pkg/registry"
)

// UserStore persists users in PostgreSQL.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a user store on an open database handle.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a user and fills in the generated id and join date.
func (s *UserStore) Create(ctx context.Context, user *registry.User) error {
	query := `
		INSERT INTO users (email, username, role, hashed_password, must_change_password, join_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	now := time.Now()
	err := s.db.QueryRowContext(ctx, query,
		user.Email,
		user.Username,
		user.Role,
		user.HashedPassword,
		user.MustChangePassword,
		now,
	).Scan(&user.ID)

	if err != nil {
		if taken := translateUnique(err); taken != err {
			return taken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.JoinDate = now
	return nil
}

const userColumns = `id, email, username, role, hashed_password, must_change_password, join_date`

func (s *UserStore) scanUser(row *sql.Row) (*registry.User, error) {
	var user registry.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.HashedPassword,
		&user.MustChangePassword,
		&user.JoinDate,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by id.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*registry.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityUser, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByUsername retrieves a user by username.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*registry.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, username))
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityUser, username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*registry.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, registry.NotFound(registry.EntityUser, email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdatePassword replaces the stored hash and sets the must-change flag.
func (s *UserStore) UpdatePassword(ctx context.Context, id int64, hashedPassword string, mustChange bool) error {
	query := `UPDATE users SET hashed_password = $1, must_change_password = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, hashedPassword, mustChange, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return registry.NotFound(registry.EntityUser, id)
	}
	return nil
}

// HasSuperAdmin reports whether any superadmin account exists.
func (s *UserStore) HasSuperAdmin(ctx context.Context) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, registry.RoleSuperAdmin).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check for superadmin: %w", err)
	}
	return exists, nil
}
