package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/infra"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	db infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(db infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{db: db}
}

const userColumns = `id, username, email, password_hash, role, active, last_login_at, created_at`

// Create inserts a new admin user.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.AdminUser) error {
	row := r.db.QueryRow(ctx, `
INSERT INTO admin_users (id, username, email, password_hash, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING created_at;
`, user.ID, strings.ToLower(user.Username), user.Email, user.PasswordHash, user.Role)
	if err := row.Scan(&user.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert admin user: %w", err)
	}
	return nil
}

// GetByUsername fetches an active admin user by username.
func (r *UserRepositoryPG) GetByUsername(ctx context.Context, username string) (*domain.AdminUser, error) {
	row := r.db.QueryRow(ctx, `
SELECT `+userColumns+` FROM admin_users WHERE username = $1 AND active;
`, strings.ToLower(username))
	return scanUser(row)
}

// GetByID fetches an admin user by id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.AdminUser, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM admin_users WHERE id = $1;`, id)
	return scanUser(row)
}

// TouchLastLogin records a successful sign-in.
func (r *UserRepositoryPG) TouchLastLogin(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `UPDATE admin_users SET last_login_at = now() WHERE id = $1;`, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.AdminUser, error) {
	var u domain.AdminUser
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Active,
		&u.LastLoginAt,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan admin user: %w", err)
	}
	return &u, nil
}
