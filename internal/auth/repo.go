package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salespulse/salespulse/internal/shared"
)

// ErrAmbiguousEmail indicates an email resolves to more than one account.
// The schema forbids this; hitting it means the data is corrupt and no
// account may be picked arbitrarily.
var ErrAmbiguousEmail = errors.New("auth: email matches multiple accounts")

// Repository defines the persistence the auth service depends on.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error
	DeleteSession(ctx context.Context, id string) error
}

// PostgresRepository provides PostgreSQL backed persistence.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// FindByEmail looks up an account by email across organisations. Emails are
// globally unique; a second match is treated as an error rather than a pick.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, org_id, email, name, role, password_hash, is_active
FROM users WHERE lower(email) = $1 LIMIT 2`, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []User
	for rows.Next() {
		var (
			user User
			role string
		)
		if err := rows.Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &role, &user.PasswordHash, &user.IsActive); err != nil {
			return nil, err
		}
		user.Role, _ = shared.ParseRole(role)
		matches = append(matches, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, shared.ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, ErrAmbiguousEmail
	}
}

// CreateSession persists session metadata for auditability.
func (r *PostgresRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO sessions (id, user_id, expires_at, ip, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, now())
ON CONFLICT (id) DO UPDATE SET expires_at = EXCLUDED.expires_at`, id, userID, expiresAt, ip, ua)
	return err
}

// DeleteSession removes a session record.
func (r *PostgresRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}
