package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/salespulse/salespulse/internal/shared"
)

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("users: not found")
	// ErrEmailTaken indicates the email is already registered.
	ErrEmailTaken = errors.New("users: email already taken")
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListUsers returns every user in the organisation.
func (r *Repository) ListUsers(ctx context.Context, orgID int64) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, org_id, email, name, role, is_active, created_at, updated_at
FROM users WHERE org_id = $1 ORDER BY name, id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// GetUser returns one user scoped to the organisation.
func (r *Repository) GetUser(ctx context.Context, orgID, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, org_id, email, name, role, is_active, created_at, updated_at
FROM users WHERE id = $1 AND org_id = $2`, id, orgID)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a user with a pre-hashed password.
func (r *Repository) CreateUser(ctx context.Context, user User, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO users (org_id, email, name, role, password_hash, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now()) RETURNING id`,
		user.OrgID, user.Email, user.Name, string(user.Role), passwordHash, user.IsActive).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrEmailTaken
		}
		return 0, err
	}
	return id, nil
}

// UpdateUser applies non-nil field updates.
func (r *Repository) UpdateUser(ctx context.Context, orgID, id int64, name, role *string, isActive *bool, passwordHash *string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET
	name = COALESCE($3, name),
	role = COALESCE($4, role),
	is_active = COALESCE($5, is_active),
	password_hash = COALESCE($6, password_hash),
	updated_at = now()
WHERE id = $1 AND org_id = $2`, id, orgID, name, role, isActive, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateUser flags the account inactive; accounts are never hard-deleted
// because reports reference them.
func (r *Repository) DeactivateUser(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = now()
WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user User
		role string
	)
	if err := row.Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	user.Role, _ = shared.ParseRole(role)
	return &user, nil
}
