package offers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("offers: not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListOffers(ctx context.Context, orgID int64) ([]Offer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, org_id, product_id, name, price::float8, is_active, created_at, updated_at
FROM offers WHERE org_id = $1 ORDER BY name, id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var offers []Offer
	for rows.Next() {
		var o Offer
		if err := rows.Scan(&o.ID, &o.OrgID, &o.ProductID, &o.Name, &o.Price, &o.IsActive, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}
	return offers, rows.Err()
}

func (r *Repository) GetOffer(ctx context.Context, orgID, id int64) (*Offer, error) {
	var o Offer
	err := r.pool.QueryRow(ctx, `SELECT id, org_id, product_id, name, price::float8, is_active, created_at, updated_at
FROM offers WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&o.ID, &o.OrgID, &o.ProductID, &o.Name, &o.Price, &o.IsActive, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *Repository) CreateOffer(ctx context.Context, o Offer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO offers (org_id, product_id, name, price, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, TRUE, now(), now()) RETURNING id`, o.OrgID, o.ProductID, o.Name, o.Price).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) UpdateOffer(ctx context.Context, orgID, id int64, name *string, price *float64, isActive *bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE offers SET
	name = COALESCE($3, name),
	price = COALESCE($4, price),
	is_active = COALESCE($5, is_active),
	updated_at = now()
WHERE id = $1 AND org_id = $2`, id, orgID, name, price, isActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteOffer(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offers WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
