package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("products: not found")

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListProducts(ctx context.Context, orgID int64) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, org_id, name, price::float8, is_active, created_at, updated_at
FROM products WHERE org_id = $1 ORDER BY name, id`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.OrgID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *Repository) GetProduct(ctx context.Context, orgID, id int64) (*Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT id, org_id, name, price::float8, is_active, created_at, updated_at
FROM products WHERE id = $1 AND org_id = $2`, id, orgID).
		Scan(&p.ID, &p.OrgID, &p.Name, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateProduct(ctx context.Context, p Product) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO products (org_id, name, price, is_active, created_at, updated_at)
VALUES ($1, $2, $3, TRUE, now(), now()) RETURNING id`, p.OrgID, p.Name, p.Price).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, orgID, id int64, name *string, price *float64, isActive *bool) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET
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

// DeactivateProduct flags the product inactive; sale lines keep referencing it.
func (r *Repository) DeactivateProduct(ctx context.Context, orgID, id int64) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET is_active = FALSE, updated_at = now()
WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
