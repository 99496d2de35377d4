package products

import "time"

// Product is a sellable item whose name labels sale records on the dashboard.
type Product struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Price float64 `json:"price" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}
