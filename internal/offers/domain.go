package offers

import "time"

// Offer is a priced pitch package, optionally tied to a product.
type Offer struct {
	ID        int64     `json:"id"`
	OrgID     int64     `json:"org_id"`
	ProductID *int64    `json:"product_id,omitempty"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateOfferRequest struct {
	Name      string  `json:"name" validate:"required,max=200"`
	Price     float64 `json:"price" validate:"gte=0"`
	ProductID *int64  `json:"product_id,omitempty" validate:"omitempty,gt=0"`
}

type UpdateOfferRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsActive *bool    `json:"is_active,omitempty"`
}
