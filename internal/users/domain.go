package users

import (
	"time"

	"github.com/salespulse/salespulse/internal/shared"
)

// User represents a team member account.
type User struct {
	ID        int64       `json:"id"`
	OrgID     int64       `json:"org_id"`
	Email     string      `json:"email"`
	Name      string      `json:"name"`
	Role      shared.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// CreateUserRequest is the payload for adding a team member.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required,oneof=manager sales_rep setter"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest carries optional field updates.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Role     *string `json:"role,omitempty" validate:"omitempty,oneof=manager sales_rep setter"`
	IsActive *bool   `json:"is_active,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=72"`
}
