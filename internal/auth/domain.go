package auth

import "github.com/salespulse/salespulse/internal/shared"

// User carries the credential-bearing account used during login.
type User struct {
	ID           int64
	OrgID        int64
	Email        string
	Name         string
	Role         shared.Role
	PasswordHash string
	IsActive     bool
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse echoes the authenticated identity.
type LoginResponse struct {
	UserID int64       `json:"user_id"`
	OrgID  int64       `json:"org_id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   shared.Role `json:"role"`
}
