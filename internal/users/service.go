package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/salespulse/salespulse/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	ListUsers(ctx context.Context, orgID int64) ([]User, error)
	GetUser(ctx context.Context, orgID, id int64) (*User, error)
	CreateUser(ctx context.Context, user User, passwordHash string) (int64, error)
	UpdateUser(ctx context.Context, orgID, id int64, name, role *string, isActive *bool, passwordHash *string) error
	DeactivateUser(ctx context.Context, orgID, id int64) error
}

// Service wraps team-member management rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// List returns every team member in the caller's organisation.
func (s *Service) List(ctx context.Context, tenant shared.TenantContext) ([]User, error) {
	if !tenant.Role.Has(shared.PermUserManage) {
		return nil, shared.ErrPermissionDenied
	}
	return s.store.ListUsers(ctx, tenant.OrgID)
}

// Get returns one team member.
func (s *Service) Get(ctx context.Context, tenant shared.TenantContext, id int64) (*User, error) {
	if !tenant.Role.Has(shared.PermUserManage) {
		return nil, shared.ErrPermissionDenied
	}
	return s.store.GetUser(ctx, tenant.OrgID, id)
}

// Create adds a team member with a bcrypt-hashed password.
func (s *Service) Create(ctx context.Context, tenant shared.TenantContext, req CreateUserRequest) (*User, error) {
	if !tenant.Role.Has(shared.PermUserManage) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("users: validate create: %w", err)
	}
	role, ok := shared.ParseRole(req.Role)
	if !ok {
		return nil, fmt.Errorf("users: unknown role %q", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	user := User{
		OrgID:    tenant.OrgID,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Name:     strings.TrimSpace(req.Name),
		Role:     role,
		IsActive: true,
	}
	id, err := s.store.CreateUser(ctx, user, string(hash))
	if err != nil {
		return nil, err
	}
	user.ID = id
	return &user, nil
}

// Update applies the supplied field changes to a team member.
func (s *Service) Update(ctx context.Context, tenant shared.TenantContext, id int64, req UpdateUserRequest) error {
	if !tenant.Role.Has(shared.PermUserManage) {
		return shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("users: validate update: %w", err)
	}

	var passwordHash *string
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("users: hash password: %w", err)
		}
		hashed := string(hash)
		passwordHash = &hashed
	}

	return s.store.UpdateUser(ctx, tenant.OrgID, id, req.Name, req.Role, req.IsActive, passwordHash)
}

// Deactivate disables an account without destroying its report history.
func (s *Service) Deactivate(ctx context.Context, tenant shared.TenantContext, id int64) error {
	if !tenant.Role.Has(shared.PermUserManage) {
		return shared.ErrPermissionDenied
	}
	return s.store.DeactivateUser(ctx, tenant.OrgID, id)
}
