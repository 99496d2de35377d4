package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/salespulse/salespulse/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	ListProducts(ctx context.Context, orgID int64) ([]Product, error)
	GetProduct(ctx context.Context, orgID, id int64) (*Product, error)
	CreateProduct(ctx context.Context, p Product) (int64, error)
	UpdateProduct(ctx context.Context, orgID, id int64, name *string, price *float64, isActive *bool) error
	DeactivateProduct(ctx context.Context, orgID, id int64) error
}

// Service wraps product catalogue rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// List returns the organisation's product catalogue. Any authenticated role
// may read it; only managers may change it.
func (s *Service) List(ctx context.Context, tenant shared.TenantContext) ([]Product, error) {
	return s.store.ListProducts(ctx, tenant.OrgID)
}

func (s *Service) Get(ctx context.Context, tenant shared.TenantContext, id int64) (*Product, error) {
	return s.store.GetProduct(ctx, tenant.OrgID, id)
}

func (s *Service) Create(ctx context.Context, tenant shared.TenantContext, req CreateProductRequest) (*Product, error) {
	if !tenant.Role.Has(shared.PermProductManage) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("products: validate create: %w", err)
	}
	product := Product{
		OrgID:    tenant.OrgID,
		Name:     strings.TrimSpace(req.Name),
		Price:    req.Price,
		IsActive: true,
	}
	id, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	product.ID = id
	return &product, nil
}

func (s *Service) Update(ctx context.Context, tenant shared.TenantContext, id int64, req UpdateProductRequest) error {
	if !tenant.Role.Has(shared.PermProductManage) {
		return shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("products: validate update: %w", err)
	}
	return s.store.UpdateProduct(ctx, tenant.OrgID, id, req.Name, req.Price, req.IsActive)
}

func (s *Service) Deactivate(ctx context.Context, tenant shared.TenantContext, id int64) error {
	if !tenant.Role.Has(shared.PermProductManage) {
		return shared.ErrPermissionDenied
	}
	return s.store.DeactivateProduct(ctx, tenant.OrgID, id)
}
