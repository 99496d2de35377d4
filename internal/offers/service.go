package offers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/salespulse/salespulse/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	ListOffers(ctx context.Context, orgID int64) ([]Offer, error)
	GetOffer(ctx context.Context, orgID, id int64) (*Offer, error)
	CreateOffer(ctx context.Context, o Offer) (int64, error)
	UpdateOffer(ctx context.Context, orgID, id int64, name *string, price *float64, isActive *bool) error
	DeleteOffer(ctx context.Context, orgID, id int64) error
}

// Service wraps offer catalogue rules.
type Service struct {
	store    Store
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

func (s *Service) List(ctx context.Context, tenant shared.TenantContext) ([]Offer, error) {
	return s.store.ListOffers(ctx, tenant.OrgID)
}

func (s *Service) Get(ctx context.Context, tenant shared.TenantContext, id int64) (*Offer, error) {
	return s.store.GetOffer(ctx, tenant.OrgID, id)
}

func (s *Service) Create(ctx context.Context, tenant shared.TenantContext, req CreateOfferRequest) (*Offer, error) {
	if !tenant.Role.Has(shared.PermOfferManage) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("offers: validate create: %w", err)
	}
	offer := Offer{
		OrgID:     tenant.OrgID,
		ProductID: req.ProductID,
		Name:      strings.TrimSpace(req.Name),
		Price:     req.Price,
		IsActive:  true,
	}
	id, err := s.store.CreateOffer(ctx, offer)
	if err != nil {
		return nil, err
	}
	offer.ID = id
	return &offer, nil
}

func (s *Service) Update(ctx context.Context, tenant shared.TenantContext, id int64, req UpdateOfferRequest) error {
	if !tenant.Role.Has(shared.PermOfferManage) {
		return shared.ErrPermissionDenied
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("offers: validate update: %w", err)
	}
	return s.store.UpdateOffer(ctx, tenant.OrgID, id, req.Name, req.Price, req.IsActive)
}

func (s *Service) Delete(ctx context.Context, tenant shared.TenantContext, id int64) error {
	if !tenant.Role.Has(shared.PermOfferManage) {
		return shared.ErrPermissionDenied
	}
	return s.store.DeleteOffer(ctx, tenant.OrgID, id)
}
