package products

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salespulse/salespulse/internal/platform/httpx"
	"github.com/salespulse/salespulse/internal/shared"
)

const requestTimeout = 5 * time.Second

// Handler manages product catalogue endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers product routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.listProducts)
	r.Post("/products", h.createProduct)
	r.Get("/products/{id}", h.getProduct)
	r.Patch("/products/{id}", h.updateProduct)
	r.Delete("/products/{id}", h.deactivateProduct)
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.service.List(ctx, tenant)
	if err != nil {
		h.respondError(w, "list products", err)
		return
	}
	if list == nil {
		list = []Product{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	var req CreateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	product, err := h.service.Create(ctx, tenant, req)
	if err != nil {
		h.respondError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, product)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	product, err := h.service.Get(ctx, tenant, id)
	if err != nil {
		h.respondError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateProductRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Update(ctx, tenant, id, req); err != nil {
		h.respondError(w, "update product", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deactivateProduct(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Deactivate(ctx, tenant, id); err != nil {
		h.respondError(w, "deactivate product", err)
		return
	}
	httpx.NoContent(w)
}

func requireTenant(w http.ResponseWriter, r *http.Request) (shared.TenantContext, bool) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
		return shared.TenantContext{}, false
	}
	return sess.Tenant(), true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrPermissionDenied):
		httpx.Problem(w, http.StatusForbidden, "forbidden", "operation not permitted for this role")
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "not found", "product not found")
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", validationErrs.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "operation failed, retry")
	}
}
