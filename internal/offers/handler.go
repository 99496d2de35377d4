package offers

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

// Handler manages offer endpoints.
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

// MountRoutes registers offer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/offers", h.listOffers)
	r.Post("/offers", h.createOffer)
	r.Get("/offers/{id}", h.getOffer)
	r.Patch("/offers/{id}", h.updateOffer)
	r.Delete("/offers/{id}", h.deleteOffer)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	list, err := h.service.List(ctx, tenant)
	if err != nil {
		h.respondError(w, "list offers", err)
		return
	}
	if list == nil {
		list = []Offer{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createOffer(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	var req CreateOfferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	offer, err := h.service.Create(ctx, tenant, req)
	if err != nil {
		h.respondError(w, "create offer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, offer)
}

func (h *Handler) getOffer(w http.ResponseWriter, r *http.Request) {
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

	offer, err := h.service.Get(ctx, tenant, id)
	if err != nil {
		h.respondError(w, "get offer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, offer)
}

func (h *Handler) updateOffer(w http.ResponseWriter, r *http.Request) {
	tenant, ok := requireTenant(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateOfferRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.Update(ctx, tenant, id, req); err != nil {
		h.respondError(w, "update offer", err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) deleteOffer(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Delete(ctx, tenant, id); err != nil {
		h.respondError(w, "delete offer", err)
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
		httpx.Problem(w, http.StatusNotFound, "not found", "offer not found")
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", validationErrs.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "operation failed, retry")
	}
}
