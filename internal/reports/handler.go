package reports

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/salespulse/salespulse/internal/platform/httpx"
	"github.com/salespulse/salespulse/internal/shared"
)

const requestTimeout = 5 * time.Second

// Handler manages report endpoints.
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

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/reports", h.submitReport)
	r.Get("/reports", h.listReports)
	r.Get("/reports/{id}", h.getReport)
}

func (h *Handler) submitReport(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	var req SubmitReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Submit(ctx, sess.Tenant(), req)
	if err != nil {
		h.respondError(w, "submit report", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, report)
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	reports, err := h.service.List(ctx, sess.Tenant(), filter)
	if err != nil {
		h.respondError(w, "list reports", err)
		return
	}
	if reports == nil {
		reports = []DailyReport{}
	}
	httpx.JSON(w, http.StatusOK, reports)
}

func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "invalid id", "report id must be a positive integer")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.Get(ctx, sess.Tenant(), id)
	if err != nil {
		h.respondError(w, "get report", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrPermissionDenied):
		httpx.Problem(w, http.StatusForbidden, "forbidden", "operation not permitted for this role")
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "not found", "report not found")
	case errors.As(err, &validationErrs):
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", validationErrs.Error())
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "operation failed, retry")
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	var filter ListFilter
	values := r.URL.Query()

	if raw := strings.TrimSpace(values.Get("user_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return ListFilter{}, errors.New("bad user_id")
		}
		filter.UserID = &id
	}
	if raw := strings.TrimSpace(values.Get("from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListFilter{}, errors.New("bad from date")
		}
		filter.From = &from
	}
	if raw := strings.TrimSpace(values.Get("to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return ListFilter{}, errors.New("bad to date")
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
		return ListFilter{}, errors.New("from after to")
	}
	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page <= 0 {
			return ListFilter{}, errors.New("bad page")
		}
		filter.Page = page
	}
	if raw := strings.TrimSpace(values.Get("per_page")); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil || perPage <= 0 {
			return ListFilter{}, errors.New("bad per_page")
		}
		filter.PerPage = perPage
	}
	return filter, nil
}
