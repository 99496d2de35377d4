package metricshttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/salespulse/salespulse/internal/metrics"
	"github.com/salespulse/salespulse/internal/metrics/export"
	"github.com/salespulse/salespulse/internal/platform/httpx"
	"github.com/salespulse/salespulse/internal/shared"
)

const requestTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// MetricsService defines the dashboard data contract used by the handler.
type MetricsService interface {
	GetSummary(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter) (metrics.Summary, error)
	GetRevenueSeries(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter, g metrics.Granularity) ([]metrics.Bucket, error)
	ComputeGrowth(ctx context.Context, tenant shared.TenantContext, g metrics.Granularity, filter metrics.QueryFilter) (metrics.GrowthReport, error)
	GetSnapshot(ctx context.Context, tenant shared.TenantContext, filter metrics.QueryFilter, g metrics.Granularity) (metrics.Snapshot, error)
}

// Handler serves the dashboard metrics API.
type Handler struct {
	logger  *slog.Logger
	service MetricsService
	now     func() time.Time

	streamService *metrics.Service
	streamClient  *redis.Client
}

// NewHandler constructs the metrics HTTP handler.
func NewHandler(logger *slog.Logger, service MetricsService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

type query struct {
	tenant      shared.TenantContext
	filter      metrics.QueryFilter
	granularity metrics.Granularity
}

type summaryResponse struct {
	metrics.Summary
	CloseRate          float64 `json:"close_rate"`
	AvgRevenuePerClose float64 `json:"avg_revenue_per_close"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.service.GetSnapshot(ctx, q.tenant, q.filter, q.granularity)
	if err != nil {
		h.respondFetchError(w, "load dashboard", err)
		return
	}

	httpx.JSON(w, http.StatusOK, struct {
		Summary summaryResponse      `json:"summary"`
		Series  []metrics.Bucket     `json:"series"`
		Growth  metrics.GrowthReport `json:"growth"`
	}{
		Summary: withRatios(snap.Summary),
		Series:  snap.Series,
		Growth:  snap.Growth,
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := h.service.GetSummary(ctx, q.tenant, q.filter)
	if err != nil {
		h.respondFetchError(w, "load summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, withRatios(summary))
}

func (h *Handler) handleRevenueSeries(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	buckets, err := h.service.GetRevenueSeries(ctx, q.tenant, q.filter, q.granularity)
	if err != nil {
		h.respondFetchError(w, "load revenue series", err)
		return
	}
	httpx.JSON(w, http.StatusOK, buckets)
}

func (h *Handler) handleGrowth(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	report, err := h.service.ComputeGrowth(ctx, q.tenant, q.granularity, q.filter)
	if err != nil {
		h.respondFetchError(w, "compute growth", err)
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

func (h *Handler) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}
	if !q.tenant.Role.Has(shared.PermMetricsExport) {
		httpx.Problem(w, http.StatusForbidden, "forbidden", "export not permitted for this role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	snap, err := h.service.GetSnapshot(ctx, q.tenant, q.filter, q.granularity)
	if err != nil {
		h.respondFetchError(w, "load export", err)
		return
	}

	filename := fmt.Sprintf("sales-metrics-%s.csv", h.now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := export.WriteSummaryCSV(w, snap.Summary); err != nil {
		h.logError("write summary csv", err)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return
	}
	if err := export.WriteSeriesCSV(w, snap.Series); err != nil {
		h.logError("write series csv", err)
		return
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return
	}
	if err := export.WriteGrowthCSV(w, snap.Growth); err != nil {
		h.logError("write growth csv", err)
	}
}

// parseQuery resolves the tenant from the session and the filters from the
// query string. Non-manager roles are always pinned to their own records.
func (h *Handler) parseQuery(r *http.Request) (query, error) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		return query{}, shared.ErrPermissionDenied
	}
	tenant := sess.Tenant()

	var q query
	q.tenant = tenant
	q.granularity = metrics.GranularityMonthly

	values := r.URL.Query()
	if raw := strings.TrimSpace(values.Get("granularity")); raw != "" {
		g, err := metrics.ParseGranularity(raw)
		if err != nil {
			return query{}, err
		}
		q.granularity = g
	}

	fromRaw := strings.TrimSpace(values.Get("from"))
	toRaw := strings.TrimSpace(values.Get("to"))
	if (fromRaw == "") != (toRaw == "") {
		return query{}, fmt.Errorf("%w: from and to must be supplied together", metrics.ErrInvalidRange)
	}
	if fromRaw != "" {
		start, err := time.Parse(dateLayout, fromRaw)
		if err != nil {
			return query{}, fmt.Errorf("%w: bad from date %q", metrics.ErrInvalidRange, fromRaw)
		}
		end, err := time.Parse(dateLayout, toRaw)
		if err != nil {
			return query{}, fmt.Errorf("%w: bad to date %q", metrics.ErrInvalidRange, toRaw)
		}
		rng := metrics.DateRange{Start: start, End: end}
		if err := rng.Validate(); err != nil {
			return query{}, err
		}
		q.filter.Range = &rng
	}

	if tenant.Role.SeesWholeTeam() {
		if raw := strings.TrimSpace(values.Get("user_id")); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				return query{}, fmt.Errorf("%w: bad user_id %q", metrics.ErrInvalidRange, raw)
			}
			q.filter.UserID = &id
		}
	} else {
		own := tenant.UserID
		q.filter.UserID = &own
	}

	if raw := strings.TrimSpace(values.Get("product_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return query{}, fmt.Errorf("%w: bad product_id %q", metrics.ErrInvalidRange, raw)
		}
		q.filter.ProductID = &id
	}

	return q, nil
}

func (h *Handler) respondQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrPermissionDenied):
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
	case errors.Is(err, metrics.ErrInvalidRange), errors.Is(err, metrics.ErrInvalidGranularity):
		httpx.Problem(w, http.StatusBadRequest, "invalid query", err.Error())
	default:
		httpx.Problem(w, http.StatusBadRequest, "invalid query", err.Error())
	}
}

// respondFetchError reports a failed data fetch as an explicit error state.
// The client renders it with a retry option; a fabricated zero-valued chart
// would be indistinguishable from a quiet period.
func (h *Handler) respondFetchError(w http.ResponseWriter, op string, err error) {
	h.logError(op, err)
	httpx.Problem(w, http.StatusBadGateway, "metrics unavailable", "data fetch failed, retry")
}

func (h *Handler) logError(op string, err error) {
	h.logger.Error(op, slog.Any("error", err))
}

func withRatios(s metrics.Summary) summaryResponse {
	return summaryResponse{
		Summary:            s,
		CloseRate:          metrics.CloseRate(s),
		AvgRevenuePerClose: metrics.AvgRevenuePerClose(s),
	}
}
