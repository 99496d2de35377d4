package metricshttp

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/salespulse/salespulse/internal/shared"
)

// MountRoutes registers metrics endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/dashboard", h.handleDashboard)
	if h.streamService != nil && h.streamClient != nil {
		r.Get("/dashboard/stream", h.handleStream)
	}
	r.Get("/metrics/summary", h.handleSummary)
	r.Get("/metrics/revenue", h.handleRevenueSeries)
	r.Get("/metrics/growth", h.handleGrowth)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/metrics/export.csv", h.handleExportCSV)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	sess := shared.SessionFromContext(r.Context())
	if sess.Authenticated() {
		return "user:" + strconv.FormatInt(sess.UserID(), 10), nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
