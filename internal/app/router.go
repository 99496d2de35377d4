package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/salespulse/salespulse/internal/auth"
	metricshttp "github.com/salespulse/salespulse/internal/metrics/http"
	"github.com/salespulse/salespulse/internal/observability"
	"github.com/salespulse/salespulse/internal/offers"
	"github.com/salespulse/salespulse/internal/products"
	"github.com/salespulse/salespulse/internal/reports"
	"github.com/salespulse/salespulse/internal/shared"
	"github.com/salespulse/salespulse/internal/users"
	"github.com/salespulse/salespulse/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	AuthHandler     *auth.Handler
	MetricsHandler  *metricshttp.Handler
	ReportsHandler  *reports.Handler
	UsersHandler    *users.Handler
	ProductsHandler *products.Handler
	OffersHandler   *offers.Handler
	JobsHandler     *jobs.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with SalesPulse defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if params.Metrics != nil {
		r.Use(params.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		params.AuthHandler.MountRoutes(api)

		api.Group(func(guarded chi.Router) {
			guarded.Use(RequireAuth)
			params.MetricsHandler.MountRoutes(guarded)
			params.ReportsHandler.MountRoutes(guarded)
			params.UsersHandler.MountRoutes(guarded)
			params.ProductsHandler.MountRoutes(guarded)
			params.OffersHandler.MountRoutes(guarded)
			if params.JobsHandler != nil {
				guarded.Route("/jobs", params.JobsHandler.MountRoutes)
			}
		})
	})

	return r
}
