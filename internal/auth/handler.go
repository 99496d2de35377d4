package auth

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salespulse/salespulse/internal/platform/httpx"
	"github.com/salespulse/salespulse/internal/shared"
)

const requestTimeout = 5 * time.Second

// Handler manages login and logout endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	sessions *shared.SessionManager
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, sessions: sessions}
}

// MountRoutes registers auth routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/logout", h.logout)
	r.Get("/auth/me", h.me)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "invalid payload", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidCredentials) {
			httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
			return
		}
		h.logger.Error("authenticate", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "login failed, retry")
		return
	}

	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("login without session middleware")
		httpx.Problem(w, http.StatusInternalServerError, "internal error", "login failed, retry")
		return
	}
	sess.Authenticate(user.ID, user.OrgID, user.Role)

	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	if err := h.service.RegisterSession(ctx, sess.ID, user.ID, time.Now().Add(h.sessions.TTL()), ip, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, LoginResponse{
		UserID: user.ID,
		OrgID:  user.OrgID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || !sess.Authenticated() {
		httpx.NoContent(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.service.RemoveSession(ctx, sess.ID); err != nil {
		h.logger.Warn("remove session", slog.Any("error", err))
	}
	h.sessions.Destroy(sess)
	httpx.NoContent(w)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.Problem(w, http.StatusUnauthorized, "unauthorized", "login required")
		return
	}
	tenant := sess.Tenant()
	httpx.JSON(w, http.StatusOK, LoginResponse{
		UserID: tenant.UserID,
		OrgID:  tenant.OrgID,
		Role:   tenant.Role,
	})
}
