package authhandlers

import (
	"errors"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
)

// Handlers handles the auth HTTP endpoints.
type Handlers interface {
	HandleLogin(w http.ResponseWriter, r *http.Request)
	HandleAdminLogin(w http.ResponseWriter, r *http.Request)
	HandleMe(w http.ResponseWriter, r *http.Request)
}

// AuthHandlers implements the Handlers interface.
type AuthHandlers struct {
	service authservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewAuthHandlers creates a new AuthHandlers instance.
func NewAuthHandlers(service authservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &AuthHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// LoginRequest is the body of a login call. Admin logins ignore Player.
type LoginRequest struct {
	Player   string `json:"player"`
	Password string `json:"password"`
}

// MeResponse describes the caller.
type MeResponse struct {
	Player    string `json:"player,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
	Anonymous bool   `json:"anonymous"`
}

// HandleLogin handles POST /api/auth/login.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleLogin")
	defer span.End()

	var req LoginRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil || req.Player == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "player and password are required")
		return
	}

	resp, err := h.service.LoginPlayer(ctx, req.Player, req.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleAdminLogin handles POST /api/auth/admin/login.
func (h *AuthHandlers) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "AuthHandlers.HandleAdminLogin")
	defer span.End()

	var req LoginRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "password is required")
		return
	}

	resp, err := h.service.LoginAdmin(ctx, req.Password)
	if err != nil {
		h.writeLoginError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /api/auth/me.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	v := authdomain.ViewerFrom(r.Context())
	httpapi.WriteJSON(w, http.StatusOK, MeResponse{
		Player:    string(v.Player),
		IsAdmin:   v.IsAdmin,
		Anonymous: v.Player == "" && !v.IsAdmin,
	})
}

func (h *AuthHandlers) writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, authservice.ErrInvalidCredentials) {
		httpapi.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	h.logger.ErrorContext(r.Context(), "Login failed", attr.Error(err))
	httpapi.WriteError(w, http.StatusInternalServerError, "login failed")
}
