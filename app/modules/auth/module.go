package auth

import (
	"context"
	"log/slog"
	"net/http"

	authservice "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/application"
	authhandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the unified auth module.
type Module struct {
	config   *config.Config
	service  authservice.Service
	handlers authhandlers.Handlers
	logger   *slog.Logger
}

// NewModule creates the auth module and registers its routes under /api/auth.
func NewModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "Initializing auth module")

	jwtProvider := authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	creds := make([]authservice.Credential, len(cfg.League.Players))
	for i, p := range cfg.League.Players {
		creds[i] = authservice.Credential{Player: p.Name, PasswordHash: p.PasswordHash}
	}

	service := authservice.NewService(jwtProvider, authservice.Config{
		DefaultTTL:        cfg.JWT.DefaultTTL,
		Players:           creds,
		AdminPasswordHash: cfg.League.AdminPasswordHash,
	}, logger, tracer)

	handlers := authhandlers.NewAuthHandlers(service, logger, tracer)

	if httpRouter != nil {
		limiter := authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.LoginRateLimit), cfg.HTTP.LoginBurst)
		httpRouter.With(authhandlers.Authenticate(service)).Route("/api/auth", func(r chi.Router) {
			r.Get("/me", handlers.HandleMe)

			r.Group(func(r chi.Router) {
				r.Use(authhandlers.RateLimitMiddleware(limiter))
				r.Post("/login", handlers.HandleLogin)
				r.Post("/admin/login", handlers.HandleAdminLogin)
			})
		})
	}

	return &Module{
		config:   cfg,
		service:  service,
		handlers: handlers,
		logger:   logger,
	}, nil
}

// Authenticate returns the bearer-token middleware for the API router.
func (m *Module) Authenticate() func(http.Handler) http.Handler {
	return authhandlers.Authenticate(m.service)
}

// RequireAdmin returns the admin guard for mounting admin routes.
func (m *Module) RequireAdmin() func(http.Handler) http.Handler {
	return authhandlers.RequireAdmin
}

// Close stops the auth module.
func (m *Module) Close() error {
	m.logger.Info("Auth module stopped")
	return nil
}

// GetService returns the auth service for use by other modules.
func (m *Module) GetService() authservice.Service {
	return m.service
}
