package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"
)

// DefaultTokenTTL applies when Config.DefaultTTL is zero.
const DefaultTokenTTL = 24 * time.Hour

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL        time.Duration
	Players           []Credential
	AdminPasswordHash string
}

// service implements the Service interface.
type service struct {
	jwtProvider authjwt.Provider
	players     map[string]Credential
	adminHash   string
	ttl         time.Duration
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewService creates a new auth service.
func NewService(jwtProvider authjwt.Provider, config Config, logger *slog.Logger, tracer trace.Tracer) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("auth")
	}
	ttl := config.DefaultTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	players := make(map[string]Credential, len(config.Players))
	for _, c := range config.Players {
		players[strings.ToLower(c.Player)] = c
	}
	return &service{
		jwtProvider: jwtProvider,
		players:     players,
		adminHash:   config.AdminPasswordHash,
		ttl:         ttl,
		logger:      logger,
		tracer:      tracer,
	}
}

// LoginPlayer matches name case-insensitively against the roster.
func (s *service) LoginPlayer(ctx context.Context, name, password string) (*LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.LoginPlayer")
	defer span.End()

	cred, ok := s.players[strings.ToLower(strings.TrimSpace(name))]
	if !ok || !checkPassword(cred.PasswordHash, password) {
		s.logger.WarnContext(ctx, "Player login rejected", attr.Player(name))
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, &authdomain.Claims{Player: cred.Player, Role: authdomain.RolePlayer})
}

// LoginAdmin checks the admin password.
func (s *service) LoginAdmin(ctx context.Context, password string) (*LoginResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.LoginAdmin")
	defer span.End()

	if !checkPassword(s.adminHash, password) {
		s.logger.WarnContext(ctx, "Admin login rejected")
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, &authdomain.Claims{Role: authdomain.RoleAdmin})
}

func (s *service) issue(ctx context.Context, claims *authdomain.Claims) (*LoginResponse, error) {
	token, err := s.jwtProvider.GenerateToken(claims, s.ttl)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", attr.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrGenerateToken, err)
	}

	s.logger.InfoContext(ctx, "Login succeeded",
		attr.Player(claims.Player),
		attr.String("role", claims.Role.String()),
	)
	return &LoginResponse{
		Token:     token,
		Player:    claims.Player,
		Role:      claims.Role,
		ExpiresAt: time.Now().Add(s.ttl).UTC(),
	}, nil
}

// ValidateToken validates a JWT token and returns the claims if valid.
func (s *service) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, authjwt.ErrExpiredToken) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Role == authdomain.RolePlayer {
		if _, ok := s.players[strings.ToLower(claims.Player)]; !ok {
			// player removed from the roster since the token was issued
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

func checkPassword(hash, password string) bool {
	if hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword returns a bcrypt hash suitable for the league config.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(h), nil
}
