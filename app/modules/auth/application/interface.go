package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
)

// Service defines the authentication service interface.
type Service interface {
	// LoginPlayer checks a roster player's password and issues a player token.
	LoginPlayer(ctx context.Context, name, password string) (*LoginResponse, error)

	// LoginAdmin checks the admin password and issues an admin token.
	LoginAdmin(ctx context.Context, password string) (*LoginResponse, error)

	// ValidateToken validates a JWT token and returns the claims if valid.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string          `json:"token"`
	Player    string          `json:"player,omitempty"`
	Role      authdomain.Role `json:"role"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Credential is a roster entry with its bcrypt hash. An empty hash disables login.
type Credential struct {
	Player       string
	PasswordHash string
}
