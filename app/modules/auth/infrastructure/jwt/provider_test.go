package authjwt

import (
	"errors"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-at-least-32-chars-long!!"

func TestProvider_GenerateAndValidateToken(t *testing.T) {
	p := NewProvider(testSecret, "pickem-bot")

	player := &authdomain.Claims{Player: "Renjith", Role: authdomain.RolePlayer}
	admin := &authdomain.Claims{Role: authdomain.RoleAdmin}

	tests := []struct {
		name        string
		claims      *authdomain.Claims
		rawToken    string
		ttl         time.Duration
		validator   Provider
		expectedErr error
		verify      func(t *testing.T, validated *authdomain.Claims)
	}{
		{
			name:   "player token",
			claims: player,
			ttl:    time.Hour,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.Player != "Renjith" || validated.Role != authdomain.RolePlayer {
					t.Errorf("unexpected claims %+v", validated)
				}
				if validated.ExpiresAt.Sub(validated.IssuedAt) != time.Hour {
					t.Errorf("expected a one hour lifetime, got %s", validated.ExpiresAt.Sub(validated.IssuedAt))
				}
			},
		},
		{
			name:   "admin token",
			claims: admin,
			ttl:    time.Hour,
			verify: func(t *testing.T, validated *authdomain.Claims) {
				if validated.Role != authdomain.RoleAdmin || validated.Player != "" {
					t.Errorf("unexpected claims %+v", validated)
				}
			},
		},
		{
			name:        "expired token",
			claims:      player,
			ttl:         -time.Hour,
			expectedErr: ErrExpiredToken,
		},
		{
			name:        "invalid signature",
			claims:      player,
			ttl:         time.Hour,
			validator:   NewProvider("wrong-secret", "pickem-bot"),
			expectedErr: ErrInvalidSignature,
		},
		{
			name:        "other issuer",
			claims:      player,
			ttl:         time.Hour,
			validator:   NewProvider(testSecret, "someone-else"),
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "malformed token",
			rawToken:    "not.a.jwt",
			expectedErr: ErrInvalidToken,
		},
		{
			name:        "unknown role",
			rawToken:    signRaw(t, jwt.MapClaims{"sub": "Jeff", "role": "editor", "iss": "pickem-bot", "exp": time.Now().Add(time.Hour).Unix()}),
			expectedErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.rawToken
			if tt.claims != nil {
				var err error
				token, err = p.GenerateToken(tt.claims, tt.ttl)
				if err != nil {
					t.Fatalf("failed to generate token: %v", err)
				}
			}

			validator := p
			if tt.validator != nil {
				validator = tt.validator
			}

			validated, err := validator.ValidateToken(token)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.verify != nil {
				tt.verify(t, validated)
			}
		})
	}
}

func TestProvider_GenerateToken_RejectsInvalidRole(t *testing.T) {
	p := NewProvider(testSecret, "pickem-bot")

	if _, err := p.GenerateToken(&authdomain.Claims{Player: "Jeff", Role: "editor"}, time.Hour); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func signRaw(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}
