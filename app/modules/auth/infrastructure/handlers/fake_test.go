package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	LoginPlayerFunc   func(ctx context.Context, name, password string) (*authservice.LoginResponse, error)
	LoginAdminFunc    func(ctx context.Context, password string) (*authservice.LoginResponse, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

func (f *FakeService) LoginPlayer(ctx context.Context, name, password string) (*authservice.LoginResponse, error) {
	if f.LoginPlayerFunc != nil {
		return f.LoginPlayerFunc(ctx, name, password)
	}
	return &authservice.LoginResponse{Token: "player-token", Player: name, Role: authdomain.RolePlayer}, nil
}

func (f *FakeService) LoginAdmin(ctx context.Context, password string) (*authservice.LoginResponse, error) {
	if f.LoginAdminFunc != nil {
		return f.LoginAdminFunc(ctx, password)
	}
	return &authservice.LoginResponse{Token: "admin-token", Role: authdomain.RoleAdmin}, nil
}

func (f *FakeService) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(ctx, tokenString)
	}
	return &authdomain.Claims{Player: "Alice", Role: authdomain.RolePlayer}, nil
}

var _ authservice.Service = (*FakeService)(nil)
