package authdomain

import (
	"context"
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/stretchr/testify/assert"
)

func TestClaims_IsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "not expired (future)",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "expired (past)",
			expiresAt: time.Now().Add(-1 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Claims{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, c.IsExpired())
		})
	}
}

func TestClaims_Viewer(t *testing.T) {
	tests := []struct {
		name   string
		claims *Claims
		want   scoringdomain.Viewer
	}{
		{
			name:   "player",
			claims: &Claims{Player: "Jeff", Role: RolePlayer},
			want:   scoringdomain.Viewer{Player: "Jeff"},
		},
		{
			name:   "admin never owns picks",
			claims: &Claims{Player: "Jeff", Role: RoleAdmin},
			want:   scoringdomain.Viewer{IsAdmin: true},
		},
		{
			name:   "unknown role is anonymous",
			claims: &Claims{Player: "Jeff", Role: "editor"},
			want:   scoringdomain.Viewer{},
		},
		{
			name: "nil claims are anonymous",
			want: scoringdomain.Viewer{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.claims.Viewer())
		})
	}
}

func TestViewerContext(t *testing.T) {
	assert.Equal(t, scoringdomain.Viewer{}, ViewerFrom(context.Background()))

	ctx := WithViewer(context.Background(), scoringdomain.Viewer{Player: "Paul"})
	assert.Equal(t, scoringdomain.Player("Paul"), ViewerFrom(ctx).Player)
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RolePlayer.IsValid())
	assert.True(t, RoleAdmin.IsValid())
	assert.False(t, Role("viewer").IsValid())
}
