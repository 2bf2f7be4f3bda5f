package authdomain

import (
	"context"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

// Claims represents the domain model for authentication claims.
// Admin tokens carry no player.
type Claims struct {
	Player    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Viewer maps the claims onto the scoring viewer.
func (c *Claims) Viewer() scoringdomain.Viewer {
	if c == nil {
		return scoringdomain.Viewer{}
	}
	v := scoringdomain.Viewer{IsAdmin: c.Role == RoleAdmin}
	if c.Role == RolePlayer {
		v.Player = scoringdomain.Player(c.Player)
	}
	return v
}

type viewerKey struct{}

// WithViewer stores the request viewer on ctx.
func WithViewer(ctx context.Context, v scoringdomain.Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFrom returns the request viewer, or the anonymous viewer.
func ViewerFrom(ctx context.Context) scoringdomain.Viewer {
	v, _ := ctx.Value(viewerKey{}).(scoringdomain.Viewer)
	return v
}
