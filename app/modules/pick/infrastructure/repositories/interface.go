package pickdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for pick persistence. Picks are keyed by
// (player, game_id) and never deleted.
type Repository interface {
	// ListAll returns every stored pick.
	ListAll(ctx context.Context, db bun.IDB) ([]Pick, error)

	// ListByPlayer returns one player's picks.
	ListByPlayer(ctx context.Context, db bun.IDB, player string) ([]Pick, error)

	// Upsert writes the pick; the last write wins.
	Upsert(ctx context.Context, db bun.IDB, pick *Pick) error
}
