package gamedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for game persistence.
type Repository interface {
	// ListAll returns every game ordered by kickoff.
	ListAll(ctx context.Context, db bun.IDB) ([]Game, error)

	// GetByID retrieves a game by id.
	GetByID(ctx context.Context, db bun.IDB, id string) (*Game, error)

	// Upsert creates or fully replaces a game.
	Upsert(ctx context.Context, db bun.IDB, game *Game) error

	// InsertIfAbsent inserts the game unless the id already exists.
	InsertIfAbsent(ctx context.Context, db bun.IDB, game *Game) (bool, error)

	// ListKickoffAfter returns games that have not started at t.
	ListKickoffAfter(ctx context.Context, db bun.IDB, t time.Time) ([]Game, error)
}
