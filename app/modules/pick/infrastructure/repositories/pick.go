package pickdb

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new pick repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListAll returns every pick ordered by player then game.
func (r *Impl) ListAll(ctx context.Context, db bun.IDB) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := db.NewSelect().
		Model(&picks).
		Order("player ASC", "game_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	return picks, nil
}

// ListByPlayer returns a player's picks.
func (r *Impl) ListByPlayer(ctx context.Context, db bun.IDB, player string) ([]Pick, error) {
	db = r.resolveDB(db)
	var picks []Pick
	err := db.NewSelect().
		Model(&picks).
		Where("player = ?", player).
		Order("game_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks for %s: %w", player, err)
	}
	return picks, nil
}

// Upsert inserts the pick or overwrites the team for an existing key.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, pick *Pick) error {
	db = r.resolveDB(db)
	pick.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(pick).
		On("CONFLICT (player, game_id) DO UPDATE").
		Set("team = EXCLUDED.team").
		Set("set_by_admin = EXCLUDED.set_by_admin").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert pick %s/%s: %w", pick.Player, pick.GameID, err)
	}
	return nil
}
