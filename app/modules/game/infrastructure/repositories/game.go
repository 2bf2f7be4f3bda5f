package gamedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a game is not found.
var ErrNotFound = errors.New("game not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new game repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// ListAll returns every game ordered by kickoff, then id.
func (r *Impl) ListAll(ctx context.Context, db bun.IDB) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Order("kickoff ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// GetByID retrieves a game by its id.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id string) (*Game, error) {
	db = r.resolveDB(db)
	game := new(Game)
	err := db.NewSelect().
		Model(game).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get game %s: %w", id, err)
	}
	return game, nil
}

// Upsert creates or replaces a game.
func (r *Impl) Upsert(ctx context.Context, db bun.IDB, game *Game) error {
	db = r.resolveDB(db)
	game.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(game).
		On("CONFLICT (id) DO UPDATE").
		Set("external_id = EXCLUDED.external_id").
		Set("round = EXCLUDED.round").
		Set("round_confidence = EXCLUDED.round_confidence").
		Set("away_team = EXCLUDED.away_team").
		Set("home_team = EXCLUDED.home_team").
		Set("away_seed = EXCLUDED.away_seed").
		Set("home_seed = EXCLUDED.home_seed").
		Set("kickoff = EXCLUDED.kickoff").
		Set("status = EXCLUDED.status").
		Set("winner = EXCLUDED.winner").
		Set("winner_source = EXCLUDED.winner_source").
		Set("always_visible = EXCLUDED.always_visible").
		Set("away_score = EXCLUDED.away_score").
		Set("home_score = EXCLUDED.home_score").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert game %s: %w", game.ID, err)
	}
	return nil
}

// InsertIfAbsent inserts the game and reports whether a row was written.
func (r *Impl) InsertIfAbsent(ctx context.Context, db bun.IDB, game *Game) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(game).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to insert game %s: %w", game.ID, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListKickoffAfter returns games whose kickoff is after t.
func (r *Impl) ListKickoffAfter(ctx context.Context, db bun.IDB, t time.Time) ([]Game, error) {
	db = r.resolveDB(db)
	var games []Game
	err := db.NewSelect().
		Model(&games).
		Where("kickoff > ?", t).
		Order("kickoff ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming games: %w", err)
	}
	return games, nil
}
