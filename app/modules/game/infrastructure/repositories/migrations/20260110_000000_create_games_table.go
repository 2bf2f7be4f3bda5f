package gamemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating games table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id VARCHAR(64) PRIMARY KEY,
					external_id VARCHAR(64),
					round VARCHAR(16) NOT NULL
						CHECK (round IN ('wildcard', 'divisional', 'conference', 'superbowl')),
					round_confidence VARCHAR(16) NOT NULL DEFAULT 'authoritative'
						CHECK (round_confidence IN ('authoritative', 'heuristic')),
					away_team VARCHAR(64) NOT NULL DEFAULT 'TBD',
					home_team VARCHAR(64) NOT NULL DEFAULT 'TBD',
					away_seed SMALLINT NOT NULL DEFAULT 0,
					home_seed SMALLINT NOT NULL DEFAULT 0,
					kickoff TIMESTAMPTZ NOT NULL,
					status VARCHAR(16) NOT NULL DEFAULT 'scheduled',
					winner VARCHAR(64),
					winner_source VARCHAR(16),
					always_visible BOOLEAN NOT NULL DEFAULT FALSE,
					away_score SMALLINT NOT NULL DEFAULT 0,
					home_score SMALLINT NOT NULL DEFAULT 0,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT games_winner_is_participant
						CHECK (winner IS NULL OR winner = away_team OR winner = home_team)
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_games_external_id ON games(external_id) WHERE external_id IS NOT NULL;
				CREATE INDEX IF NOT EXISTS idx_games_kickoff ON games(kickoff);
			`); err != nil {
				return fmt.Errorf("failed to create games table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping games table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS games;`); err != nil {
				return fmt.Errorf("failed to drop games table: %w", err)
			}
			return nil
		})
	})
}
