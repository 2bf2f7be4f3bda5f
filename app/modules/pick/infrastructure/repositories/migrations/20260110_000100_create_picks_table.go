package pickmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating picks table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			// no foreign key to games: picks outlive roster edits
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS picks (
					player VARCHAR(64) NOT NULL,
					game_id VARCHAR(64) NOT NULL,
					team VARCHAR(64) NOT NULL,
					set_by_admin BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (player, game_id)
				);
				CREATE INDEX IF NOT EXISTS idx_picks_game_id ON picks(game_id);
			`); err != nil {
				return fmt.Errorf("failed to create picks table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping picks table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS picks;`); err != nil {
				return fmt.Errorf("failed to drop picks table: %w", err)
			}
			return nil
		})
	})
}
