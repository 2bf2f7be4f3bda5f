package pickdb

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/uptrace/bun"
)

// Pick is one player's chosen team for one game.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:p"`
	Player        string    `bun:"player,pk"`
	GameID        string    `bun:"game_id,pk"`
	Team          string    `bun:"team,notnull"`
	SetByAdmin    bool      `bun:"set_by_admin,notnull"`
	CreatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// ToPicks folds rows into the scoring snapshot.
func ToPicks(rows []Pick) scoringdomain.Picks {
	picks := make(scoringdomain.Picks)
	for _, r := range rows {
		picks.Set(scoringdomain.Player(r.Player), r.GameID, r.Team)
	}
	return picks
}
