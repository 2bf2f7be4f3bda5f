package pickservice

import (
	"context"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

// Service is the pick API used by the HTTP handlers and the leaderboard.
type Service interface {
	// SubmitPick stores owner's pick for gameID on behalf of viewer.
	SubmitPick(ctx context.Context, viewer scoringdomain.Viewer, owner scoringdomain.Player, gameID, team string) (*Submission, error)

	// LoadAllPicks returns a snapshot of every stored pick.
	LoadAllPicks(ctx context.Context) (scoringdomain.Picks, error)

	// PickGrid renders the picks table as viewer may see it.
	PickGrid(ctx context.Context, viewer scoringdomain.Viewer) (*Grid, error)

	// Roster returns the league players in configured order.
	Roster() []scoringdomain.Player
}

// GameReader is the part of the game module picks depend on.
type GameReader interface {
	ListGames(ctx context.Context) ([]scoringdomain.Game, error)
	GetGame(ctx context.Context, gameID string) (*scoringdomain.Game, error)
	Directory() *scoringdomain.TeamDirectory
}

// Submission is a stored pick.
type Submission struct {
	Player      scoringdomain.Player
	GameID      string
	Team        string
	ByAdmin     bool
	SubmittedAt time.Time
}

// Grid is the picks table with its game columns in roster order.
type Grid struct {
	Games []scoringdomain.Game
	Rows  []scoringdomain.PickRow
}
