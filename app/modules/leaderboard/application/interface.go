package leaderboardservice

import (
	"context"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
)

// Service computes and renders the league standings.
type Service interface {
	// Standings returns the cached table, computing it on a miss.
	Standings(ctx context.Context) ([]scoringdomain.Standing, error)
	// Recompute rebuilds the table and refreshes the cache.
	Recompute(ctx context.Context) ([]scoringdomain.Standing, error)
	// Chart renders the standings as a PNG bar chart.
	Chart(ctx context.Context) ([]byte, error)
	// Export renders the standings as an XLSX workbook.
	Export(ctx context.Context) ([]byte, error)
}

// GameLister supplies the roster snapshot.
type GameLister interface {
	ListGames(ctx context.Context) ([]scoringdomain.Game, error)
}

// PickLoader supplies the picks snapshot and the players to rank.
type PickLoader interface {
	LoadAllPicks(ctx context.Context) (scoringdomain.Picks, error)
	Roster() []scoringdomain.Player
}

// StandingsCache stores the last computed table.
type StandingsCache interface {
	Get(ctx context.Context) ([]scoringdomain.Standing, bool, error)
	Set(ctx context.Context, standings []scoringdomain.Standing) error
	Invalidate(ctx context.Context) error
}

// Metrics is what the leaderboard service records.
type Metrics interface {
	metrics.OperationMetrics
	metrics.CacheMetrics
}
