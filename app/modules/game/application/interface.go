package gameservice

import (
	"context"
	"io"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
)

// Service is the game roster API used by HTTP handlers, the feed poller and the
// other modules.
type Service interface {
	ListGames(ctx context.Context) ([]scoringdomain.Game, error)
	GetGame(ctx context.Context, gameID string) (*scoringdomain.Game, error)

	// SetWinner records an admin decision. An empty team clears the winner.
	SetWinner(ctx context.Context, gameID, team string) (*scoringdomain.Game, error)
	// SetMatchup fills in the teams of a future-round game.
	SetMatchup(ctx context.Context, gameID, away, home string) (*scoringdomain.Game, error)
	// SetKickoff parses admin input in timezone and reschedules the lock.
	SetKickoff(ctx context.Context, gameID, input, timezone string) (*scoringdomain.Game, error)

	ApplyFeedUpdates(ctx context.Context, updates []scoringdomain.FeedGame) (*FeedApplyResult, error)

	// SeedRoster inserts games that do not exist yet.
	SeedRoster(ctx context.Context, games []scoringdomain.Game) (*RosterResult, error)
	// ImportRoster upserts games from an XLSX workbook.
	ImportRoster(ctx context.Context, r io.Reader) (*RosterResult, error)
	ScheduleUpcomingLocks(ctx context.Context) error

	Directory() *scoringdomain.TeamDirectory
}

// LockScheduler fires a lock notification at kickoff.
type LockScheduler interface {
	ScheduleLock(ctx context.Context, gameID string, kickoff time.Time) error
	CancelLocks(ctx context.Context, gameID string) error
}

// Metrics is what the game service records.
type Metrics interface {
	metrics.OperationMetrics
	metrics.FeedMetrics
}

// FeedApplyResult summarizes one merge of feed updates.
type FeedApplyResult struct {
	Updated      []string
	Created      []string
	Reclassified []scoringdomain.Reclassification
	Conflicts    []scoringdomain.WinnerConflict
	Unmatched    int
	AnyLive      bool

	// games whose kickoff was created or moved by the feed
	relock []scoringdomain.Game
}

// Changed reports whether the roster was modified.
func (r *FeedApplyResult) Changed() bool {
	return len(r.Updated) > 0 || len(r.Created) > 0
}

// RosterResult lists what a seed or import did.
type RosterResult struct {
	Inserted []string
	Updated  []string
	Skipped  []string

	games []scoringdomain.Game
}
