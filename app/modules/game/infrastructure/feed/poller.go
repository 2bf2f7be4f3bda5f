package gamefeed

import (
	"context"
	"log/slog"
	"time"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
)

// Poll outcomes recorded on the feed metrics.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeApplyError = "apply_error"
)

// Fetcher loads the current scoreboard.
type Fetcher interface {
	FetchScoreboard(ctx context.Context, sportPath string, date time.Time) (*Scoreboard, error)
}

// Applier merges feed records into the roster.
type Applier interface {
	ApplyFeedUpdates(ctx context.Context, updates []scoringdomain.FeedGame) (*gameservice.FeedApplyResult, error)
}

// PollerConfig holds the poll cadence.
type PollerConfig struct {
	SportPath    string
	LiveInterval time.Duration
	IdleInterval time.Duration
}

// Poller polls the scoreboard on an adaptive interval: LiveInterval while any
// game is in progress, IdleInterval otherwise.
type Poller struct {
	fetcher Fetcher
	applier Applier
	cfg     PollerConfig
	logger  *slog.Logger
	metrics metrics.FeedMetrics
}

// NewPoller creates a Poller.
func NewPoller(fetcher Fetcher, applier Applier, cfg PollerConfig, logger *slog.Logger, m metrics.FeedMetrics) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if cfg.LiveInterval <= 0 {
		cfg.LiveInterval = 30 * time.Second
	}
	if cfg.IdleInterval <= 0 {
		cfg.IdleInterval = 60 * time.Second
	}
	if cfg.SportPath == "" {
		cfg.SportPath = "football/nfl"
	}
	return &Poller{fetcher: fetcher, applier: applier, cfg: cfg, logger: logger, metrics: m}
}

// Run polls immediately and then until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.logger.InfoContext(ctx, "Starting scoreboard poller",
		attr.String("sport_path", p.cfg.SportPath),
		attr.Duration("live_interval", p.cfg.LiveInterval),
		attr.Duration("idle_interval", p.cfg.IdleInterval),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.InfoContext(ctx, "Stopping scoreboard poller")
			return
		case <-timer.C:
			timer.Reset(p.PollOnce(ctx))
		}
	}
}

// PollOnce fetches and applies one scoreboard and returns the delay before the
// next poll. Failures are logged and retried at the idle interval.
func (p *Poller) PollOnce(ctx context.Context) time.Duration {
	start := time.Now()

	sb, err := p.fetcher.FetchScoreboard(ctx, p.cfg.SportPath, time.Time{})
	if err != nil {
		p.metrics.RecordPoll(ctx, OutcomeFetchError, time.Since(start))
		if ctx.Err() == nil {
			p.logger.WarnContext(ctx, "Scoreboard fetch failed", attr.Error(err))
		}
		return p.cfg.IdleInterval
	}

	updates := ToFeedGames(sb)
	res, err := p.applier.ApplyFeedUpdates(ctx, updates)
	if err != nil {
		p.metrics.RecordPoll(ctx, OutcomeApplyError, time.Since(start))
		p.logger.ErrorContext(ctx, "Applying scoreboard failed",
			attr.Int("updates", len(updates)),
			attr.Error(err),
		)
		return p.cfg.IdleInterval
	}
	p.metrics.RecordPoll(ctx, OutcomeOK, time.Since(start))

	if res.Changed() {
		p.logger.InfoContext(ctx, "Scoreboard applied",
			attr.Int("updated", len(res.Updated)),
			attr.Int("created", len(res.Created)),
			attr.Int("unmatched", res.Unmatched),
		)
	}

	// A live game in the feed keeps the fast cadence even when it is not on the roster.
	if res.AnyLive || anyLive(updates) {
		return p.cfg.LiveInterval
	}
	return p.cfg.IdleInterval
}

func anyLive(updates []scoringdomain.FeedGame) bool {
	for _, u := range updates {
		if u.Status == scoringdomain.StatusLive {
			return true
		}
	}
	return false
}
