package leaderboardservice

import (
	"context"
	"sync"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
)

// ------------------------
// Fake Sources
// ------------------------

type fakeGames struct {
	games []scoringdomain.Game
	err   error
	calls int

	// onList runs once, after the snapshot is taken.
	onList func()
}

func (f *fakeGames) ListGames(context.Context) ([]scoringdomain.Game, error) {
	f.calls++
	games := f.games
	if hook := f.onList; hook != nil {
		f.onList = nil
		hook()
	}
	return games, f.err
}

type fakePicks struct {
	picks  scoringdomain.Picks
	roster []scoringdomain.Player
	err    error
}

func (f *fakePicks) LoadAllPicks(context.Context) (scoringdomain.Picks, error) {
	return f.picks, f.err
}

func (f *fakePicks) Roster() []scoringdomain.Player { return f.roster }

// ------------------------
// Fake Cache
// ------------------------

type FakeCache struct {
	trace  []string
	stored []scoringdomain.Standing
	ok     bool

	GetErr error
	SetErr error
}

func (f *FakeCache) Trace() []string { return f.trace }

func (f *FakeCache) Get(context.Context) ([]scoringdomain.Standing, bool, error) {
	f.trace = append(f.trace, "Get")
	if f.GetErr != nil {
		return nil, false, f.GetErr
	}
	return f.stored, f.ok, nil
}

func (f *FakeCache) Set(_ context.Context, standings []scoringdomain.Standing) error {
	f.trace = append(f.trace, "Set")
	if f.SetErr != nil {
		return f.SetErr
	}
	f.stored, f.ok = standings, true
	return nil
}

func (f *FakeCache) Invalidate(context.Context) error {
	f.trace = append(f.trace, "Invalidate")
	f.stored, f.ok = nil, false
	return nil
}

// ------------------------
// Recording Metrics
// ------------------------

type recordingMetrics struct {
	metrics.Noop
	mu     sync.Mutex
	hits   int
	misses int
	failed []string
}

func (m *recordingMetrics) RecordCacheHit(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *recordingMetrics) RecordCacheMiss(context.Context, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func (m *recordingMetrics) RecordOperationFailure(_ context.Context, operation, _ string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed = append(m.failed, operation)
}

var (
	_ StandingsCache = (*FakeCache)(nil)
	_ Metrics        = (*recordingMetrics)(nil)
)
