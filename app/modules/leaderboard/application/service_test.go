package leaderboardservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

var testNow = time.Date(2026, 1, 18, 12, 0, 0, 0, time.UTC)

func decidedGames() []scoringdomain.Game {
	return []scoringdomain.Game{
		{
			ID: "wc-1", Round: scoringdomain.RoundWildcard,
			AwayTeam: "Bills", HomeTeam: "Jaguars", AwaySeed: 6, HomeSeed: 3,
			Winner: "Bills", Status: scoringdomain.StatusFinal,
			Kickoff: testNow.Add(-7 * 24 * time.Hour),
		},
		{
			ID: "div-1", Round: scoringdomain.RoundDivisional,
			AwayTeam: "Bills", HomeTeam: "Broncos", AwaySeed: 6, HomeSeed: 1,
			Kickoff: testNow.Add(24 * time.Hour),
		},
	}
}

func testPicks() *fakePicks {
	picks := scoringdomain.Picks{}
	picks.Set("Alice", "wc-1", "Bills")
	picks.Set("Alice", "div-1", "Broncos")
	picks.Set("Bob", "wc-1", "Jaguars")
	return &fakePicks{picks: picks, roster: []scoringdomain.Player{"Bob", "Alice"}}
}

func newTestService(games *fakeGames, picks *fakePicks, cache StandingsCache) (*LeaderboardService, *recordingMetrics) {
	m := &recordingMetrics{}
	svc := NewLeaderboardService(games, picks, cache, slog.New(slog.NewTextHandler(io.Discard, nil)), m, noop.NewTracerProvider().Tracer("test"))
	svc.clock = scoringdomain.FixedClock{T: testNow}
	return svc, m
}

func TestStandings(t *testing.T) {
	cachedTable := []scoringdomain.Standing{{Rank: 1, Player: "Cached", Total: 99}}

	tests := []struct {
		name       string
		cache      *FakeCache
		games      *fakeGames
		wantTop    scoringdomain.Player
		wantHits   int
		wantMisses int
		wantTrace  []string
		wantErr    bool
	}{
		{
			name:       "miss computes without writing the cache",
			cache:      &FakeCache{},
			games:      &fakeGames{games: decidedGames()},
			wantTop:    "Alice",
			wantMisses: 1,
			wantTrace:  []string{"Get"},
		},
		{
			name:      "hit skips the database",
			cache:     &FakeCache{stored: cachedTable, ok: true},
			games:     &fakeGames{err: errors.New("should not be called")},
			wantTop:   "Cached",
			wantHits:  1,
			wantTrace: []string{"Get"},
		},
		{
			name:       "cache read error falls back to compute",
			cache:      &FakeCache{GetErr: errors.New("redis down")},
			games:      &fakeGames{games: decidedGames()},
			wantTop:    "Alice",
			wantMisses: 1,
			wantTrace:  []string{"Get"},
		},
		{
			name:       "game listing failure",
			cache:      &FakeCache{},
			games:      &fakeGames{err: errors.New("connection reset")},
			wantMisses: 1,
			wantTrace:  []string{"Get"},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestService(tt.games, testPicks(), tt.cache)

			got, err := svc.Standings(context.Background())

			assert.Equal(t, tt.wantTrace, tt.cache.Trace())
			assert.Equal(t, tt.wantHits, m.hits)
			assert.Equal(t, tt.wantMisses, m.misses)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, []string{"Standings"}, m.failed)
				return
			}
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, tt.wantTop, got[0].Player)
		})
	}
}

func TestStandings_NoCache(t *testing.T) {
	games := &fakeGames{games: decidedGames()}
	svc, m := newTestService(games, testPicks(), nil)

	got, err := svc.Standings(context.Background())

	require.NoError(t, err)
	want := []scoringdomain.Standing{
		{
			Rank: 1, Player: "Alice", Total: 7, CorrectPicks: 1,
			Breakdown: map[scoringdomain.RoundKey]int{"wildcard": 7, "divisional": 0, "conference": 0, "superbowl": 0},
		},
		{
			Rank: 2, Player: "Bob", Total: 0, CorrectPicks: 0,
			Breakdown: map[scoringdomain.RoundKey]int{"wildcard": 0, "divisional": 0, "conference": 0, "superbowl": 0},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("standings mismatch (-want +got):\n%s", diff)
	}
	assert.Zero(t, m.hits+m.misses)
}

func TestRecompute_ReplacesCache(t *testing.T) {
	cache := &FakeCache{stored: []scoringdomain.Standing{{Rank: 1, Player: "Stale"}}, ok: true}
	svc, _ := newTestService(&fakeGames{games: decidedGames()}, testPicks(), cache)

	got, err := svc.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Set"}, cache.Trace())
	assert.Equal(t, got, cache.stored)
	assert.Equal(t, scoringdomain.Player("Alice"), cache.stored[0].Player)
}

func TestStandings_MissKeepsNewerCachedStandings(t *testing.T) {
	cache := &FakeCache{}
	games := &fakeGames{games: decidedGames()}
	svc, _ := newTestService(games, testPicks(), cache)

	// A game result is cleared while the read is still scoring its snapshot.
	games.onList = func() {
		games.games = nil
		_, err := svc.Recompute(context.Background())
		require.NoError(t, err)
	}

	got, err := svc.Standings(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 7, got[0].Total)
	assert.Equal(t, []string{"Get", "Set"}, cache.Trace())
	require.NotEmpty(t, cache.stored)
	assert.Zero(t, cache.stored[0].Total)
}

func TestRecompute_CacheWriteErrorIsNotFatal(t *testing.T) {
	cache := &FakeCache{SetErr: errors.New("redis down")}
	svc, m := newTestService(&fakeGames{games: decidedGames()}, testPicks(), cache)

	got, err := svc.Recompute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Set"}, cache.Trace())
	assert.Equal(t, scoringdomain.Player("Alice"), got[0].Player)
	assert.Empty(t, m.failed)
}

func TestRecompute_PickLoadFailure(t *testing.T) {
	picks := testPicks()
	picks.err = errors.New("connection reset")
	cache := &FakeCache{}
	svc, m := newTestService(&fakeGames{games: decidedGames()}, picks, cache)

	_, err := svc.Recompute(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load picks")
	assert.Empty(t, cache.Trace())
	assert.Equal(t, []string{"Recompute"}, m.failed)
}

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestChart(t *testing.T) {
	tests := []struct {
		name   string
		roster []scoringdomain.Player
		games  []scoringdomain.Game
	}{
		{name: "ranked players", roster: []scoringdomain.Player{"Bob", "Alice"}, games: decidedGames()},
		{name: "all zero totals", roster: []scoringdomain.Player{"Bob", "Alice"}},
		{name: "empty league renders a placeholder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picks := testPicks()
			picks.roster = tt.roster
			svc, _ := newTestService(&fakeGames{games: tt.games}, picks, nil)

			png, err := svc.Chart(context.Background())

			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(png, pngSignature), "output is not a PNG")
		})
	}
}

func TestExport(t *testing.T) {
	games := &fakeGames{games: decidedGames()}
	svc, _ := newTestService(games, testPicks(), nil)

	book, err := svc.Export(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(book))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{StandingsSheet, GamesSheet}, f.GetSheetList())

	rows, err := f.GetRows(StandingsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Rank", "Player", "Total", "Correct Picks", "Wild Card", "Divisional", "Conference Championships", "Super Bowl"}, rows[0])
	assert.Equal(t, []string{"1", "Alice", "7", "1", "7", "0", "0", "0"}, rows[1])
	assert.Equal(t, []string{"2", "Bob", "0", "0", "0", "0", "0", "0"}, rows[2])

	gameRows, err := f.GetRows(GamesSheet)
	require.NoError(t, err)
	require.Len(t, gameRows, 3)
	assert.Equal(t, "wc-1", gameRows[1][0])
	assert.Equal(t, "Bills", gameRows[1][6])
}

func TestExport_ComputesFresh(t *testing.T) {
	cache := &FakeCache{stored: []scoringdomain.Standing{{Rank: 1, Player: "Stale"}}, ok: true}
	games := &fakeGames{games: decidedGames()}
	svc, _ := newTestService(games, testPicks(), cache)

	_, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, games.calls)
	assert.Empty(t, cache.Trace())
}

func TestPayloadRoundTrip(t *testing.T) {
	svc, _ := newTestService(&fakeGames{games: decidedGames()}, testPicks(), nil)
	standings, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	p := ToPayload(standings, "game.updated", testNow)

	assert.Equal(t, "game.updated", p.Trigger)
	assert.Equal(t, 7, p.Standings[0].Breakdown["wildcard"])
	if diff := cmp.Diff(standings, FromPayload(p)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
