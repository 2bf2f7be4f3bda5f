package pickintegrationtests

import (
	"context"
	"testing"
	"time"

	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitPick_Integration(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	deps := SetupTestPickService(t, start, "Alice", "Bob")
	ctx := context.Background()
	game := deps.Slate[0]

	before := deps.ServiceAt(start)
	after := deps.ServiceAt(game.Kickoff)

	alice := scoringdomain.Viewer{Player: "Alice"}
	admin := scoringdomain.Viewer{IsAdmin: true}

	tests := []struct {
		name    string
		svc     *pickservice.PickService
		viewer  scoringdomain.Viewer
		owner   scoringdomain.Player
		team    string
		wantErr error
	}{
		{name: "owner before kickoff", svc: before, viewer: alice, owner: "Alice", team: game.AwayTeam},
		{name: "owner changes mind", svc: before, viewer: alice, owner: "Alice", team: game.HomeTeam},
		{name: "owner at kickoff", svc: after, viewer: alice, owner: "Alice", team: game.AwayTeam, wantErr: pickservice.ErrPickLocked},
		{name: "someone else's pick", svc: before, viewer: alice, owner: "Bob", team: game.AwayTeam, wantErr: pickservice.ErrNotPickOwner},
		{name: "admin after kickoff", svc: after, viewer: admin, owner: "Bob", team: game.AwayTeam},
		{name: "unknown player", svc: before, viewer: admin, owner: "Mallory", team: game.AwayTeam, wantErr: pickservice.ErrUnknownPlayer},
		{name: "team not in game", svc: before, viewer: alice, owner: "Alice", team: "Broncos", wantErr: pickservice.ErrInvalidTeam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := tt.svc.SubmitPick(ctx, tt.viewer, tt.owner, game.ID, tt.team)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.team, sub.Team)
			assert.Equal(t, tt.viewer.IsAdmin, sub.ByAdmin)
		})
	}

	picks, err := before.LoadAllPicks(ctx)
	require.NoError(t, err)
	team, ok := picks.Get("Alice", game.ID)
	require.True(t, ok)
	assert.Equal(t, game.HomeTeam, team, "the last accepted write wins")
	team, ok = picks.Get("Bob", game.ID)
	require.True(t, ok)
	assert.Equal(t, game.AwayTeam, team)
}

func TestPickGrid_Integration(t *testing.T) {
	start := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	deps := SetupTestPickService(t, start, "Alice", "Bob")
	ctx := context.Background()
	first, last := deps.Slate[0], deps.Slate[len(deps.Slate)-1]

	svc := deps.ServiceAt(start)
	for _, g := range []scoringdomain.Game{first, last} {
		_, err := svc.SubmitPick(ctx, scoringdomain.Viewer{Player: "Alice"}, "Alice", g.ID, g.HomeTeam)
		require.NoError(t, err)
	}

	// Between the first and last kickoffs only the first pick is public.
	grid, err := deps.ServiceAt(first.Kickoff.Add(time.Minute)).PickGrid(ctx, scoringdomain.Viewer{Player: "Bob"})
	require.NoError(t, err)
	require.Len(t, grid.Rows, 2)

	cells := map[string]scoringdomain.PickCell{}
	for _, c := range grid.Rows[0].Cells {
		cells[c.GameID] = c
	}
	assert.Equal(t, scoringdomain.Player("Alice"), grid.Rows[0].Player)
	assert.True(t, cells[first.ID].Visible)
	assert.Equal(t, first.HomeTeam, cells[first.ID].Team)
	assert.True(t, cells[last.ID].HasPick)
	assert.False(t, cells[last.ID].Visible)
	assert.Empty(t, cells[last.ID].Team)
	assert.False(t, cells[last.ID].Editable)
}
