package gameintegrationtests

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/integration_tests/testutils"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedRoster_Integration(t *testing.T) {
	deps := SetupTestGameService(t, nil)
	ctx := context.Background()
	gen := testutils.NewTestDataGenerator(7)
	slate := gen.WildCardSlate(time.Now().Add(48 * time.Hour))

	res, err := deps.Service.SeedRoster(ctx, slate)
	require.NoError(t, err)
	assert.Len(t, res.Inserted, 6)

	again, err := deps.Service.SeedRoster(ctx, slate)
	require.NoError(t, err)
	assert.Empty(t, again.Inserted)
	assert.Len(t, again.Skipped, 6)

	games, err := deps.Service.ListGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 6)
	for i := 1; i < len(games); i++ {
		assert.False(t, games[i].Kickoff.Before(games[i-1].Kickoff), "games are ordered by kickoff")
	}

	g, err := deps.Service.GetGame(ctx, "wc-AFC-3")
	require.NoError(t, err)
	assert.Equal(t, "Bills", g.AwayTeam)
	assert.Equal(t, 6, g.AwaySeed)
	assert.Equal(t, 3, g.HomeSeed)
	assert.Equal(t, scoringdomain.StatusScheduled, g.Status)
}

func TestSeedRoster_KeepsAdminResults(t *testing.T) {
	deps := SetupTestGameService(t, nil)
	ctx := context.Background()
	slate := testutils.NewTestDataGenerator(7).WildCardSlate(time.Now().Add(-48 * time.Hour))

	_, err := deps.Service.SeedRoster(ctx, slate)
	require.NoError(t, err)
	_, err = deps.Service.SetWinner(ctx, "wc-AFC-3", "Buffalo Bills")
	require.NoError(t, err)

	_, err = deps.Service.SeedRoster(ctx, slate)
	require.NoError(t, err)

	g, err := deps.Service.GetGame(ctx, "wc-AFC-3")
	require.NoError(t, err)
	assert.Equal(t, "Bills", g.Winner)
	assert.Equal(t, scoringdomain.WinnerSourceAdmin, g.WinnerSource)
	assert.Equal(t, scoringdomain.StatusFinal, g.Status)
}

func TestSetWinner_Integration(t *testing.T) {
	env := testutils.GetTestEnv(t)
	publisher := env.NewNatsBus(t, "game-it-publisher")
	observer := env.NewNatsBus(t, "game-it-observer")
	deps := SetupTestGameService(t, publisher)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	updates, err := observer.Subscribe(ctx, gameevents.GameUpdatedV1)
	require.NoError(t, err)

	slate := testutils.NewTestDataGenerator(11).WildCardSlate(time.Now().Add(-48 * time.Hour))
	_, err = deps.Service.SeedRoster(ctx, slate)
	require.NoError(t, err)

	t.Run("rejects a team outside the game", func(t *testing.T) {
		_, err := deps.Service.SetWinner(ctx, "wc-NFC-2", "Bills")
		assert.ErrorIs(t, err, scoringdomain.ErrWinnerNotParticipant)
	})

	t.Run("records the winner and announces it", func(t *testing.T) {
		g, err := deps.Service.SetWinner(ctx, "wc-NFC-2", "Packers")
		require.NoError(t, err)
		assert.Equal(t, "Packers", g.Winner)

		for {
			select {
			case msg := <-updates:
				msg.Ack()
				var p gameevents.GameUpdatedPayloadV1
				require.NoError(t, json.Unmarshal(msg.Payload, &p))
				if p.Reason == gameevents.ReasonWinnerSet {
					assert.Equal(t, []string{"wc-NFC-2"}, p.GameIDs)
					return
				}
			case <-ctx.Done():
				t.Fatal("timed out waiting for game.updated")
			}
		}
	})

	t.Run("clears the winner", func(t *testing.T) {
		g, err := deps.Service.SetWinner(ctx, "wc-NFC-2", "")
		require.NoError(t, err)
		assert.False(t, g.HasWinner())
	})
}
