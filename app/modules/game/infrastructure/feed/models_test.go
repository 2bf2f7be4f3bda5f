package gamefeed

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFeedGames(t *testing.T) {
	raw, err := os.ReadFile("testdata/scoreboard.json")
	require.NoError(t, err)
	var sb Scoreboard
	require.NoError(t, json.Unmarshal(raw, &sb))

	got := ToFeedGames(&sb)

	want := []scoringdomain.FeedGame{
		{
			ExternalID: "401772981",
			EventName:  "AFC Divisional Playoffs",
			AwayTeam:   "Buffalo Bills",
			HomeTeam:   "Denver Broncos",
			AwayScore:  27,
			HomeScore:  24,
			Status:     scoringdomain.StatusFinal,
			Winner:     "Buffalo Bills",
			Kickoff:    time.Date(2026, 1, 17, 21, 30, 0, 0, time.UTC),
		},
		{
			ExternalID: "401772982",
			EventName:  "San Francisco 49ers at Seattle Seahawks",
			AwayTeam:   "San Francisco 49ers",
			HomeTeam:   "Seattle Seahawks",
			AwayScore:  14,
			HomeScore:  10,
			Status:     scoringdomain.StatusLive,
			Kickoff:    time.Date(2026, 1, 18, 1, 0, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToFeedGames mismatch (-want +got):\n%s", diff)
	}
}

func TestToFeedGames_Nil(t *testing.T) {
	assert.Nil(t, ToFeedGames(nil))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		in   StatusType
		want scoringdomain.GameStatus
	}{
		{StatusType{State: "pre"}, scoringdomain.StatusScheduled},
		{StatusType{State: "in"}, scoringdomain.StatusLive},
		{StatusType{State: "post"}, scoringdomain.StatusFinal},
		{StatusType{State: "in", Completed: true}, scoringdomain.StatusFinal},
		{StatusType{}, scoringdomain.StatusScheduled},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusOf(tt.in), "%+v", tt.in)
	}
}

func TestParseDate(t *testing.T) {
	assert.True(t, time.Date(2026, 1, 17, 21, 30, 0, 0, time.UTC).Equal(parseDate("2026-01-17T21:30Z")))
	assert.True(t, time.Date(2026, 1, 17, 21, 30, 5, 0, time.UTC).Equal(parseDate("2026-01-17T16:30:05-05:00")))
	assert.True(t, parseDate("next week").IsZero())
}
