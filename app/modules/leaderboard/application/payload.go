package leaderboardservice

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	leaderboardevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/leaderboard"
)

// ToPayload converts a table into its published form.
func ToPayload(standings []scoringdomain.Standing, trigger string, computedAt time.Time) leaderboardevents.StandingsUpdatedPayloadV1 {
	rows := make([]leaderboardevents.StandingV1, len(standings))
	for i, s := range standings {
		breakdown := make(map[string]int, len(s.Breakdown))
		for k, v := range s.Breakdown {
			breakdown[string(k)] = v
		}
		rows[i] = leaderboardevents.StandingV1{
			Rank:         s.Rank,
			Player:       s.Player.String(),
			Total:        s.Total,
			Breakdown:    breakdown,
			CorrectPicks: s.CorrectPicks,
		}
	}
	return leaderboardevents.StandingsUpdatedPayloadV1{
		Standings:  rows,
		Trigger:    trigger,
		ComputedAt: computedAt.UTC(),
	}
}

// FromPayload is the inverse of ToPayload. Unknown round keys are kept as is.
func FromPayload(p leaderboardevents.StandingsUpdatedPayloadV1) []scoringdomain.Standing {
	out := make([]scoringdomain.Standing, len(p.Standings))
	for i, s := range p.Standings {
		breakdown := make(map[scoringdomain.RoundKey]int, len(s.Breakdown))
		for k, v := range s.Breakdown {
			breakdown[scoringdomain.RoundKey(k)] = v
		}
		out[i] = scoringdomain.Standing{
			Rank:         s.Rank,
			Player:       scoringdomain.Player(s.Player),
			Total:        s.Total,
			Breakdown:    breakdown,
			CorrectPicks: s.CorrectPicks,
		}
	}
	return out
}
