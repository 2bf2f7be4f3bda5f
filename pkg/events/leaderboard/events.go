// Package leaderboardevents holds the topics and payloads published by the leaderboard module.
package leaderboardevents

import "time"

// StandingsUpdatedV1 is published after standings are recomputed.
const StandingsUpdatedV1 = "leaderboard.standings.updated.v1"

// StandingV1 is one ranked row.
type StandingV1 struct {
	Rank         int            `json:"rank"`
	Player       string         `json:"player"`
	Total        int            `json:"total"`
	Breakdown    map[string]int `json:"breakdown"`
	CorrectPicks int            `json:"correct_picks"`
}

// StandingsUpdatedPayloadV1 carries the full table. Totals only count decided
// games, so nothing here reveals an open pick.
type StandingsUpdatedPayloadV1 struct {
	Standings  []StandingV1 `json:"standings"`
	Trigger    string       `json:"trigger"`
	ComputedAt time.Time    `json:"computed_at"`
}
