// Package gameevents holds the topics and payloads published by the game module.
package gameevents

import "time"

const (
	// GameUpdatedV1 is published after any change to the roster.
	GameUpdatedV1 = "game.updated.v1"

	// GameLockedV1 is published when a game reaches kickoff and its picks become public.
	GameLockedV1 = "game.locked.v1"
)

// Reason values for GameUpdatedPayloadV1.
const (
	ReasonWinnerSet  = "winner_set"
	ReasonMatchupSet = "matchup_set"
	ReasonKickoffSet = "kickoff_set"
	ReasonFeed       = "feed"
	ReasonSeed       = "seed"
	ReasonImport     = "import"
)

// ReclassificationV1 reports a heuristic game that moved to another round.
type ReclassificationV1 struct {
	GameID string `json:"game_id"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// WinnerConflictV1 reports a feed result that disagreed with an admin winner.
type WinnerConflictV1 struct {
	GameID      string `json:"game_id"`
	AdminWinner string `json:"admin_winner"`
	FeedWinner  string `json:"feed_winner"`
}

// GameUpdatedPayloadV1 lists the games that changed and why.
type GameUpdatedPayloadV1 struct {
	GameIDs      []string             `json:"game_ids"`
	Reason       string               `json:"reason"`
	Reclassified []ReclassificationV1 `json:"reclassified,omitempty"`
	Conflicts    []WinnerConflictV1   `json:"conflicts,omitempty"`
	UpdatedAt    time.Time            `json:"updated_at"`
}

// GameLockedPayloadV1 is emitted once per game at kickoff.
type GameLockedPayloadV1 struct {
	GameID   string    `json:"game_id"`
	Kickoff  time.Time `json:"kickoff"`
	LockedAt time.Time `json:"locked_at"`
}
