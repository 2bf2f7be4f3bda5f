package gamedb

import (
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/uptrace/bun"
)

// Game is the persisted form of a playoff matchup.
type Game struct {
	bun.BaseModel   `bun:"table:games,alias:g"`
	ID              string    `bun:"id,pk"`
	ExternalID      string    `bun:"external_id,nullzero"`
	Round           string    `bun:"round,notnull"`
	RoundConfidence string    `bun:"round_confidence,notnull,default:'authoritative'"`
	AwayTeam        string    `bun:"away_team,notnull"`
	HomeTeam        string    `bun:"home_team,notnull"`
	AwaySeed        int       `bun:"away_seed,notnull"`
	HomeSeed        int       `bun:"home_seed,notnull"`
	Kickoff         time.Time `bun:"kickoff,notnull"`
	Status          string    `bun:"status,notnull,default:'scheduled'"`
	Winner          string    `bun:"winner,nullzero"`
	WinnerSource    string    `bun:"winner_source,nullzero"`
	AlwaysVisible   bool      `bun:"always_visible,notnull"`
	AwayScore       int       `bun:"away_score,notnull"`
	HomeScore       int       `bun:"home_score,notnull"`
	CreatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

// ToDomain converts the row to the scoring model.
func (g *Game) ToDomain() scoringdomain.Game {
	return scoringdomain.Game{
		ID:              g.ID,
		ExternalID:      g.ExternalID,
		AwayTeam:        g.AwayTeam,
		HomeTeam:        g.HomeTeam,
		AwaySeed:        g.AwaySeed,
		HomeSeed:        g.HomeSeed,
		Kickoff:         g.Kickoff.UTC(),
		Status:          scoringdomain.GameStatus(g.Status),
		Winner:          g.Winner,
		WinnerSource:    scoringdomain.WinnerSource(g.WinnerSource),
		Round:           scoringdomain.RoundKey(g.Round),
		RoundConfidence: scoringdomain.RoundConfidence(g.RoundConfidence),
		AlwaysVisible:   g.AlwaysVisible,
		AwayScore:       g.AwayScore,
		HomeScore:       g.HomeScore,
	}
}

// FromDomain builds a row from the scoring model.
func FromDomain(g scoringdomain.Game) *Game {
	status := string(g.Status)
	if status == "" {
		status = string(scoringdomain.StatusScheduled)
	}
	confidence := string(g.RoundConfidence)
	if confidence == "" {
		confidence = string(scoringdomain.ConfidenceAuthoritative)
	}
	return &Game{
		ID:              g.ID,
		ExternalID:      g.ExternalID,
		Round:           string(g.Round),
		RoundConfidence: confidence,
		AwayTeam:        g.AwayTeam,
		HomeTeam:        g.HomeTeam,
		AwaySeed:        g.AwaySeed,
		HomeSeed:        g.HomeSeed,
		Kickoff:         g.Kickoff,
		Status:          status,
		Winner:          g.Winner,
		WinnerSource:    string(g.WinnerSource),
		AlwaysVisible:   g.AlwaysVisible,
		AwayScore:       g.AwayScore,
		HomeScore:       g.HomeScore,
	}
}

// ToDomainList converts rows in order.
func ToDomainList(rows []Game) []scoringdomain.Game {
	out := make([]scoringdomain.Game, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out
}
