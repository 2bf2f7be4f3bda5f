package scoringdomain

import (
	"errors"
	"fmt"
	"time"
)

// GameStatus is informational; only Winner gates scoring.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// RoundConfidence distinguishes curated round assignments from feed guesses.
type RoundConfidence string

const (
	ConfidenceAuthoritative RoundConfidence = "authoritative"
	ConfidenceHeuristic     RoundConfidence = "heuristic"
)

// WinnerSource records who decided the game.
type WinnerSource string

const (
	WinnerSourceNone  WinnerSource = ""
	WinnerSourceAdmin WinnerSource = "admin"
	WinnerSourceFeed  WinnerSource = "feed"

	// WinnerSourceAdminCleared marks a game whose result an admin removed. The
	// feed may not decide it again.
	WinnerSourceAdminCleared WinnerSource = "admin_cleared"
)

var (
	ErrDuplicateGameID       = errors.New("duplicate game id")
	ErrEmptyGameID           = errors.New("game id is required")
	ErrInvalidRound          = errors.New("invalid round")
	ErrWinnerNotParticipant  = errors.New("winner must be the away or home team")
	ErrUndeterminedMatchup   = errors.New("matchup is not determined yet")
	ErrSameTeamBothSides     = errors.New("a team cannot play itself")
	ErrMatchupAlreadyDecided = errors.New("matchup cannot change after a winner is set")
)

// Game is one playoff matchup.
type Game struct {
	ID              string
	ExternalID      string
	AwayTeam        string
	HomeTeam        string
	AwaySeed        int
	HomeSeed        int
	Kickoff         time.Time
	Status          GameStatus
	Winner          string
	WinnerSource    WinnerSource
	Round           RoundKey
	RoundConfidence RoundConfidence
	AlwaysVisible   bool
	AwayScore       int
	HomeScore       int
}

// HasWinner reports whether the game is decided.
func (g Game) HasWinner() bool {
	return g.Winner != ""
}

// IsParticipant reports whether team is a decided side of the game.
func (g Game) IsParticipant(team string) bool {
	if team == "" || team == TBD {
		return false
	}
	return team == g.AwayTeam || team == g.HomeTeam
}

// SeedOf returns the stored seed for team, or 0 when team is not a participant.
func (g Game) SeedOf(team string) int {
	switch {
	case !g.IsParticipant(team):
		return 0
	case team == g.AwayTeam:
		return g.AwaySeed
	default:
		return g.HomeSeed
	}
}

// PointsFor returns what a correct pick of team would earn.
func (g Game) PointsFor(team string) int {
	if !g.IsParticipant(team) {
		return 0
	}
	return BasePoints(g.Round) + g.SeedOf(team)
}

// IsDetermined reports whether both sides are known.
func (g Game) IsDetermined() bool {
	return !isPlaceholder(g.AwayTeam) && !isPlaceholder(g.HomeTeam)
}

// IsLocked reports whether kickoff has passed at now.
func (g Game) IsLocked(now time.Time) bool {
	return !now.Before(g.Kickoff)
}

// ValidateWinner checks that team can be recorded as the winner.
// An empty team is valid and means "clear the winner".
func (g Game) ValidateWinner(team string) error {
	if team == "" {
		return nil
	}
	if !g.IsDetermined() {
		return ErrUndeterminedMatchup
	}
	if !g.IsParticipant(team) {
		return fmt.Errorf("%w: %q not in %s @ %s", ErrWinnerNotParticipant, team, g.AwayTeam, g.HomeTeam)
	}
	return nil
}

// ResolveSeeds derives both seeds from the directory. TBD sides get 0.
func (g *Game) ResolveSeeds(dir *TeamDirectory) {
	g.AwaySeed = seedFor(dir, g.AwayTeam)
	g.HomeSeed = seedFor(dir, g.HomeTeam)
}

func seedFor(dir *TeamDirectory, team string) int {
	if isPlaceholder(team) || dir == nil {
		return 0
	}
	return dir.TeamInfo(team).Seed
}

// ValidateRoster checks roster-wide invariants.
func ValidateRoster(games []Game) error {
	seen := make(map[string]struct{}, len(games))
	for _, g := range games {
		if g.ID == "" {
			return ErrEmptyGameID
		}
		if _, dup := seen[g.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateGameID, g.ID)
		}
		seen[g.ID] = struct{}{}

		if !g.Round.IsValid() {
			return fmt.Errorf("%w: game %s has round %q", ErrInvalidRound, g.ID, g.Round)
		}
		if g.IsDetermined() && g.AwayTeam == g.HomeTeam {
			return fmt.Errorf("%w: game %s", ErrSameTeamBothSides, g.ID)
		}
		if g.HasWinner() && !g.IsParticipant(g.Winner) {
			return fmt.Errorf("%w: game %s winner %q", ErrWinnerNotParticipant, g.ID, g.Winner)
		}
	}
	return nil
}

// FindGame returns the game with id.
func FindGame(games []Game, id string) (Game, bool) {
	for _, g := range games {
		if g.ID == id {
			return g, true
		}
	}
	return Game{}, false
}

// AnyLive reports whether any game is currently in progress.
func AnyLive(games []Game) bool {
	for _, g := range games {
		if g.Status == StatusLive {
			return true
		}
	}
	return false
}
