package scoringdomain

import (
	"fmt"
	"time"
)

// FeedGame is one record from the live scoreboard feed.
type FeedGame struct {
	ExternalID string
	EventName  string
	AwayTeam   string
	HomeTeam   string
	AwayScore  int
	HomeScore  int
	Status     GameStatus
	Winner     string
	Kickoff    time.Time
}

// MergeOptions controls MergeFeed.
type MergeOptions struct {
	// AutoCreate adds unmatched feed games to the roster with a heuristic round.
	AutoCreate bool
}

// Reclassification records a heuristic game moving between rounds.
type Reclassification struct {
	GameID string
	From   RoundKey
	To     RoundKey
}

// WinnerConflict records a feed result that disagrees with an admin-set winner.
type WinnerConflict struct {
	GameID      string
	AdminWinner string
	FeedWinner  string
}

// MergeResult is the roster after a merge plus what changed.
type MergeResult struct {
	Games        []Game
	Updated      []string
	Created      []string
	Reclassified []Reclassification
	Conflicts    []WinnerConflict
	Unmatched    []FeedGame
}

// Changed reports whether the merge touched the roster.
func (r MergeResult) Changed() bool {
	return len(r.Updated) > 0 || len(r.Created) > 0
}

// MergeFeed folds feed updates into games and returns the new roster.
//
// Updates match by external id first, then by the unordered pair of canonical team
// names. Admin winners, and results an admin cleared, are never overridden. Only heuristic games are reclassified
// or have their kickoff moved by the feed.
func MergeFeed(games []Game, updates []FeedGame, dir *TeamDirectory, classifier RoundClassifier, opts MergeOptions) MergeResult {
	res := MergeResult{Games: make([]Game, len(games))}
	copy(res.Games, games)

	for _, u := range updates {
		away := dir.ShortName(u.AwayTeam)
		home := dir.ShortName(u.HomeTeam)

		idx, swapped := matchFeedGame(res.Games, u.ExternalID, away, home)
		if idx < 0 {
			if !opts.AutoCreate || isPlaceholder(away) || isPlaceholder(home) {
				res.Unmatched = append(res.Unmatched, u)
				continue
			}
			g := newFeedGame(u, away, home, dir, classifier)
			res.Games = append(res.Games, g)
			res.Created = append(res.Created, g.ID)
			continue
		}

		awayScore, homeScore := u.AwayScore, u.HomeScore
		if swapped {
			awayScore, homeScore = homeScore, awayScore
		}

		g := &res.Games[idx]
		changed := false
		set := func(cond bool, apply func()) {
			if cond {
				apply()
				changed = true
			}
		}

		set(g.ExternalID == "" && u.ExternalID != "", func() { g.ExternalID = u.ExternalID })
		set(u.Status != "" && g.Status != u.Status, func() { g.Status = u.Status })
		set(g.AwayScore != awayScore || g.HomeScore != homeScore, func() {
			g.AwayScore, g.HomeScore = awayScore, homeScore
		})

		if g.RoundConfidence == ConfidenceHeuristic {
			set(!u.Kickoff.IsZero() && !g.Kickoff.Equal(u.Kickoff), func() { g.Kickoff = u.Kickoff })
			if classifier != nil && u.EventName != "" {
				c := classifier.ClassifyRound(u.EventName)
				if c.Round != g.Round {
					res.Reclassified = append(res.Reclassified, Reclassification{GameID: g.ID, From: g.Round, To: c.Round})
					g.Round = c.Round
					changed = true
				}
			}
		}

		if winner := feedWinner(*g, u, dir); winner != "" {
			switch {
			case g.WinnerSource == WinnerSourceAdmin:
				if g.Winner != winner {
					res.Conflicts = append(res.Conflicts, WinnerConflict{GameID: g.ID, AdminWinner: g.Winner, FeedWinner: winner})
				}
			case g.WinnerSource == WinnerSourceAdminCleared:
				// stays undecided until an admin sets a winner again
			case g.Winner != winner:
				g.Winner = winner
				g.WinnerSource = WinnerSourceFeed
				changed = true
			}
		}

		if changed {
			res.Updated = append(res.Updated, g.ID)
		}
	}
	return res
}

// matchFeedGame returns the roster index for an update and whether the feed
// lists the teams in the opposite orientation.
func matchFeedGame(games []Game, externalID, away, home string) (int, bool) {
	if externalID != "" {
		for i, g := range games {
			if g.ExternalID == externalID {
				return i, g.AwayTeam == home && g.HomeTeam == away && away != home
			}
		}
	}
	if isPlaceholder(away) || isPlaceholder(home) {
		return -1, false
	}
	for i, g := range games {
		if g.AwayTeam == away && g.HomeTeam == home {
			return i, false
		}
		if g.AwayTeam == home && g.HomeTeam == away {
			return i, true
		}
	}
	return -1, false
}

// feedWinner derives the winner from the update after it has been applied to g.
// Only a final update decides a game.
func feedWinner(g Game, u FeedGame, dir *TeamDirectory) string {
	if u.Status != StatusFinal {
		return ""
	}
	if u.Winner != "" {
		w := dir.ShortName(u.Winner)
		if g.IsParticipant(w) {
			return w
		}
		return ""
	}
	if g.AwayScore == g.HomeScore {
		return ""
	}
	if g.AwayScore > g.HomeScore {
		return g.AwayTeam
	}
	return g.HomeTeam
}

func newFeedGame(u FeedGame, away, home string, dir *TeamDirectory, classifier RoundClassifier) Game {
	c := Classification{Round: RoundDivisional, Confidence: ConfidenceHeuristic}
	if classifier != nil {
		c = classifier.ClassifyRound(u.EventName)
	}
	id := "feed-" + u.ExternalID
	if u.ExternalID == "" {
		id = fmt.Sprintf("feed-%s-%s", away, home)
	}
	g := Game{
		ID:              id,
		ExternalID:      u.ExternalID,
		AwayTeam:        away,
		HomeTeam:        home,
		Kickoff:         u.Kickoff,
		Status:          u.Status,
		Round:           c.Round,
		RoundConfidence: ConfidenceHeuristic,
		AwayScore:       u.AwayScore,
		HomeScore:       u.HomeScore,
	}
	if g.Status == "" {
		g.Status = StatusScheduled
	}
	g.ResolveSeeds(dir)
	if w := feedWinner(g, u, dir); w != "" {
		g.Winner = w
		g.WinnerSource = WinnerSourceFeed
	}
	return g
}
