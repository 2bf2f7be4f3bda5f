package scoringdomain

import (
	"cmp"
	"slices"
)

// Player is a member of the closed league roster.
type Player string

func (p Player) String() string {
	return string(p)
}

// Picks maps player -> game id -> chosen team.
type Picks map[Player]map[string]string

// Get returns the pick for (player, gameID).
func (p Picks) Get(player Player, gameID string) (string, bool) {
	team, ok := p[player][gameID]
	return team, ok && team != ""
}

// Set records a pick, overwriting any previous value.
func (p Picks) Set(player Player, gameID, team string) {
	if p[player] == nil {
		p[player] = make(map[string]string)
	}
	p[player][gameID] = team
}

// Score is one player's points, split by round.
type Score struct {
	Player    Player
	Total     int
	Breakdown map[RoundKey]int
}

// ComputeScore totals a player's correct picks over decided games.
//
// A correct pick earns BasePoints(round) + seed of the winner. Undecided games,
// missing picks and wrong picks earn nothing. The breakdown always carries all
// four rounds.
func ComputeScore(player Player, games []Game, picks Picks) Score {
	score := Score{Player: player, Breakdown: emptyBreakdown()}
	for _, g := range games {
		pts, ok := pointsEarned(g, player, picks)
		if !ok {
			continue
		}
		score.Breakdown[g.Round] += pts
		score.Total += pts
	}
	return score
}

// pointsEarned returns the points for player on g and whether the pick was correct.
func pointsEarned(g Game, player Player, picks Picks) (int, bool) {
	if !g.HasWinner() || !g.Round.IsValid() {
		return 0, false
	}
	pick, ok := picks.Get(player, g.ID)
	if !ok || pick != g.Winner {
		return 0, false
	}
	return BasePoints(g.Round) + g.SeedOf(g.Winner), true
}

// Standing is a ranked row of the leaderboard.
type Standing struct {
	Rank         int
	Player       Player
	Total        int
	Breakdown    map[RoundKey]int
	CorrectPicks int
}

// ComputeStandings scores every roster player and ranks them by total.
// Ties keep roster order and share a rank (1, 1, 3).
func ComputeStandings(roster []Player, games []Game, picks Picks) []Standing {
	standings := make([]Standing, len(roster))
	order := make(map[Player]int, len(roster))
	for i, player := range roster {
		order[player] = i
		s := ComputeScore(player, games, picks)
		correct := 0
		for _, g := range games {
			if _, ok := pointsEarned(g, player, picks); ok {
				correct++
			}
		}
		standings[i] = Standing{
			Player:       player,
			Total:        s.Total,
			Breakdown:    s.Breakdown,
			CorrectPicks: correct,
		}
	}

	slices.SortStableFunc(standings, func(a, b Standing) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(order[a.Player], order[b.Player])
	})

	for i := range standings {
		if i > 0 && standings[i].Total == standings[i-1].Total {
			standings[i].Rank = standings[i-1].Rank
			continue
		}
		standings[i].Rank = i + 1
	}
	return standings
}
