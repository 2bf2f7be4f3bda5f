package testutils

import (
	"fmt"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator builds rosters and wild card slates for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator; pass a seed for reproducible data.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	s := time.Now().UnixNano()
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(uint64(s)), seed: s}
}

// Seed returns the seed, for logging a failing run.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}

// GeneratePlayers returns count distinct player names.
func (g *TestDataGenerator) GeneratePlayers(count int) []scoringdomain.Player {
	seen := make(map[string]struct{}, count)
	players := make([]scoringdomain.Player, 0, count)
	for len(players) < count {
		name := g.faker.FirstName()
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		players = append(players, scoringdomain.Player(name))
	}
	return players
}

// WildCardSlate returns the six wild card matchups (2v7, 3v6, 4v5 per
// conference), kicking off an hour apart from start.
func (g *TestDataGenerator) WildCardSlate(start time.Time) []scoringdomain.Game {
	bySeed := make(map[scoringdomain.Conference]map[int]string)
	for _, t := range scoringdomain.DefaultTeams() {
		if bySeed[t.Conference] == nil {
			bySeed[t.Conference] = make(map[int]string)
		}
		bySeed[t.Conference][t.Seed] = t.Name
	}

	var games []scoringdomain.Game
	for _, conf := range []scoringdomain.Conference{scoringdomain.ConferenceAFC, scoringdomain.ConferenceNFC} {
		for _, pair := range [][2]int{{7, 2}, {6, 3}, {5, 4}} {
			games = append(games, scoringdomain.Game{
				ID:       fmt.Sprintf("wc-%s-%d", conf, pair[1]),
				Round:    scoringdomain.RoundWildcard,
				AwayTeam: bySeed[conf][pair[0]],
				HomeTeam: bySeed[conf][pair[1]],
				Kickoff:  start.Add(time.Duration(len(games)) * time.Hour).UTC(),
			})
		}
	}
	return games
}

// RandomSide returns either team of game.
func (g *TestDataGenerator) RandomSide(game scoringdomain.Game) string {
	if g.faker.Bool() {
		return game.AwayTeam
	}
	return game.HomeTeam
}
