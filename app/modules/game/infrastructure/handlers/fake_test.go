package gamehandlers

import (
	"context"
	"io"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

// FakeService answers with the configured funcs and records calls.
type FakeService struct {
	trace []string

	ListGamesFunc    func(ctx context.Context) ([]scoringdomain.Game, error)
	SetWinnerFunc    func(ctx context.Context, gameID, team string) (*scoringdomain.Game, error)
	SetMatchupFunc   func(ctx context.Context, gameID, away, home string) (*scoringdomain.Game, error)
	SetKickoffFunc   func(ctx context.Context, gameID, input, timezone string) (*scoringdomain.Game, error)
	ImportRosterFunc func(ctx context.Context, r io.Reader) (*gameservice.RosterResult, error)
}

var _ gameservice.Service = (*FakeService)(nil)

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) ListGames(ctx context.Context) ([]scoringdomain.Game, error) {
	f.record("ListGames")
	if f.ListGamesFunc != nil {
		return f.ListGamesFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) GetGame(ctx context.Context, gameID string) (*scoringdomain.Game, error) {
	f.record("GetGame")
	return &scoringdomain.Game{ID: gameID}, nil
}

func (f *FakeService) SetWinner(ctx context.Context, gameID, team string) (*scoringdomain.Game, error) {
	f.record("SetWinner")
	if f.SetWinnerFunc != nil {
		return f.SetWinnerFunc(ctx, gameID, team)
	}
	return &scoringdomain.Game{ID: gameID, Winner: team}, nil
}

func (f *FakeService) SetMatchup(ctx context.Context, gameID, away, home string) (*scoringdomain.Game, error) {
	f.record("SetMatchup")
	if f.SetMatchupFunc != nil {
		return f.SetMatchupFunc(ctx, gameID, away, home)
	}
	return &scoringdomain.Game{ID: gameID, AwayTeam: away, HomeTeam: home}, nil
}

func (f *FakeService) SetKickoff(ctx context.Context, gameID, input, timezone string) (*scoringdomain.Game, error) {
	f.record("SetKickoff")
	if f.SetKickoffFunc != nil {
		return f.SetKickoffFunc(ctx, gameID, input, timezone)
	}
	return &scoringdomain.Game{ID: gameID}, nil
}

func (f *FakeService) ApplyFeedUpdates(ctx context.Context, updates []scoringdomain.FeedGame) (*gameservice.FeedApplyResult, error) {
	f.record("ApplyFeedUpdates")
	return &gameservice.FeedApplyResult{}, nil
}

func (f *FakeService) SeedRoster(ctx context.Context, games []scoringdomain.Game) (*gameservice.RosterResult, error) {
	f.record("SeedRoster")
	return &gameservice.RosterResult{}, nil
}

func (f *FakeService) ImportRoster(ctx context.Context, r io.Reader) (*gameservice.RosterResult, error) {
	f.record("ImportRoster")
	if f.ImportRosterFunc != nil {
		return f.ImportRosterFunc(ctx, r)
	}
	return &gameservice.RosterResult{}, nil
}

func (f *FakeService) ScheduleUpcomingLocks(ctx context.Context) error {
	f.record("ScheduleUpcomingLocks")
	return nil
}

func (f *FakeService) Directory() *scoringdomain.TeamDirectory {
	return scoringdomain.NewTeamDirectory(scoringdomain.DefaultTeams())
}
