package pickhandlers

import (
	"context"

	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

type FakeService struct {
	trace []string

	SubmitPickFunc func(ctx context.Context, viewer scoringdomain.Viewer, owner scoringdomain.Player, gameID, team string) (*pickservice.Submission, error)
	PickGridFunc   func(ctx context.Context, viewer scoringdomain.Viewer) (*pickservice.Grid, error)
}

var _ pickservice.Service = (*FakeService)(nil)

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeService) SubmitPick(ctx context.Context, viewer scoringdomain.Viewer, owner scoringdomain.Player, gameID, team string) (*pickservice.Submission, error) {
	f.record("SubmitPick")
	if f.SubmitPickFunc != nil {
		return f.SubmitPickFunc(ctx, viewer, owner, gameID, team)
	}
	return &pickservice.Submission{Player: owner, GameID: gameID, Team: team, ByAdmin: viewer.IsAdmin}, nil
}

func (f *FakeService) LoadAllPicks(ctx context.Context) (scoringdomain.Picks, error) {
	f.record("LoadAllPicks")
	return scoringdomain.Picks{}, nil
}

func (f *FakeService) PickGrid(ctx context.Context, viewer scoringdomain.Viewer) (*pickservice.Grid, error) {
	f.record("PickGrid")
	if f.PickGridFunc != nil {
		return f.PickGridFunc(ctx, viewer)
	}
	return &pickservice.Grid{}, nil
}

func (f *FakeService) Roster() []scoringdomain.Player {
	return []scoringdomain.Player{"Jerin", "Jeff"}
}
