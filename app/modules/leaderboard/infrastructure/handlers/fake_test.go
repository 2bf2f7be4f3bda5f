package leaderboardhandlers

import (
	"context"

	leaderboardservice "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

// FakeService implements leaderboardservice.Service.
type FakeService struct {
	trace []string

	StandingsFunc func(ctx context.Context) ([]scoringdomain.Standing, error)
	RecomputeFunc func(ctx context.Context) ([]scoringdomain.Standing, error)
	ChartFunc     func(ctx context.Context) ([]byte, error)
	ExportFunc    func(ctx context.Context) ([]byte, error)
}

func (f *FakeService) Trace() []string { return f.trace }

func (f *FakeService) Standings(ctx context.Context) ([]scoringdomain.Standing, error) {
	f.trace = append(f.trace, "Standings")
	if f.StandingsFunc != nil {
		return f.StandingsFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) Recompute(ctx context.Context) ([]scoringdomain.Standing, error) {
	f.trace = append(f.trace, "Recompute")
	if f.RecomputeFunc != nil {
		return f.RecomputeFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) Chart(ctx context.Context) ([]byte, error) {
	f.trace = append(f.trace, "Chart")
	if f.ChartFunc != nil {
		return f.ChartFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) Export(ctx context.Context) ([]byte, error) {
	f.trace = append(f.trace, "Export")
	if f.ExportFunc != nil {
		return f.ExportFunc(ctx)
	}
	return nil, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
