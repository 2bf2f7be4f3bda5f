package pickservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	pickdb "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Pick Repository
// ------------------------

type FakePickRepo struct {
	trace []string
	rows  map[[2]string]pickdb.Pick

	ListAllFunc func(ctx context.Context, db bun.IDB) ([]pickdb.Pick, error)
	UpsertFunc  func(ctx context.Context, db bun.IDB, pick *pickdb.Pick) error
}

func NewFakePickRepo(rows ...pickdb.Pick) *FakePickRepo {
	f := &FakePickRepo{rows: make(map[[2]string]pickdb.Pick)}
	for _, r := range rows {
		f.rows[[2]string{r.Player, r.GameID}] = r
	}
	return f
}

func (f *FakePickRepo) Trace() []string { return f.trace }

func (f *FakePickRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakePickRepo) Row(player, gameID string) (pickdb.Pick, bool) {
	r, ok := f.rows[[2]string{player, gameID}]
	return r, ok
}

func (f *FakePickRepo) ListAll(ctx context.Context, db bun.IDB) ([]pickdb.Pick, error) {
	f.record("ListAll")
	if f.ListAllFunc != nil {
		return f.ListAllFunc(ctx, db)
	}
	out := make([]pickdb.Pick, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	return out, nil
}

func (f *FakePickRepo) ListByPlayer(ctx context.Context, db bun.IDB, player string) ([]pickdb.Pick, error) {
	f.record("ListByPlayer")
	var out []pickdb.Pick
	for _, r := range f.rows {
		if r.Player == player {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *FakePickRepo) Upsert(ctx context.Context, db bun.IDB, pick *pickdb.Pick) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, pick)
	}
	f.rows[[2]string{pick.Player, pick.GameID}] = *pick
	return nil
}

// ------------------------
// Fake Game Reader
// ------------------------

type fakeGames struct {
	games   []scoringdomain.Game
	listErr error
	getErr  error
}

func (f *fakeGames) ListGames(context.Context) ([]scoringdomain.Game, error) {
	return f.games, f.listErr
}

func (f *fakeGames) GetGame(_ context.Context, id string) (*scoringdomain.Game, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, g := range f.games {
		if g.ID == id {
			g := g
			return &g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", gameservice.ErrGameNotFound, id)
}

func (f *fakeGames) Directory() *scoringdomain.TeamDirectory {
	return scoringdomain.NewTeamDirectory(scoringdomain.DefaultTeams())
}

// ------------------------
// Fake Event Bus
// ------------------------

type publishedMsg struct {
	topic   string
	payload []byte
}

type fakeBus struct {
	published []publishedMsg
	err       error
}

func (b *fakeBus) Publish(topic string, messages ...*message.Message) error {
	if b.err != nil {
		return b.err
	}
	for _, m := range messages {
		b.published = append(b.published, publishedMsg{topic: topic, payload: m.Payload})
	}
	return nil
}

func (b *fakeBus) Subscribe(context.Context, string) (<-chan *message.Message, error) {
	return nil, errors.New("not supported")
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) decode(i int, v any) error {
	return json.Unmarshal(b.published[i].payload, v)
}
