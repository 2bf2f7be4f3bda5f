package gameservice

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Game Repo
// ------------------------

// FakeGameRepo keeps rows in memory unless a Func override is set.
type FakeGameRepo struct {
	trace []string
	rows  map[string]gamedb.Game

	ListAllFunc          func(ctx context.Context, db bun.IDB) ([]gamedb.Game, error)
	GetByIDFunc          func(ctx context.Context, db bun.IDB, id string) (*gamedb.Game, error)
	UpsertFunc           func(ctx context.Context, db bun.IDB, game *gamedb.Game) error
	InsertIfAbsentFunc   func(ctx context.Context, db bun.IDB, game *gamedb.Game) (bool, error)
	ListKickoffAfterFunc func(ctx context.Context, db bun.IDB, t time.Time) ([]gamedb.Game, error)
}

func NewFakeGameRepo(rows ...*gamedb.Game) *FakeGameRepo {
	f := &FakeGameRepo{
		trace: []string{},
		rows:  map[string]gamedb.Game{},
	}
	for _, r := range rows {
		f.rows[r.ID] = *r
	}
	return f
}

func (f *FakeGameRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeGameRepo) sorted() []gamedb.Game {
	out := make([]gamedb.Game, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeGameRepo) ListAll(ctx context.Context, db bun.IDB) ([]gamedb.Game, error) {
	f.record("ListAll")
	if f.ListAllFunc != nil {
		return f.ListAllFunc(ctx, db)
	}
	return f.sorted(), nil
}

func (f *FakeGameRepo) GetByID(ctx context.Context, db bun.IDB, id string) (*gamedb.Game, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, id)
	}
	r, ok := f.rows[id]
	if !ok {
		return nil, gamedb.ErrNotFound
	}
	return &r, nil
}

func (f *FakeGameRepo) Upsert(ctx context.Context, db bun.IDB, game *gamedb.Game) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, game)
	}
	f.rows[game.ID] = *game
	return nil
}

func (f *FakeGameRepo) InsertIfAbsent(ctx context.Context, db bun.IDB, game *gamedb.Game) (bool, error) {
	f.record("InsertIfAbsent")
	if f.InsertIfAbsentFunc != nil {
		return f.InsertIfAbsentFunc(ctx, db, game)
	}
	if _, ok := f.rows[game.ID]; ok {
		return false, nil
	}
	f.rows[game.ID] = *game
	return true, nil
}

func (f *FakeGameRepo) ListKickoffAfter(ctx context.Context, db bun.IDB, t time.Time) ([]gamedb.Game, error) {
	f.record("ListKickoffAfter")
	if f.ListKickoffAfterFunc != nil {
		return f.ListKickoffAfterFunc(ctx, db, t)
	}
	var out []gamedb.Game
	for _, r := range f.sorted() {
		if r.Kickoff.After(t) {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- Accessors for assertions ---

func (f *FakeGameRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeGameRepo) Row(id string) (gamedb.Game, bool) {
	r, ok := f.rows[id]
	return r, ok
}

var _ gamedb.Repository = (*FakeGameRepo)(nil)

// ------------------------
// Fake Bus
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

func (b *fakeBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return make(chan *message.Message), nil
}

func (b *fakeBus) Close() error { return nil }

func (b *fakeBus) decode(i int, v any) error {
	return json.Unmarshal(b.published[i].payload, v)
}

var _ eventbus.EventBus = (*fakeBus)(nil)

// ------------------------
// Fake Scheduler
// ------------------------

type fakeScheduler struct {
	scheduled map[string]time.Time
	cancelled []string
	err       error
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: map[string]time.Time{}}
}

func (s *fakeScheduler) ScheduleLock(ctx context.Context, gameID string, kickoff time.Time) error {
	if s.err != nil {
		return s.err
	}
	s.scheduled[gameID] = kickoff
	return nil
}

func (s *fakeScheduler) CancelLocks(ctx context.Context, gameID string) error {
	s.cancelled = append(s.cancelled, gameID)
	delete(s.scheduled, gameID)
	return nil
}

var _ LockScheduler = (*fakeScheduler)(nil)
