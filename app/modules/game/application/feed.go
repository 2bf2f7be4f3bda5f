package gameservice

import (
	"context"
	"fmt"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/results"
	"github.com/uptrace/bun"
)

type feedResult = results.OperationResult[*FeedApplyResult, error]

// ApplyFeedUpdates merges one scoreboard poll into the roster.
func (s *GameService) ApplyFeedUpdates(ctx context.Context, updates []scoringdomain.FeedGame) (*FeedApplyResult, error) {
	result, err := withTelemetry(s, ctx, "ApplyFeedUpdates", fmt.Sprintf("%d updates", len(updates)), func(ctx context.Context) (feedResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (feedResult, error) {
			rows, err := s.repo.ListAll(ctx, db)
			if err != nil {
				return feedResult{}, fmt.Errorf("failed to load roster: %w", err)
			}
			before := gamedb.ToDomainList(rows)

			merged := scoringdomain.MergeFeed(before, updates, s.directory, s.classifier, scoringdomain.MergeOptions{
				AutoCreate: s.autoCreate,
			})

			out := &FeedApplyResult{
				Updated:      merged.Updated,
				Created:      merged.Created,
				Reclassified: merged.Reclassified,
				Conflicts:    merged.Conflicts,
				Unmatched:    len(merged.Unmatched),
				AnyLive:      scoringdomain.AnyLive(merged.Games),
			}

			for _, id := range append(append([]string{}, merged.Updated...), merged.Created...) {
				g, ok := scoringdomain.FindGame(merged.Games, id)
				if !ok {
					continue
				}
				if err := s.repo.Upsert(ctx, db, gamedb.FromDomain(g)); err != nil {
					return feedResult{}, fmt.Errorf("failed to save feed game %s: %w", id, err)
				}
				prev, existed := scoringdomain.FindGame(before, id)
				if !existed || !prev.Kickoff.Equal(g.Kickoff) {
					out.relock = append(out.relock, g)
				}
			}

			return results.SuccessResult[*FeedApplyResult, error](out), nil
		})
	})

	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}

	for _, r := range out.Reclassified {
		s.logger.WarnContext(ctx, "Game reclassified from feed",
			attr.GameID(r.GameID),
			attr.String("from", string(r.From)),
			attr.String("to", string(r.To)),
		)
	}
	for _, c := range out.Conflicts {
		s.logger.WarnContext(ctx, "Feed winner disagrees with admin winner",
			attr.GameID(c.GameID),
			attr.String("admin_winner", c.AdminWinner),
			attr.String("feed_winner", c.FeedWinner),
		)
		s.metrics.RecordWinnerConflict(ctx)
	}
	s.metrics.RecordGamesChanged(ctx, len(out.Updated)+len(out.Created))

	if out.Changed() || len(out.Conflicts) > 0 {
		s.relock(ctx, out.relock, true)
		s.publishUpdated(ctx, feedPayload(out))
	}
	return out, nil
}

func feedPayload(r *FeedApplyResult) gameevents.GameUpdatedPayloadV1 {
	p := gameevents.GameUpdatedPayloadV1{
		GameIDs: append(append([]string{}, r.Updated...), r.Created...),
		Reason:  gameevents.ReasonFeed,
	}
	for _, rc := range r.Reclassified {
		p.Reclassified = append(p.Reclassified, gameevents.ReclassificationV1{
			GameID: rc.GameID,
			From:   string(rc.From),
			To:     string(rc.To),
		})
	}
	for _, c := range r.Conflicts {
		p.Conflicts = append(p.Conflicts, gameevents.WinnerConflictV1{
			GameID:      c.GameID,
			AdminWinner: c.AdminWinner,
			FeedWinner:  c.FeedWinner,
		})
	}
	return p
}
