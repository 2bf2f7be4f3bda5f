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

type rosterResult = results.OperationResult[*RosterResult, error]

// SeedRoster inserts configured games that are not stored yet. Existing rows
// are left alone so admin edits survive a restart.
func (s *GameService) SeedRoster(ctx context.Context, games []scoringdomain.Game) (*RosterResult, error) {
	result, err := withTelemetry(s, ctx, "SeedRoster", fmt.Sprintf("%d games", len(games)), func(ctx context.Context) (rosterResult, error) {
		normalized := make([]scoringdomain.Game, len(games))
		for i, g := range games {
			normalized[i] = s.normalize(g)
		}
		if err := scoringdomain.ValidateRoster(normalized); err != nil {
			return results.FailureResult[*RosterResult, error](fmt.Errorf("%w: %w", ErrInvalidRoster, err)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (rosterResult, error) {
			out := &RosterResult{}
			for _, g := range normalized {
				inserted, err := s.repo.InsertIfAbsent(ctx, db, gamedb.FromDomain(g))
				if err != nil {
					return rosterResult{}, err
				}
				if !inserted {
					out.Skipped = append(out.Skipped, g.ID)
					continue
				}
				out.Inserted = append(out.Inserted, g.ID)
				out.games = append(out.games, g)
			}
			return results.SuccessResult[*RosterResult, error](out), nil
		})
	})

	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	if len(out.Inserted) > 0 {
		s.logger.InfoContext(ctx, "Seeded games",
			attr.Int("inserted", len(out.Inserted)),
			attr.Int("skipped", len(out.Skipped)),
		)
		s.relock(ctx, out.games, false)
		s.publishUpdated(ctx, gameevents.GameUpdatedPayloadV1{
			GameIDs: out.Inserted,
			Reason:  gameevents.ReasonSeed,
		})
	}
	return out, nil
}

// ScheduleUpcomingLocks enqueues a lock job for every game that has not kicked off.
// Jobs are unique by args so repeated calls do not duplicate them.
func (s *GameService) ScheduleUpcomingLocks(ctx context.Context) error {
	if s.scheduler == nil {
		return nil
	}
	rows, err := s.repo.ListKickoffAfter(ctx, nil, s.clock.Now())
	if err != nil {
		return fmt.Errorf("failed to list upcoming games: %w", err)
	}
	for _, row := range rows {
		if err := s.scheduler.ScheduleLock(ctx, row.ID, row.Kickoff); err != nil {
			return fmt.Errorf("failed to schedule lock for %s: %w", row.ID, err)
		}
	}
	s.logger.InfoContext(ctx, "Scheduled lock jobs", attr.Int("games", len(rows)))
	return nil
}

// normalize canonicalizes team names and derives seeds and defaults.
func (s *GameService) normalize(g scoringdomain.Game) scoringdomain.Game {
	g.AwayTeam = s.directory.ShortName(g.AwayTeam)
	g.HomeTeam = s.directory.ShortName(g.HomeTeam)
	if g.Winner != "" {
		g.Winner = s.directory.ShortName(g.Winner)
		if g.WinnerSource == scoringdomain.WinnerSourceNone {
			g.WinnerSource = scoringdomain.WinnerSourceAdmin
		}
		g.Status = scoringdomain.StatusFinal
	}
	if g.Status == "" {
		g.Status = scoringdomain.StatusScheduled
	}
	if g.RoundConfidence == "" {
		g.RoundConfidence = scoringdomain.ConfidenceAuthoritative
	}
	g.Kickoff = g.Kickoff.UTC()
	g.ResolveSeeds(s.directory)
	return g
}
