package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/results"
	"github.com/uptrace/bun"
)

type gameResult = results.OperationResult[*scoringdomain.Game, error]

// SetWinner records an admin decision. Choosing the other team replaces the
// winner and an empty team clears it.
func (s *GameService) SetWinner(ctx context.Context, gameID, team string) (*scoringdomain.Game, error) {
	result, err := withTelemetry(s, ctx, "SetWinner", gameID, func(ctx context.Context) (gameResult, error) {
		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (gameResult, error) {
			loaded, err := s.loadGame(ctx, db, gameID)
			if err != nil || loaded.IsFailure() {
				return loaded, err
			}
			g := *loaded.Success

			winner := ""
			if strings.TrimSpace(team) != "" {
				winner = s.directory.ShortName(team)
			}
			if err := g.ValidateWinner(winner); err != nil {
				return results.FailureResult[*scoringdomain.Game, error](err), nil
			}

			if winner == "" {
				g.Winner = ""
				g.WinnerSource = scoringdomain.WinnerSourceAdminCleared
			} else {
				g.Winner = winner
				g.WinnerSource = scoringdomain.WinnerSourceAdmin
				g.Status = scoringdomain.StatusFinal
			}

			if err := s.repo.Upsert(ctx, db, gamedb.FromDomain(*g)); err != nil {
				return gameResult{}, fmt.Errorf("failed to save winner: %w", err)
			}

			s.logger.InfoContext(ctx, "Winner updated",
				attr.ExtractCorrelationID(ctx),
				attr.GameID(g.ID),
				attr.String("winner", g.Winner),
			)
			return results.SuccessResult[*scoringdomain.Game, error](g), nil
		})
	})

	g, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, gameevents.GameUpdatedPayloadV1{
		GameIDs: []string{g.ID},
		Reason:  gameevents.ReasonWinnerSet,
	})
	return g, nil
}

// SetMatchup fills in the teams of a game. Either side may be TBD.
func (s *GameService) SetMatchup(ctx context.Context, gameID, away, home string) (*scoringdomain.Game, error) {
	result, err := withTelemetry(s, ctx, "SetMatchup", gameID, func(ctx context.Context) (gameResult, error) {
		awayName, err := s.resolveTeam(away)
		if err != nil {
			return results.FailureResult[*scoringdomain.Game, error](err), nil
		}
		homeName, err := s.resolveTeam(home)
		if err != nil {
			return results.FailureResult[*scoringdomain.Game, error](err), nil
		}
		if awayName != scoringdomain.TBD && awayName == homeName {
			return results.FailureResult[*scoringdomain.Game, error](
				fmt.Errorf("%w: %s", scoringdomain.ErrSameTeamBothSides, awayName)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (gameResult, error) {
			loaded, err := s.loadGame(ctx, db, gameID)
			if err != nil || loaded.IsFailure() {
				return loaded, err
			}
			g := *loaded.Success

			if g.HasWinner() {
				return results.FailureResult[*scoringdomain.Game, error](scoringdomain.ErrMatchupAlreadyDecided), nil
			}

			g.AwayTeam = awayName
			g.HomeTeam = homeName
			g.ResolveSeeds(s.directory)

			if err := s.repo.Upsert(ctx, db, gamedb.FromDomain(*g)); err != nil {
				return gameResult{}, fmt.Errorf("failed to save matchup: %w", err)
			}
			return results.SuccessResult[*scoringdomain.Game, error](g), nil
		})
	})

	g, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, gameevents.GameUpdatedPayloadV1{
		GameIDs: []string{g.ID},
		Reason:  gameevents.ReasonMatchupSet,
	})
	return g, nil
}

// resolveTeam maps input to a directory name. Blank input and "TBD" are placeholders.
func (s *GameService) resolveTeam(name string) (string, error) {
	short := s.directory.ShortName(name)
	if short == scoringdomain.TBD {
		return short, nil
	}
	if _, ok := s.directory.Lookup(short); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTeam, name)
	}
	return short, nil
}

// SetKickoff parses input in timezone and moves the game. Pending lock jobs are
// replaced after the write commits.
func (s *GameService) SetKickoff(ctx context.Context, gameID, input, timezone string) (*scoringdomain.Game, error) {
	result, err := withTelemetry(s, ctx, "SetKickoff", gameID, func(ctx context.Context) (gameResult, error) {
		kickoff, err := s.parser.ParseKickoff(input, timezone, s.clock)
		if err != nil {
			return results.FailureResult[*scoringdomain.Game, error](
				fmt.Errorf("%w: %q: %v", ErrInvalidKickoff, input, err)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (gameResult, error) {
			loaded, err := s.loadGame(ctx, db, gameID)
			if err != nil || loaded.IsFailure() {
				return loaded, err
			}
			g := *loaded.Success
			g.Kickoff = kickoff.UTC()

			if err := s.repo.Upsert(ctx, db, gamedb.FromDomain(*g)); err != nil {
				return gameResult{}, fmt.Errorf("failed to save kickoff: %w", err)
			}
			return results.SuccessResult[*scoringdomain.Game, error](g), nil
		})
	})

	g, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.relock(ctx, []scoringdomain.Game{*g}, true)
	s.publishUpdated(ctx, gameevents.GameUpdatedPayloadV1{
		GameIDs: []string{g.ID},
		Reason:  gameevents.ReasonKickoffSet,
	})
	return g, nil
}

// IsValidationError reports whether err came from rejected admin input rather
// than from storage.
func IsValidationError(err error) bool {
	for _, target := range []error{
		ErrUnknownTeam,
		ErrInvalidKickoff,
		ErrInvalidRoster,
		scoringdomain.ErrWinnerNotParticipant,
		scoringdomain.ErrUndeterminedMatchup,
		scoringdomain.ErrSameTeamBothSides,
		scoringdomain.ErrMatchupAlreadyDecided,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
