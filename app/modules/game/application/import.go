package gameservice

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	gametime "github.com/Black-And-White-Club/pickem-bot/app/modules/game/time_utils"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/Black-And-White-Club/pickem-bot/pkg/results"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

// RosterColumns are the header names understood by ImportRoster. Only id, round,
// away, home and kickoff are required.
var RosterColumns = []string{"id", "round", "away", "home", "kickoff", "always_visible", "external_id", "winner"}

var requiredColumns = []string{"id", "round", "away", "home", "kickoff"}

// ParseRosterWorkbook reads games from the first sheet of an XLSX workbook.
// The first row is the header; blank rows are skipped.
func ParseRosterWorkbook(r io.Reader, parser gametime.KickoffParser, clock scoringdomain.Clock) ([]scoringdomain.Game, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open workbook: %v", ErrInvalidRoster, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidRoster)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %s is empty", ErrInvalidRoster, sheets[0])
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRoster, col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var games []scoringdomain.Game
	for n, row := range rows[1:] {
		line := n + 2
		if strings.Join(row, "") == "" {
			continue
		}

		kickoff, err := parser.ParseKickoff(cell(row, "kickoff"), "", clock)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %w", ErrInvalidKickoff, line, err)
		}

		g := scoringdomain.Game{
			ID:         cell(row, "id"),
			ExternalID: cell(row, "external_id"),
			Round:      scoringdomain.RoundKey(strings.ToLower(cell(row, "round"))),
			AwayTeam:   cell(row, "away"),
			HomeTeam:   cell(row, "home"),
			Kickoff:    kickoff,
			Winner:     cell(row, "winner"),
		}
		if v := cell(row, "always_visible"); v != "" {
			b, err := strconv.ParseBool(strings.ToLower(v))
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: always_visible %q", ErrInvalidRoster, line, v)
			}
			g.AlwaysVisible = b
		}
		games = append(games, g)
	}
	return games, nil
}

// ImportRoster upserts the games in an XLSX workbook. The whole roster is
// validated before anything is written. A blank winner cell keeps the stored
// result.
func (s *GameService) ImportRoster(ctx context.Context, r io.Reader) (*RosterResult, error) {
	result, err := withTelemetry(s, ctx, "ImportRoster", "xlsx", func(ctx context.Context) (rosterResult, error) {
		imported, err := ParseRosterWorkbook(r, s.parser, s.clock)
		if err != nil {
			return results.FailureResult[*RosterResult, error](err), nil
		}
		for _, g := range imported {
			for _, team := range []string{g.AwayTeam, g.HomeTeam} {
				if _, err := s.resolveTeam(team); err != nil {
					return results.FailureResult[*RosterResult, error](fmt.Errorf("game %s: %w", g.ID, err)), nil
				}
			}
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (rosterResult, error) {
			rows, err := s.repo.ListAll(ctx, db)
			if err != nil {
				return rosterResult{}, fmt.Errorf("failed to load roster: %w", err)
			}
			existing := gamedb.ToDomainList(rows)

			roster := make([]scoringdomain.Game, len(existing))
			copy(roster, existing)
			position := make(map[string]int, len(roster))
			for i, g := range roster {
				position[g.ID] = i
			}

			out := &RosterResult{}
			var changed []scoringdomain.Game
			for _, g := range imported {
				i, found := position[g.ID]
				if found && g.Winner == "" {
					prev := roster[i]
					g.Winner = prev.Winner
					g.WinnerSource = prev.WinnerSource
					g.Status = prev.Status
					g.AwayScore, g.HomeScore = prev.AwayScore, prev.HomeScore
				}
				g = s.normalize(g)
				if found {
					roster[i] = g
					out.Updated = append(out.Updated, g.ID)
				} else {
					position[g.ID] = len(roster)
					roster = append(roster, g)
					out.Inserted = append(out.Inserted, g.ID)
				}
				changed = append(changed, g)
			}

			if err := scoringdomain.ValidateRoster(roster); err != nil {
				return results.FailureResult[*RosterResult, error](fmt.Errorf("%w: %w", ErrInvalidRoster, err)), nil
			}

			for _, g := range changed {
				if err := s.repo.Upsert(ctx, db, gamedb.FromDomain(g)); err != nil {
					return rosterResult{}, err
				}
			}
			out.games = changed
			return results.SuccessResult[*RosterResult, error](out), nil
		})
	})

	out, err := unwrap(result, err)
	if err != nil {
		return nil, err
	}
	s.relock(ctx, out.games, true)
	s.publishUpdated(ctx, gameevents.GameUpdatedPayloadV1{
		GameIDs: append(append([]string{}, out.Inserted...), out.Updated...),
		Reason:  gameevents.ReasonImport,
	})
	return out, nil
}
