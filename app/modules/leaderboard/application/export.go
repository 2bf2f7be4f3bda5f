package leaderboardservice

import (
	"fmt"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	StandingsSheet = "Standings"
	GamesSheet     = "Games"
)

// ExportWorkbook writes the standings and the game results to an XLSX file.
// Picks never appear in the export.
func ExportWorkbook(standings []scoringdomain.Standing, games []scoringdomain.Game, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), StandingsSheet); err != nil {
		return nil, fmt.Errorf("failed to name standings sheet: %w", err)
	}
	if _, err := f.NewSheet(GamesSheet); err != nil {
		return nil, fmt.Errorf("failed to add games sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	rounds := scoringdomain.Rounds()
	header := []any{"Rank", "Player", "Total", "Correct Picks"}
	for _, r := range rounds {
		header = append(header, r.Name)
	}
	rows := make([][]any, 0, len(standings))
	for _, s := range standings {
		row := []any{s.Rank, s.Player.String(), s.Total, s.CorrectPicks}
		for _, r := range rounds {
			row = append(row, s.Breakdown[r.Key])
		}
		rows = append(rows, row)
	}
	if err := writeSheet(f, StandingsSheet, header, rows, bold); err != nil {
		return nil, err
	}

	gameRows := make([][]any, 0, len(games))
	for _, g := range games {
		gameRows = append(gameRows, []any{
			g.ID,
			string(g.Round),
			g.AwayTeam,
			g.HomeTeam,
			g.Kickoff.UTC().Format(time.RFC3339),
			string(g.Status),
			g.Winner,
			g.AwayScore,
			g.HomeScore,
		})
	}
	gameHeader := []any{"ID", "Round", "Away", "Home", "Kickoff", "Status", "Winner", "Away Score", "Home Score"}
	if err := writeSheet(f, GamesSheet, gameHeader, gameRows, bold); err != nil {
		return nil, err
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   "Playoff Pick'em Standings",
		Created: generatedAt.UTC().Format(time.RFC3339),
	}); err != nil {
		return nil, fmt.Errorf("failed to set workbook properties: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
