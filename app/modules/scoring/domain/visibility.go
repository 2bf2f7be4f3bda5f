package scoringdomain

import "time"

// Viewer is the identity looking at the picks. An anonymous viewer has no Player.
type Viewer struct {
	Player  Player
	IsAdmin bool
}

// IsPickVisible reports whether viewer may see owner's pick for game at now.
//
// Admins and the owner always see it. Everyone else sees it from kickoff on, or
// immediately when the game is flagged AlwaysVisible (historical rounds).
func IsPickVisible(game Game, owner, viewer Player, isAdmin bool, now time.Time) bool {
	if isAdmin || isOwner(owner, viewer) {
		return true
	}
	return game.AlwaysVisible || game.IsLocked(now)
}

// IsPickEditable reports whether viewer may change owner's pick for game at now.
// Admins may always edit. Owners may edit strictly before kickoff.
func IsPickEditable(game Game, owner, viewer Player, isAdmin bool, now time.Time) bool {
	if isAdmin {
		return true
	}
	return isOwner(owner, viewer) && now.Before(game.Kickoff)
}

// an anonymous viewer never owns anything.
func isOwner(owner, viewer Player) bool {
	return viewer != "" && viewer == owner
}

// PickCell is one player's pick for one game as seen by a viewer.
// Team is empty whenever Visible is false.
type PickCell struct {
	GameID   string
	Team     string
	HasPick  bool
	Visible  bool
	Editable bool
	Correct  *bool
}

// PickRow is one player's cells in roster game order.
type PickRow struct {
	Player Player
	Cells  []PickCell
}

// BuildPickGrid renders the picks table for viewer, redacting hidden picks.
func BuildPickGrid(roster []Player, games []Game, picks Picks, viewer Viewer, now time.Time) []PickRow {
	rows := make([]PickRow, 0, len(roster))
	for _, owner := range roster {
		row := PickRow{Player: owner, Cells: make([]PickCell, 0, len(games))}
		for _, g := range games {
			team, has := picks.Get(owner, g.ID)
			cell := PickCell{
				GameID:   g.ID,
				HasPick:  has,
				Visible:  IsPickVisible(g, owner, viewer.Player, viewer.IsAdmin, now),
				Editable: IsPickEditable(g, owner, viewer.Player, viewer.IsAdmin, now),
			}
			if cell.Visible && has {
				cell.Team = team
				if g.HasWinner() {
					correct := team == g.Winner
					cell.Correct = &correct
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}
