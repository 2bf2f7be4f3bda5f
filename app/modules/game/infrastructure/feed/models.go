package gamefeed

import (
	"strconv"
	"strings"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
)

// Scoreboard is the subset of the ESPN scoreboard response the poller reads.
type Scoreboard struct {
	Events []Event `json:"events"`
}

type Event struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	ShortName    string        `json:"shortName"`
	Date         string        `json:"date"`
	Status       EventStatus   `json:"status"`
	Competitions []Competition `json:"competitions"`
}

type EventStatus struct {
	Type StatusType `json:"type"`
}

// StatusType.State is "pre", "in" or "post".
type StatusType struct {
	State     string `json:"state"`
	Completed bool   `json:"completed"`
	Detail    string `json:"detail"`
}

type Competition struct {
	Notes       []Note       `json:"notes"`
	Competitors []Competitor `json:"competitors"`
}

// Note headlines carry the round label ("AFC Wild Card Playoffs").
type Note struct {
	Headline string `json:"headline"`
}

type Competitor struct {
	HomeAway string   `json:"homeAway"`
	Winner   bool     `json:"winner"`
	Score    string   `json:"score"`
	Team     TeamInfo `json:"team"`
}

type TeamInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// espnDateLayouts covers the minute-precision form ESPN uses and plain RFC 3339.
var espnDateLayouts = []string{"2006-01-02T15:04Z07:00", time.RFC3339}

// ToFeedGames converts scoreboard events to feed records. Events without two
// competitors are skipped.
func ToFeedGames(sb *Scoreboard) []scoringdomain.FeedGame {
	if sb == nil {
		return nil
	}
	out := make([]scoringdomain.FeedGame, 0, len(sb.Events))
	for _, ev := range sb.Events {
		fg, ok := toFeedGame(ev)
		if ok {
			out = append(out, fg)
		}
	}
	return out
}

func toFeedGame(ev Event) (scoringdomain.FeedGame, bool) {
	if len(ev.Competitions) == 0 {
		return scoringdomain.FeedGame{}, false
	}
	comp := ev.Competitions[0]

	fg := scoringdomain.FeedGame{
		ExternalID: ev.ID,
		EventName:  eventName(ev, comp),
		Status:     statusOf(ev.Status.Type),
		Kickoff:    parseDate(ev.Date),
	}

	var haveAway, haveHome bool
	for _, c := range comp.Competitors {
		name := c.Team.DisplayName
		if name == "" {
			name = c.Team.Name
		}
		score, _ := strconv.Atoi(strings.TrimSpace(c.Score))
		switch c.HomeAway {
		case "away":
			fg.AwayTeam, fg.AwayScore, haveAway = name, score, true
		case "home":
			fg.HomeTeam, fg.HomeScore, haveHome = name, score, true
		default:
			continue
		}
		if c.Winner && fg.Status == scoringdomain.StatusFinal {
			fg.Winner = name
		}
	}
	return fg, haveAway && haveHome
}

func eventName(ev Event, comp Competition) string {
	for _, n := range comp.Notes {
		if n.Headline != "" {
			return n.Headline
		}
	}
	return ev.Name
}

func statusOf(t StatusType) scoringdomain.GameStatus {
	switch {
	case t.Completed || t.State == "post":
		return scoringdomain.StatusFinal
	case t.State == "in":
		return scoringdomain.StatusLive
	default:
		return scoringdomain.StatusScheduled
	}
}

func parseDate(s string) time.Time {
	for _, layout := range espnDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
