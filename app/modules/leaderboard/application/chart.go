package leaderboardservice

import (
	"bytes"
	"fmt"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette colours the standings chart.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	Leader     drawing.Color
	Text       drawing.Color
}

// DefaultPalette is a dark field-green theme.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("0f1f17"),
	Bar:        drawing.ColorFromHex("2e7d4f"),
	Leader:     drawing.ColorFromHex("d4a72c"),
	Text:       drawing.ColorFromHex("e8efe9"),
}

// RenderStandingsChart draws one bar per player in rank order. Players sharing
// first place are drawn in the leader colour.
func RenderStandingsChart(standings []scoringdomain.Standing, palette ChartPalette) ([]byte, error) {
	if len(standings) == 0 {
		return renderNoDataPlaceholder(palette)
	}

	maxTotal := 0
	bars := make([]chart.Value, len(standings))
	for i, s := range standings {
		fill := palette.Bar
		if s.Rank == 1 && s.Total > 0 {
			fill = palette.Leader
		}
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Player, s.Total),
			Value: float64(s.Total),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		}
		maxTotal = max(maxTotal, s.Total)
	}

	graph := chart.BarChart{
		Title:      "Standings",
		TitleStyle: chart.Style{FontColor: palette.Text},
		Width:      max(600, 120*len(standings)),
		Height:     400,
		BarWidth:   60,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis: chart.Style{
			FontColor:   palette.Text,
			StrokeColor: palette.Text,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor:   palette.Text,
				StrokeColor: palette.Text,
			},
			// A table of zeros still needs a non-empty range.
			Range:          &chart.ContinuousRange{Min: 0, Max: float64(max(maxTotal, 1))},
			ValueFormatter: chart.IntValueFormatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render standings chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const msg = "No players in the league yet"

	graph := chart.BarChart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: palette.Background},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      chart.Hidden(),
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
		},
		Bars: []chart.Value{{Value: 0, Style: chart.Style{FillColor: palette.Background, StrokeColor: palette.Background}}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFont(defaults.GetFont())
				r.SetFontColor(palette.Text)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
