package gametime

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedTime is returned when no parser understands the input.
var ErrUnrecognizedTime = errors.New("could not recognize kickoff time")

// KickoffParser turns admin input into a kickoff instant.
type KickoffParser interface {
	ResolveTimezone(input string) (*time.Location, bool)
	ParseKickoff(input, timezone string, clock scoringdomain.Clock) (time.Time, error)
}

// TimeParser holds the timezone mappings and the natural-language parser.
type TimeParser struct {
	TimezoneMap map[string]string
	fallback    string
	w           *when.Parser
}

var compactTime = regexp.MustCompile(`\b(\d{1,2})(\d{2})\s?(am|pm)\b`)

// layouts are matched against lowercased input; month names parse case-insensitively.
var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02 3:04 pm",
	"Jan 2 2006 3:04 pm",
	"Jan 2 3:04 pm",
}

// NewTimeParser creates a TimeParser. fallback is the IANA zone used when the
// requested timezone is not recognized.
func NewTimeParser(fallback string) *TimeParser {
	if fallback == "" {
		fallback = "America/New_York"
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &TimeParser{
		TimezoneMap: map[string]string{
			"PST": "America/Los_Angeles",
			"PDT": "America/Los_Angeles",
			"PT":  "America/Los_Angeles",
			"MST": "America/Denver",
			"MDT": "America/Denver",
			"CST": "America/Chicago",
			"CDT": "America/Chicago",
			"CT":  "America/Chicago",
			"EST": "America/New_York",
			"EDT": "America/New_York",
			"ET":  "America/New_York",
			"UTC": "UTC",
		},
		fallback: fallback,
		w:        w,
	}
}

// ResolveTimezone maps an abbreviation or IANA name to a location. The second
// result is false when the fallback zone was used.
func (tp *TimeParser) ResolveTimezone(input string) (*time.Location, bool) {
	name := strings.TrimSpace(input)
	if full, ok := tp.TimezoneMap[strings.ToUpper(name)]; ok {
		if loc, err := time.LoadLocation(full); err == nil {
			return loc, true
		}
	}
	if name != "" && strings.Contains(name, "/") {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc, true
		}
	}
	loc, err := time.LoadLocation(tp.fallback)
	if err != nil {
		return time.UTC, false
	}
	return loc, false
}

// ParseKickoff parses RFC 3339, one of the explicit layouts or natural language
// ("tomorrow 4:30pm", "sunday at 1pm"), interpreted in timezone. The result is UTC and
// truncated to the minute.
func (tp *TimeParser) ParseKickoff(input, timezone string, clock scoringdomain.Clock) (time.Time, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognizedTime)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC().Truncate(time.Minute), nil
	}

	loc, _ := tp.ResolveTimezone(timezone)
	now := clock.Now().In(loc)

	normalized := strings.ToLower(raw)
	normalized = strings.ReplaceAll(normalized, "today ", "today at ")
	normalized = strings.ReplaceAll(normalized, "tomorrow ", "tomorrow at ")
	normalized = compactTime.ReplaceAllString(normalized, "$1:$2 $3")

	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, normalized, loc)
		if err != nil {
			continue
		}
		if t.Year() == 0 {
			t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
		}
		return t.UTC().Truncate(time.Minute), nil
	}

	r, err := tp.w.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrUnrecognizedTime, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, raw)
	}
	return r.Time.In(loc).UTC().Truncate(time.Minute), nil
}
