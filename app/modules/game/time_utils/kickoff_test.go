package gametime

import (
	"testing"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeParser_ResolveTimezone(t *testing.T) {
	tp := NewTimeParser("America/Chicago")

	tests := []struct {
		name     string
		input    string
		want     string
		resolved bool
	}{
		{name: "abbreviation", input: "EST", want: "America/New_York", resolved: true},
		{name: "lowercase abbreviation", input: "pdt", want: "America/Los_Angeles", resolved: true},
		{name: "iana name", input: "America/Denver", want: "America/Denver", resolved: true},
		{name: "unknown uses fallback", input: "XYZ", want: "America/Chicago", resolved: false},
		{name: "empty uses fallback", input: "", want: "America/Chicago", resolved: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, ok := tp.ResolveTimezone(tt.input)
			assert.Equal(t, tt.want, loc.String())
			assert.Equal(t, tt.resolved, ok)
		})
	}
}

func TestTimeParser_ParseKickoff(t *testing.T) {
	// 08:00 EDT
	clock := scoringdomain.FixedClock{T: time.Date(2027, 6, 5, 12, 0, 0, 0, time.UTC)}
	tp := NewTimeParser("America/New_York")

	tests := []struct {
		name     string
		input    string
		timezone string
		want     time.Time
		wantErr  bool
	}{
		{
			name:  "rfc3339 ignores timezone",
			input: "2026-01-17T21:30:45Z",
			want:  time.Date(2026, 1, 17, 21, 30, 0, 0, time.UTC),
		},
		{
			name:     "explicit date and 24h time",
			input:    "2026-01-18 16:30",
			timezone: "ET",
			want:     time.Date(2026, 1, 18, 21, 30, 0, 0, time.UTC),
		},
		{
			name:     "month day without year uses current year",
			input:    "Jan 18 4:30 PM",
			timezone: "EST",
			want:     time.Date(2027, 1, 18, 21, 30, 0, 0, time.UTC),
		},
		{
			name:     "compact time is expanded",
			input:    "2026-01-18 430pm",
			timezone: "PST",
			want:     time.Date(2026, 1, 19, 0, 30, 0, 0, time.UTC),
		},
		{
			name:     "natural language today",
			input:    "today 3pm",
			timezone: "EDT",
			want:     time.Date(2027, 6, 5, 19, 0, 0, 0, time.UTC),
		},
		{name: "empty", input: "  ", wantErr: true},
		{name: "gibberish", input: "whenever", timezone: "EST", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tp.ParseKickoff(tt.input, tt.timezone, clock)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnrecognizedTime)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
		})
	}
}
