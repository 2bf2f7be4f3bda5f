package scoringdomain

import (
	"sort"
	"strings"
)

// Conference is the team's league half.
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

const (
	// TBD marks a participant that has not been decided yet.
	TBD = "TBD"

	// UnknownTeamSeed is the seed used for names missing from the directory.
	UnknownTeamSeed = 0

	// DefaultConference is the conference used for names missing from the directory.
	DefaultConference = ConferenceAFC
)

// TeamInfo is the scoring-relevant data for a team.
type TeamInfo struct {
	Seed       int
	Conference Conference
}

// Team is a directory entry keyed by its short name ("Bills", "49ers").
type Team struct {
	Name       string
	Seed       int
	Conference Conference
}

// cityPrefixes are stripped when a name does not match exactly.
// Multi-word entries must stay ahead of their single-word prefixes.
var cityPrefixes = []string{
	"new england", "new york", "new orleans", "los angeles", "las vegas",
	"san francisco", "green bay", "kansas city", "tampa bay",
	"arizona", "atlanta", "baltimore", "buffalo", "carolina", "chicago",
	"cincinnati", "cleveland", "dallas", "denver", "detroit", "houston",
	"indianapolis", "jacksonville", "miami", "minnesota", "oakland",
	"philadelphia", "pittsburgh", "seattle", "tennessee", "washington",
}

// TeamDirectory resolves team names to seeds and conferences.
// It is read-only after construction and safe for concurrent use.
type TeamDirectory struct {
	exact     map[string]Team
	canonical map[string]Team
	onMiss    func(name string)
}

// DirectoryOption configures a TeamDirectory.
type DirectoryOption func(*TeamDirectory)

// WithMissHook registers fn to be called whenever a lookup falls back to the default.
func WithMissHook(fn func(name string)) DirectoryOption {
	return func(d *TeamDirectory) {
		d.onMiss = fn
	}
}

// NewTeamDirectory builds a directory from teams.
func NewTeamDirectory(teams []Team, opts ...DirectoryOption) *TeamDirectory {
	d := &TeamDirectory{
		exact:     make(map[string]Team, len(teams)),
		canonical: make(map[string]Team, len(teams)),
	}
	for _, t := range teams {
		d.exact[t.Name] = t
		d.canonical[canonicalize(t.Name)] = t
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// TeamInfo resolves name, returning the default info when nothing matches.
func (d *TeamDirectory) TeamInfo(name string) TeamInfo {
	t, ok := d.Lookup(name)
	if !ok {
		if d.onMiss != nil && !isPlaceholder(name) {
			d.onMiss(name)
		}
		return TeamInfo{Seed: UnknownTeamSeed, Conference: DefaultConference}
	}
	return TeamInfo{Seed: t.Seed, Conference: t.Conference}
}

// Lookup finds name by exact match first and canonical form second.
func (d *TeamDirectory) Lookup(name string) (Team, bool) {
	if d == nil {
		return Team{}, false
	}
	if t, ok := d.exact[name]; ok {
		return t, true
	}
	t, ok := d.canonical[canonicalize(name)]
	return t, ok
}

// ShortName returns the directory name for name, or the trimmed input when unknown.
func (d *TeamDirectory) ShortName(name string) string {
	if isPlaceholder(name) {
		return TBD
	}
	if t, ok := d.Lookup(name); ok {
		return t.Name
	}
	return strings.TrimSpace(name)
}

// Teams returns the directory entries ordered by conference and seed.
func (d *TeamDirectory) Teams() []Team {
	out := make([]Team, 0, len(d.exact))
	for _, t := range d.exact {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Conference != out[j].Conference {
			return out[i].Conference < out[j].Conference
		}
		return out[i].Seed < out[j].Seed
	})
	return out
}

func canonicalize(name string) string {
	n := strings.ToLower(strings.Join(strings.Fields(name), " "))
	for _, prefix := range cityPrefixes {
		if strings.HasPrefix(n, prefix+" ") {
			return strings.TrimPrefix(n, prefix+" ")
		}
	}
	return n
}

func isPlaceholder(name string) bool {
	n := strings.TrimSpace(name)
	return n == "" || strings.EqualFold(n, TBD)
}

// DefaultTeams is the 2025-26 playoff field.
func DefaultTeams() []Team {
	return []Team{
		{Name: "Broncos", Seed: 1, Conference: ConferenceAFC},
		{Name: "Patriots", Seed: 2, Conference: ConferenceAFC},
		{Name: "Jaguars", Seed: 3, Conference: ConferenceAFC},
		{Name: "Steelers", Seed: 4, Conference: ConferenceAFC},
		{Name: "Texans", Seed: 5, Conference: ConferenceAFC},
		{Name: "Bills", Seed: 6, Conference: ConferenceAFC},
		{Name: "Chargers", Seed: 7, Conference: ConferenceAFC},
		{Name: "Seahawks", Seed: 1, Conference: ConferenceNFC},
		{Name: "Bears", Seed: 2, Conference: ConferenceNFC},
		{Name: "Eagles", Seed: 3, Conference: ConferenceNFC},
		{Name: "Panthers", Seed: 4, Conference: ConferenceNFC},
		{Name: "Rams", Seed: 5, Conference: ConferenceNFC},
		{Name: "49ers", Seed: 6, Conference: ConferenceNFC},
		{Name: "Packers", Seed: 7, Conference: ConferenceNFC},
	}
}
