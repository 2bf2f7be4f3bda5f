package scoringdomain

// RoundKey identifies one of the four playoff stages.
type RoundKey string

const (
	RoundWildcard   RoundKey = "wildcard"
	RoundDivisional RoundKey = "divisional"
	RoundConference RoundKey = "conference"
	RoundSuperBowl  RoundKey = "superbowl"
)

// Round holds the fixed scoring constants for a playoff stage.
type Round struct {
	Key               RoundKey
	Name              string
	BasePoints        int
	ExpectedGameCount int
}

// rounds is ordered by playoff progression.
var rounds = [...]Round{
	{Key: RoundWildcard, Name: "Wild Card", BasePoints: 1, ExpectedGameCount: 6},
	{Key: RoundDivisional, Name: "Divisional", BasePoints: 2, ExpectedGameCount: 4},
	{Key: RoundConference, Name: "Conference Championships", BasePoints: 4, ExpectedGameCount: 2},
	{Key: RoundSuperBowl, Name: "Super Bowl", BasePoints: 8, ExpectedGameCount: 1},
}

// Rounds returns a copy of the round table in playoff order.
func Rounds() []Round {
	out := make([]Round, len(rounds))
	copy(out, rounds[:])
	return out
}

// RoundKeys returns the four round keys in playoff order.
func RoundKeys() []RoundKey {
	keys := make([]RoundKey, len(rounds))
	for i, r := range rounds {
		keys[i] = r.Key
	}
	return keys
}

// LookupRound returns the round for key.
func LookupRound(key RoundKey) (Round, bool) {
	for _, r := range rounds {
		if r.Key == key {
			return r, true
		}
	}
	return Round{}, false
}

// BasePoints returns the base value for key, or 0 for an unknown key.
func BasePoints(key RoundKey) int {
	r, ok := LookupRound(key)
	if !ok {
		return 0
	}
	return r.BasePoints
}

// IsValid reports whether k is one of the four round keys.
func (k RoundKey) IsValid() bool {
	_, ok := LookupRound(k)
	return ok
}

func (k RoundKey) String() string {
	return string(k)
}

// emptyBreakdown returns a breakdown with every round present at zero.
func emptyBreakdown() map[RoundKey]int {
	b := make(map[RoundKey]int, len(rounds))
	for _, r := range rounds {
		b[r.Key] = 0
	}
	return b
}
