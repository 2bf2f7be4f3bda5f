package scoringdomain

import "strings"

// Classification is a round guess for a feed event.
type Classification struct {
	Round      RoundKey
	Confidence RoundConfidence
}

// RoundClassifier maps a free-form event name to a round.
type RoundClassifier interface {
	ClassifyRound(eventName string) Classification
}

type keywordRule struct {
	round    RoundKey
	keywords []string
}

// Checked in order; the first hit wins.
var keywordRules = []keywordRule{
	{round: RoundWildcard, keywords: []string{"wild card", "wildcard", "wild-card"}},
	{round: RoundDivisional, keywords: []string{"divisional"}},
	{round: RoundConference, keywords: []string{"conference", "championship"}},
	{round: RoundSuperBowl, keywords: []string{"super bowl"}},
}

// KeywordClassifier is a best-effort substring classifier. Its answers are
// always heuristic and never replace a curated round.
type KeywordClassifier struct{}

// ClassifyRound tests the event name against the keyword rules, defaulting to divisional.
func (KeywordClassifier) ClassifyRound(eventName string) Classification {
	name := strings.ToLower(eventName)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return Classification{Round: rule.round, Confidence: ConfidenceHeuristic}
			}
		}
	}
	return Classification{Round: RoundDivisional, Confidence: ConfidenceHeuristic}
}
