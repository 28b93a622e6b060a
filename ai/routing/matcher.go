package routing

import (
	"regexp"
	"strings"
	"unicode"
)

// Pre-compiled patterns for phrasings that keyword overlap misses.
var (
	guidePatternRegex   = regexp.MustCompile(`(?i)what can you do|how do(es)? (this|the app)|where (do|can) i|help me (navigate|find|get started)|what (features|options)`)
	therapyPatternRegex = regexp.MustCompile(`(?i)i('m| am| feel| felt) (so )?(stressed|anxious|sad|overwhelmed|depressed|lonely)|need(s)? (someone )?to talk`)
	journalPatternRegex = regexp.MustCompile(`(?i)(analy[sz]e|look at|read) my (journal|entry|diary)|today i (felt|was|am)`)
)

// intentKeywords is the static keyword map per intent. Keywords are matched
// against lowercase query tokens.
var intentKeywords = map[Intent][]string{
	IntentJournal:   {"journal", "diary", "entry", "wrote", "write", "analyze", "analysis", "insight"},
	IntentExercise:  {"exercise", "practice", "cbt", "reflection", "activity", "routine", "technique"},
	IntentGratitude: {"gratitude", "grateful", "thankful", "appreciate", "appreciation"},
	IntentTherapy:   {"therapy", "therapist", "talk", "conversation", "session", "listen", "stressed", "anxious", "overwhelmed"},
	IntentGuide:     {"guide", "help", "feature", "features", "navigate", "recommend", "suggestion", "start"},
}

// Score is a per-intent match score.
type Score struct {
	Intent Intent
	Value  float64
}

// MatchResult is the output of rule-based classification.
type MatchResult struct {
	// Scores holds every intent with a non-zero score, unordered.
	Scores []Score
	// Confidence is the best score normalized to 0-1.
	Confidence float64
	// Matched is false when no keyword or pattern hit at all.
	Matched bool
}

// Matcher performs rule-based intent matching over the static keyword map.
type Matcher struct{}

// NewMatcher creates a rule matcher.
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Match scores the query against every known intent.
func (m *Matcher) Match(query string) *MatchResult {
	tokens := tokenize(query)

	scores := make(map[Intent]float64)
	for intent, keywords := range intentKeywords {
		hits := 0
		for _, keyword := range keywords {
			if tokens[keyword] {
				hits++
			}
		}
		if hits > 0 {
			scores[intent] = float64(hits)
		}
	}

	// Pattern bonuses for phrasings keyword overlap misses.
	if guidePatternRegex.MatchString(query) {
		scores[IntentGuide] += 2
	}
	if therapyPatternRegex.MatchString(query) {
		scores[IntentTherapy] += 2
	}
	if journalPatternRegex.MatchString(query) {
		scores[IntentJournal] += 2
	}

	if len(scores) == 0 {
		return &MatchResult{Matched: false}
	}

	result := &MatchResult{Matched: true}
	best := 0.0
	for intent, value := range scores {
		result.Scores = append(result.Scores, Score{Intent: intent, Value: value})
		if value > best {
			best = value
		}
	}
	// Normalize confidence: 3+ signal hits is full confidence.
	result.Confidence = best / 3
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	return result
}

func tokenize(query string) map[string]bool {
	tokens := make(map[string]bool)
	for _, field := range strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) {
		tokens[field] = true
	}
	return tokens
}
