// Package guide maps user intent queries to a ranked list of platform
// features. Recommendation is a pure function of the query and the static
// catalog; it holds no session state.
package guide

import (
	"sort"
	"strings"
	"unicode"
)

// Suggestion is one ranked recommendation.
type Suggestion struct {
	Feature     string  `json:"feature"`
	Explanation string  `json:"explanation"`
	NextSteps   string  `json:"next_steps"`
	Score       float64 `json:"score"`
}

// Recommender ranks catalog features against a query.
type Recommender struct {
	catalog []Feature
}

// NewRecommender creates a recommender over the static catalog.
func NewRecommender() *Recommender {
	return &Recommender{catalog: Catalog()}
}

// Recommend returns features ranked by keyword relevance. Ties are broken by
// the fixed catalog priority. Queries that match nothing still get the
// highest-priority feature so the caller always has a suggestion.
func (r *Recommender) Recommend(query string) []Suggestion {
	tokens := tokenize(query)

	type scored struct {
		feature Feature
		score   float64
	}
	var ranked []scored
	for _, feature := range r.catalog {
		score := overlapScore(tokens, feature.Keywords)
		if score > 0 {
			ranked = append(ranked, scored{feature: feature, score: score})
		}
	}

	if len(ranked) == 0 {
		// Nothing matched; fall back to the default feature.
		top := r.catalog[0]
		return []Suggestion{{
			Feature:     top.Name,
			Explanation: top.Description,
			NextSteps:   top.NextSteps,
			Score:       0,
		}}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].feature.Priority < ranked[j].feature.Priority
	})

	suggestions := make([]Suggestion, 0, len(ranked))
	for _, item := range ranked {
		suggestions = append(suggestions, Suggestion{
			Feature:     item.feature.Name,
			Explanation: item.feature.Description,
			NextSteps:   item.feature.NextSteps,
			Score:       item.score,
		})
	}
	return suggestions
}

// overlapScore counts query tokens hitting feature keywords, normalized by
// keyword count so verbose features don't dominate.
func overlapScore(tokens map[string]bool, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	hits := 0
	for _, keyword := range keywords {
		if tokens[keyword] {
			hits++
		}
	}
	return float64(hits) / float64(len(keywords))
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
