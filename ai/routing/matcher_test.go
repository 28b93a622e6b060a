package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcherGuidePattern(t *testing.T) {
	m := NewMatcher()

	for _, query := range []string{
		"what can you do",
		"how does this app work",
		"show me what features you have",
	} {
		result := m.Match(query)
		assert.True(t, result.Matched, "query %q should match", query)
		assert.Equal(t, IntentGuide, topIntent(result.Scores), "query %q", query)
	}
}

func TestMatcherKeywordOverlap(t *testing.T) {
	m := NewMatcher()

	result := m.Match("generate a gratitude list for me")
	assert.True(t, result.Matched)
	assert.Equal(t, IntentGratitude, topIntent(result.Scores))
}

func TestMatcherNoMatch(t *testing.T) {
	m := NewMatcher()

	result := m.Match("quantum flux capacitor alignment")
	assert.False(t, result.Matched)
	assert.Empty(t, result.Scores)
}

func TestMatcherEmptyQuery(t *testing.T) {
	m := NewMatcher()

	result := m.Match("")
	assert.False(t, result.Matched)
}

func TestMatcherConfidenceCapped(t *testing.T) {
	m := NewMatcher()

	result := m.Match("I need therapy, I feel anxious and depressed, can we talk about my feelings")
	assert.True(t, result.Matched)
	assert.LessOrEqual(t, result.Confidence, 1.0)
	assert.Greater(t, result.Confidence, 0.0)
}

func topIntent(scores []Score) Intent {
	best := Score{Value: -1}
	for _, s := range scores {
		if s.Value > best.Value {
			best = s
		}
	}
	return best.Intent
}
