package routing

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyai/wellspring/ai/metrics"
)

func TestClassifyIntentGuide(t *testing.T) {
	svc := NewService(Config{})

	intent, confidence := svc.ClassifyIntent("", "what can you do for me")
	assert.Equal(t, IntentGuide, intent)
	assert.Greater(t, confidence, 0.0)
}

func TestClassifyIntentJournal(t *testing.T) {
	svc := NewService(Config{})

	intent, _ := svc.ClassifyIntent("", "I want to write about my day in my journal")
	assert.Equal(t, IntentJournal, intent)
}

func TestClassifyIntentTherapy(t *testing.T) {
	svc := NewService(Config{})

	intent, _ := svc.ClassifyIntent("", "I need someone to talk to about my anxiety")
	assert.Equal(t, IntentTherapy, intent)
}

func TestClassifyIntentUnknown(t *testing.T) {
	svc := NewService(Config{})

	intent, confidence := svc.ClassifyIntent("", "zzzz qqqq xxxx")
	assert.Equal(t, IntentUnknown, intent)
	assert.Equal(t, 0.0, confidence)
}

func TestClassifyIntentCacheHit(t *testing.T) {
	svc := NewService(Config{})

	first, _ := svc.ClassifyIntent("", "what features are available")
	second, confidence := svc.ClassifyIntent("", "what features are available")
	assert.Equal(t, first, second)
	assert.Equal(t, 1.0, confidence)
}

func TestClassifyIntentCacheMetrics(t *testing.T) {
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	svc := NewService(Config{Exporter: exporter})

	svc.ClassifyIntent("", "what features are available")
	svc.ClassifyIntent("", "what features are available")

	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `wellspring_router_cache_misses_total{cache_type="routing_decision"} 1`)
	assert.Contains(t, rec.Body.String(), `wellspring_router_cache_hits_total{cache_type="routing_decision"} 1`)
}

func TestTieBreakLexical(t *testing.T) {
	svc := NewService(Config{})

	// No session history: ties resolve to the lexically-first intent.
	intent := svc.pickIntent("", []Score{
		{Intent: IntentTherapy, Value: 2},
		{Intent: IntentExercise, Value: 2},
		{Intent: IntentJournal, Value: 1},
	})
	assert.Equal(t, IntentExercise, intent)
}

func TestTieBreakContinuity(t *testing.T) {
	svc := NewService(Config{})
	svc.RecordExecution("sess-1", IntentTherapy)

	// The session's last intent wins over lexical order when tied.
	intent := svc.pickIntent("sess-1", []Score{
		{Intent: IntentTherapy, Value: 2},
		{Intent: IntentExercise, Value: 2},
	})
	assert.Equal(t, IntentTherapy, intent)

	// A different session with no history falls back to lexical order.
	intent = svc.pickIntent("sess-2", []Score{
		{Intent: IntentTherapy, Value: 2},
		{Intent: IntentExercise, Value: 2},
	})
	assert.Equal(t, IntentExercise, intent)
}

func TestRecordExecutionIgnoresInvalid(t *testing.T) {
	svc := NewService(Config{})
	svc.RecordExecution("", IntentTherapy)
	svc.RecordExecution("sess-1", IntentUnknown)

	_, ok := svc.lastIntent.Get("sess-1")
	assert.False(t, ok)
}

func TestKnownIntentsSorted(t *testing.T) {
	intents := KnownIntents()
	require.NotEmpty(t, intents)
	for i := 1; i < len(intents); i++ {
		assert.Less(t, string(intents[i-1]), string(intents[i]))
	}
}

func TestCapabilityTag(t *testing.T) {
	assert.Equal(t, "wellbeing.journal", IntentJournal.CapabilityTag())
	assert.Equal(t, "wellbeing.guide", IntentGuide.CapabilityTag())
}
