package llm

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storyai/wellspring/ai/metrics"
)

type staticService struct {
	content string
	stats   *CallStats
	err     error
	warmed  bool
}

func (s *staticService) Chat(context.Context, []Message) (string, *CallStats, error) {
	return s.content, s.stats, s.err
}

func (s *staticService) Warmup(context.Context) { s.warmed = true }

func scrapeMetrics(t *testing.T, exporter *metrics.PrometheusExporter) string {
	t.Helper()
	rec := httptest.NewRecorder()
	exporter.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	return rec.Body.String()
}

func TestInstrumentRecordsStats(t *testing.T) {
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	inner := &staticService{
		content: "hello",
		stats:   &CallStats{PromptTokens: 7, CompletionTokens: 11, TotalTokens: 18, TotalDurationMs: 250},
	}

	svc := Instrument(inner, exporter, "test-model", "openai")
	content, stats, err := svc.Chat(context.Background(), []Message{UserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "hello", content)
	require.NotNil(t, stats)

	body := scrapeMetrics(t, exporter)
	assert.Contains(t, body, `wellspring_llm_tokens_total{model="test-model",token_type="prompt"} 7`)
	assert.Contains(t, body, `wellspring_llm_tokens_total{model="test-model",token_type="completion"} 11`)
	assert.Contains(t, body, `wellspring_llm_latency_seconds_count{model="test-model",provider="openai"} 1`)
}

func TestInstrumentSkipsNilStats(t *testing.T) {
	exporter := metrics.NewPrometheusExporter(metrics.DefaultConfig())
	inner := &staticService{err: errors.New("provider down")}

	svc := Instrument(inner, exporter, "test-model", "openai")
	_, _, err := svc.Chat(context.Background(), nil)
	require.Error(t, err)

	body := scrapeMetrics(t, exporter)
	assert.NotContains(t, body, "wellspring_llm_tokens_total")
}

func TestInstrumentNilExporterPassesThrough(t *testing.T) {
	inner := &staticService{content: "ok"}
	svc := Instrument(inner, nil, "m", "p")
	assert.Equal(t, Service(inner), svc)

	svc.Warmup(context.Background())
	assert.True(t, inner.warmed)
}
