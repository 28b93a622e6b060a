package llm

import (
	"context"
	"time"

	"github.com/storyai/wellspring/ai/metrics"
)

// Instrument wraps a Service so every chat call reports its token usage and
// latency to the exporter. A nil service or exporter returns the service
// unchanged.
func Instrument(svc Service, exporter *metrics.PrometheusExporter, model, provider string) Service {
	if svc == nil || exporter == nil {
		return svc
	}
	return &instrumentedService{
		inner:    svc,
		exporter: exporter,
		model:    model,
		provider: provider,
	}
}

type instrumentedService struct {
	inner    Service
	exporter *metrics.PrometheusExporter
	model    string
	provider string
}

func (s *instrumentedService) Chat(ctx context.Context, messages []Message) (string, *CallStats, error) {
	content, stats, err := s.inner.Chat(ctx, messages)
	if stats != nil {
		s.exporter.RecordLLMTokens(s.model, "prompt", stats.PromptTokens)
		s.exporter.RecordLLMTokens(s.model, "completion", stats.CompletionTokens)
		s.exporter.RecordLLMLatency(s.model, s.provider, time.Duration(stats.TotalDurationMs)*time.Millisecond)
	}
	return content, stats, err
}

func (s *instrumentedService) Warmup(ctx context.Context) {
	s.inner.Warmup(ctx)
}
