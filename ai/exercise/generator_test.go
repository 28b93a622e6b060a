package exercise

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/storyai/wellspring/ai/core/llm"
	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/insight"
)

// flakyLLM fails the first n calls, then succeeds.
type flakyLLM struct {
	failures int
	err      error
	calls    int
}

func (m *flakyLLM) Chat(context.Context, []llm.Message) (string, *llm.CallStats, error) {
	m.calls++
	if m.calls <= m.failures {
		return "", nil, m.err
	}
	return "Step 1: breathe. Step 2: write.", &llm.CallStats{}, nil
}

func (m *flakyLLM) Warmup(context.Context) {}

func newGen(l llm.Service) *Generator {
	g := NewGenerator(l)
	g.sleep = func(time.Duration) {}
	return g
}

func TestGenerateMorningReflection(t *testing.T) {
	g := newGen(&flakyLLM{})
	record := &insight.Record{Emotion: "joy", Themes: []string{"friendship"}}

	desc, err := g.Generate(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Kind != "morning_reflection" {
		t.Errorf("kind = %q, want morning_reflection", desc.Kind)
	}
	if desc.Instructions == "" || desc.Rationale == "" {
		t.Error("expected non-empty instructions and rationale")
	}
	if desc.DerivedFrom != record {
		t.Error("descriptor must reference the source insight record")
	}
}

func TestGenerateCBTWhenDistortionsPresent(t *testing.T) {
	g := newGen(&flakyLLM{})
	record := &insight.Record{Emotion: "fear", Distortions: []string{"catastrophizing"}}

	desc, err := g.Generate(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Kind != "cbt" {
		t.Errorf("kind = %q, want cbt", desc.Kind)
	}
}

func TestGenerateRetriesTransientOnce(t *testing.T) {
	mock := &flakyLLM{failures: 1, err: errors.New("connection reset")}
	g := newGen(mock)

	_, err := g.Generate(context.Background(), &insight.Record{Emotion: "neutral"})
	if err != nil {
		t.Fatalf("expected retry to recover, got %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("calls = %d, want 2", mock.calls)
	}
}

func TestGenerateFailsAfterRetry(t *testing.T) {
	mock := &flakyLLM{failures: 5, err: errors.New("connection reset")}
	g := newGen(mock)

	_, err := g.Generate(context.Background(), &insight.Record{Emotion: "neutral"})
	if !errors.Is(err, errclass.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("calls = %d, want exactly one retry", mock.calls)
	}
}

func TestGenerateNoRetryOnPermanentError(t *testing.T) {
	mock := &flakyLLM{failures: 5, err: errors.New("invalid model")}
	g := newGen(mock)

	_, err := g.Generate(context.Background(), &insight.Record{Emotion: "neutral"})
	if !errors.Is(err, errclass.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if mock.calls != 1 {
		t.Errorf("calls = %d, permanent errors must not be retried", mock.calls)
	}
}

func TestGenerateRequiresRecord(t *testing.T) {
	g := newGen(&flakyLLM{})
	if _, err := g.Generate(context.Background(), nil); err == nil {
		t.Error("expected error for nil insight record")
	}
}
