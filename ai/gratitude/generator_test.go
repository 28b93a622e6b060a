package gratitude

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/storyai/wellspring/ai/core/llm"
	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/insight"
)

type scriptedLLM struct {
	failures int
	err      error
	calls    int
	prompts  []string
}

func (m *scriptedLLM) Chat(_ context.Context, messages []llm.Message) (string, *llm.CallStats, error) {
	m.calls++
	m.prompts = append(m.prompts, messages[len(messages)-1].Content)
	if m.calls <= m.failures {
		return "", nil, m.err
	}
	return "Write down three things you appreciated today.", &llm.CallStats{}, nil
}

func (m *scriptedLLM) Warmup(context.Context) {}

func newGen(l llm.Service) *Generator {
	g := NewGenerator(l)
	g.sleep = func(time.Duration) {}
	return g
}

func TestGenerateFromInsight(t *testing.T) {
	mock := &scriptedLLM{}
	g := newGen(mock)
	record := &insight.Record{Emotion: "joy", Themes: []string{"friendship", "work"}}

	desc, err := g.Generate(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Instructions == "" {
		t.Error("expected instructions")
	}
	if desc.DerivedFrom != record {
		t.Error("descriptor must reference the source insight record")
	}
	if !strings.Contains(mock.prompts[0], "friendship") {
		t.Error("prompt should carry the insight themes")
	}
}

func TestGenerateStandalone(t *testing.T) {
	g := newGen(&scriptedLLM{})

	desc, err := g.Generate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if desc.Instructions == "" || desc.Rationale == "" {
		t.Error("standalone generation must still produce a full descriptor")
	}
}

func TestGenerateDifficultEmotionGuidance(t *testing.T) {
	mock := &scriptedLLM{}
	g := newGen(mock)

	_, err := g.Generate(context.Background(), &insight.Record{Emotion: "sadness"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(mock.prompts[0], "difficult times") {
		t.Error("prompt should include difficult-emotion guidance")
	}
}

func TestGenerateRetryThenFail(t *testing.T) {
	mock := &scriptedLLM{failures: 5, err: errors.New("timeout")}
	g := newGen(mock)

	_, err := g.Generate(context.Background(), nil)
	if !errors.Is(err, errclass.ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
	if mock.calls != 2 {
		t.Errorf("calls = %d, want exactly one retry", mock.calls)
	}
}
