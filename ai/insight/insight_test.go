package insight

import (
	"context"
	"errors"
	"testing"

	"github.com/storyai/wellspring/ai/classifier"
	"github.com/storyai/wellspring/ai/core/llm"
)

type mockClassifier struct {
	result *classifier.Result
	err    error
}

func (m *mockClassifier) Classify(context.Context, string) (*classifier.Result, error) {
	return m.result, m.err
}

type mockLLM struct {
	response string
	err      error
	calls    int
}

func (m *mockLLM) Chat(context.Context, []llm.Message) (string, *llm.CallStats, error) {
	m.calls++
	if m.err != nil {
		return "", nil, m.err
	}
	return m.response, &llm.CallStats{}, nil
}

func (m *mockLLM) Warmup(context.Context) {}

const insightJSON = `{
	"summary": "Anxiety about work balanced by gratitude for friends.",
	"themes": ["work stress", "friendship"],
	"distortions": ["catastrophizing"],
	"growth_indicators": ["gratitude"],
	"reflection_questions": ["What about work feels most out of your control?"],
	"advice": ["Write down one worry and one thing you are grateful for each evening."]
}`

func TestAnalyzeJournal(t *testing.T) {
	a := NewAnalyzer(
		&mockClassifier{result: &classifier.Result{Sentiment: "negative", Emotion: "fear"}},
		&mockLLM{response: insightJSON},
		Config{},
	)

	record, err := a.AnalyzeJournal(context.Background(), "I felt anxious about work but grateful for my friends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Sentiment != "negative" || record.Emotion != "fear" {
		t.Errorf("labels = (%q, %q), want (negative, fear)", record.Sentiment, record.Emotion)
	}
	if len(record.Themes) != 2 || record.Themes[0] != "work stress" {
		t.Errorf("themes = %v", record.Themes)
	}
	if record.GeneratedAt.IsZero() {
		t.Error("expected GeneratedAt to be set")
	}
}

func TestAnalyzeJournalClassifierUnavailable(t *testing.T) {
	a := NewAnalyzer(
		&mockClassifier{err: errors.New("deadline exceeded")},
		&mockLLM{response: insightJSON},
		Config{},
	)

	record, err := a.AnalyzeJournal(context.Background(), "some entry text.")
	if err != nil {
		t.Fatalf("classifier failure must not abort analysis: %v", err)
	}
	if record.Sentiment != classifier.Unknown || record.Emotion != classifier.Unknown {
		t.Errorf("labels = (%q, %q), want explicit unknown", record.Sentiment, record.Emotion)
	}
}

func TestAnalyzeJournalNilClassifier(t *testing.T) {
	a := NewAnalyzer(nil, &mockLLM{response: insightJSON}, Config{})

	record, err := a.AnalyzeJournal(context.Background(), "entry.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Sentiment == "" || record.Emotion == "" {
		t.Error("sentiment and emotion must never be empty")
	}
}

func TestAnalyzeJournalLLMFailureFallsBack(t *testing.T) {
	a := NewAnalyzer(
		&mockClassifier{result: &classifier.Result{Sentiment: "neutral", Emotion: "neutral"}},
		&mockLLM{err: errors.New("boom")},
		Config{},
	)

	record, err := a.AnalyzeJournal(context.Background(), "A plain day. Nothing much happened.")
	if err != nil {
		t.Fatalf("LLM failure must not abort analysis: %v", err)
	}
	if len(record.Themes) == 0 {
		t.Error("expected heuristic fallback themes")
	}
	if record.Summary == "" {
		t.Error("expected fallback summary from first sentence")
	}
}

func TestAnalyzeJournalEmptyText(t *testing.T) {
	a := NewAnalyzer(nil, &mockLLM{response: insightJSON}, Config{})
	if _, err := a.AnalyzeJournal(context.Background(), "  "); err == nil {
		t.Error("expected error for empty journal text")
	}
}
