package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/storyai/wellspring/ai/core/llm"
)

// mockLLM returns a fixed response or error.
type mockLLM struct {
	response string
	err      error
}

func (m *mockLLM) Chat(_ context.Context, _ []llm.Message) (string, *llm.CallStats, error) {
	if m.err != nil {
		return "", nil, m.err
	}
	return m.response, &llm.CallStats{}, nil
}

func (m *mockLLM) Warmup(context.Context) {}

func TestClassifyParsesLabels(t *testing.T) {
	c := New(&mockLLM{
		response: `{"sentiment": "negative", "sentiment_score": 0.91, "emotion": "fear", "emotion_scores": {"fear": 0.8, "sadness": 0.15}}`,
	}, Config{})

	result, err := c.Classify(context.Background(), "I felt anxious about work")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sentiment != "negative" {
		t.Errorf("sentiment = %q, want negative", result.Sentiment)
	}
	if result.Emotion != "fear" {
		t.Errorf("emotion = %q, want fear", result.Emotion)
	}
	if result.EmotionScores["fear"] != 0.8 {
		t.Errorf("fear score = %v, want 0.8", result.EmotionScores["fear"])
	}
}

func TestClassifyToleratesMarkdownFence(t *testing.T) {
	c := New(&mockLLM{
		response: "```json\n{\"sentiment\": \"positive\", \"emotion\": \"joy\"}\n```",
	}, Config{})

	result, err := c.Classify(context.Background(), "grateful for my friends")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sentiment != "positive" || result.Emotion != "joy" {
		t.Errorf("got (%q, %q), want (positive, joy)", result.Sentiment, result.Emotion)
	}
}

func TestClassifyNormalizesBadLabels(t *testing.T) {
	c := New(&mockLLM{
		response: `{"sentiment": "awesome", "emotion": "euphoric"}`,
	}, Config{})

	result, err := c.Classify(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Sentiment != Unknown || result.Emotion != Unknown {
		t.Errorf("got (%q, %q), want unknown labels", result.Sentiment, result.Emotion)
	}
}

func TestClassifyPropagatesLLMError(t *testing.T) {
	c := New(&mockLLM{err: errors.New("boom")}, Config{})
	if _, err := c.Classify(context.Background(), "text"); err == nil {
		t.Error("expected error from failing LLM")
	}
}

func TestClassifyRejectsEmptyText(t *testing.T) {
	c := New(&mockLLM{response: "{}"}, Config{})
	if _, err := c.Classify(context.Background(), "   "); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestUnknownResultNeverEmpty(t *testing.T) {
	r := UnknownResult()
	if r.Sentiment == "" || r.Emotion == "" {
		t.Error("fallback result must carry explicit labels")
	}
}
