package therapy

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func turnsFor(texts ...string) []Turn {
	turns := make([]Turn, 0, len(texts)*2)
	for _, text := range texts {
		turns = append(turns,
			Turn{Speaker: SpeakerUser, Text: text, Timestamp: time.Now()},
			Turn{Speaker: SpeakerAgent, Text: "I hear you.", Timestamp: time.Now()},
		)
	}
	return turns
}

func TestSummarizeParsesJSON(t *testing.T) {
	s := NewSummarizer(&mockLLM{reply: `{"summary": "The user discussed work stress."}`})

	summary, err := s.Summarize(context.Background(), turnsFor("work is too much"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "The user discussed work stress." {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummarizeFallbackOnLLMError(t *testing.T) {
	s := NewSummarizer(&mockLLM{err: errors.New("unavailable")})

	summary, err := s.Summarize(context.Background(), turnsFor("I feel anxious"))
	if err != nil {
		t.Fatalf("fallback must not error: %v", err)
	}
	if !strings.Contains(summary, "I feel anxious") {
		t.Errorf("fallback summary should quote user turns, got %q", summary)
	}
}

func TestSummarizeNilLLM(t *testing.T) {
	s := NewSummarizer(nil)
	summary, err := s.Summarize(context.Background(), turnsFor("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == "" {
		t.Error("expected non-empty fallback summary")
	}
}

func TestSummarizeEmptyTurns(t *testing.T) {
	s := NewSummarizer(nil)
	if _, err := s.Summarize(context.Background(), nil); err == nil {
		t.Error("expected error for empty turn history")
	}
}

func TestSummarizeNonJSONResponse(t *testing.T) {
	s := NewSummarizer(&mockLLM{reply: "A plain text summary of the session."})
	summary, err := s.Summarize(context.Background(), turnsFor("hi"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "A plain text summary of the session." {
		t.Errorf("summary = %q", summary)
	}
}
