// Package exercise generates reflection and CBT exercises from insight
// records. Generation is a side-effect-free transformation of an insight
// into a prompt for the generative-text capability.
package exercise

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storyai/wellspring/ai/core/llm"
	"github.com/storyai/wellspring/ai/errclass"
	"github.com/storyai/wellspring/ai/insight"
)

// Descriptor is an immutable exercise value object.
type Descriptor struct {
	Title        string          `json:"title"`
	Kind         string          `json:"kind"` // morning_reflection or cbt
	Instructions string          `json:"instructions"`
	Rationale    string          `json:"rationale"`
	DerivedFrom  *insight.Record `json:"derived_from,omitempty"`
}

// Generator turns insight records into exercise descriptors.
type Generator struct {
	llm   llm.Service
	sleep func(time.Duration)
}

// NewGenerator creates an exercise generator.
func NewGenerator(llmSvc llm.Service) *Generator {
	return &Generator{llm: llmSvc, sleep: time.Sleep}
}

// Generate produces an exercise descriptor for the insight. A transient
// generation failure is retried exactly once; a second failure returns
// ErrGenerationFailed for the router to surface as a degraded artifact.
func (g *Generator) Generate(ctx context.Context, record *insight.Record) (*Descriptor, error) {
	if record == nil {
		return nil, fmt.Errorf("insight record is required")
	}

	kind := "morning_reflection"
	if len(record.Distortions) > 0 {
		kind = "cbt"
	}

	prompt := g.buildPrompt(record, kind)
	text, err := g.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("exercise generation: %w: %v", errclass.ErrGenerationFailed, err)
	}

	return &Descriptor{
		Title:        titleFor(kind, record.Emotion),
		Kind:         kind,
		Instructions: text,
		Rationale:    rationaleFor(kind, record),
		DerivedFrom:  record,
	}, nil
}

func (g *Generator) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	if g.llm == nil {
		return "", fmt.Errorf("no generation capability configured")
	}
	messages := []llm.Message{llm.UserMessage(prompt)}

	text, _, err := g.llm.Chat(ctx, messages)
	if err == nil {
		return text, nil
	}
	if !errclass.ShouldRetry(err) {
		return "", err
	}

	slog.Debug("exercise: transient generation failure, retrying once", "error", err)
	g.sleep(errclass.RetryDelay(err))

	text, _, err = g.llm.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *Generator) buildPrompt(record *insight.Record, kind string) string {
	themes := strings.Join(record.Themes, ", ")
	if kind == "cbt" {
		return fmt.Sprintf(`Create a Cognitive Behavioral Therapy (CBT) exercise tailored to someone experiencing %s
and showing these cognitive distortions: %s.

The exercise should:
1. Be specific and actionable
2. Focus on identifying and challenging negative thought patterns
3. Include a thought record template or similar structured approach
4. Take 10-15 minutes to complete
5. Be written in a supportive, non-judgmental tone
6. Follow a clear structure with a title, introduction, steps, and conclusion
7. Be 200-300 words in length`,
			record.Emotion, strings.Join(record.Distortions, ", "))
	}
	return fmt.Sprintf(`Create a morning reflection exercise tailored to someone experiencing %s
and focused on the following themes from their journal: %s.

The exercise should:
1. Be specific and actionable
2. Take 5-10 minutes to complete
3. Include step-by-step instructions
4. Have a clear purpose/benefit
5. Be written in a warm, encouraging tone
6. Follow a clear structure with a title, introduction, steps, and conclusion
7. Be 200-300 words in length`,
		record.Emotion, themes)
}

func titleFor(kind, emotion string) string {
	if kind == "cbt" {
		return "Thought Record Exercise"
	}
	if emotion != "" && emotion != "unknown" {
		return fmt.Sprintf("Morning Reflection for %s", strings.Title(emotion)) //nolint:staticcheck // emotion labels are single ASCII words
	}
	return "Morning Reflection"
}

func rationaleFor(kind string, record *insight.Record) string {
	if kind == "cbt" {
		return fmt.Sprintf("Challenges the thought patterns surfaced in your journal (%s).",
			strings.Join(record.Distortions, ", "))
	}
	return fmt.Sprintf("Builds on the themes from your journal (%s).",
		strings.Join(record.Themes, ", "))
}
