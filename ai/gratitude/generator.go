// Package gratitude generates gratitude-practice prompts. It can consume an
// insight record or stand alone with a bare request.
package gratitude

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

// Descriptor is an immutable gratitude-practice value object.
type Descriptor struct {
	Title        string          `json:"title"`
	Instructions string          `json:"instructions"`
	Rationale    string          `json:"rationale"`
	DerivedFrom  *insight.Record `json:"derived_from,omitempty"`
}

// Emotions that call for extra guidance on finding gratitude.
var difficultEmotions = map[string]bool{
	"sadness": true,
	"anger":   true,
	"fear":    true,
	"disgust": true,
}

// Generator turns insight records (or bare requests) into gratitude
// descriptors.
type Generator struct {
	llm   llm.Service
	sleep func(time.Duration)
}

// NewGenerator creates a gratitude generator.
func NewGenerator(llmSvc llm.Service) *Generator {
	return &Generator{llm: llmSvc, sleep: time.Sleep}
}

// Generate produces a gratitude descriptor. The record may be nil for a
// standalone request. Transient failures are retried exactly once, then
// ErrGenerationFailed is returned for the router to degrade the branch.
func (g *Generator) Generate(ctx context.Context, record *insight.Record) (*Descriptor, error) {
	prompt := g.buildPrompt(record)

	text, err := g.generateWithRetry(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("gratitude generation: %w: %v", errclass.ErrGenerationFailed, err)
	}

	return &Descriptor{
		Title:        "Gratitude Practice",
		Instructions: text,
		Rationale:    rationaleFor(record),
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

	slog.Debug("gratitude: transient generation failure, retrying once", "error", err)
	g.sleep(errclass.RetryDelay(err))

	text, _, err = g.llm.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (g *Generator) buildPrompt(record *insight.Record) string {
	emotion := "neutral"
	context := ""
	difficulty := ""

	if record != nil {
		if record.Emotion != "" {
			emotion = record.Emotion
		}
		if len(record.Themes) > 0 {
			context = fmt.Sprintf("\nThe user's journal entries focus on these themes: %s.",
				strings.Join(record.Themes, ", "))
		} else if record.SourceText != "" {
			context = fmt.Sprintf("\nThe user wrote this journal entry: %s", record.SourceText)
		}
		if difficultEmotions[record.Emotion] {
			difficulty = `
Please note that the user is experiencing challenging emotions, so include
specific guidance for finding gratitude during difficult times.`
		}
	}

	return fmt.Sprintf(`Create a personalized gratitude exercise for someone experiencing %s.%s%s

The exercise should:
1. Be specific and actionable
2. Help the user identify things they're genuinely grateful for
3. Include thoughtful prompts if they're struggling to think of things
4. Explain the benefits of gratitude practice
5. Include a structured format (e.g., writing prompts, reflection questions)
6. Be written in a warm, encouraging tone
7. Follow a clear structure with a title, introduction, steps, and conclusion
8. Be 200-300 words in length`,
		emotion, context, difficulty)
}

func rationaleFor(record *insight.Record) string {
	if record == nil || len(record.Themes) == 0 {
		return "A regular gratitude practice is a reliable way to lift day-to-day mood."
	}
	return fmt.Sprintf("Anchors gratitude in what already matters to you (%s).",
		strings.Join(record.Themes, ", "))
}
