// Package insight turns raw journal text plus classifier output into a
// structured insight record that drives exercise and gratitude generation.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storyai/wellspring/ai/classifier"
	"github.com/storyai/wellspring/ai/core/llm"
)

// Record is the structured interpretation of one journal entry. It is a
// value object: created once, consumed downstream, never mutated.
type Record struct {
	SourceText          string    `json:"source_text"`
	Sentiment           string    `json:"sentiment"`
	Emotion             string    `json:"emotion"`
	Summary             string    `json:"summary"`
	Themes              []string  `json:"themes"`
	Distortions         []string  `json:"distortions"`
	GrowthIndicators    []string  `json:"growth_indicators"`
	ReflectionQuestions []string  `json:"reflection_questions"`
	Advice              []string  `json:"advice"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// Analyzer produces insight records from journal text.
type Analyzer struct {
	classifier classifier.Classifier
	llm        llm.Service
	timeout    time.Duration
	now        func() time.Time
}

// Config configures the analyzer.
type Config struct {
	Timeout time.Duration // insight generation bound, default 30s
}

// NewAnalyzer creates an insight analyzer. The classifier may be nil, in
// which case every record carries the explicit "unknown" labels.
func NewAnalyzer(cls classifier.Classifier, llmSvc llm.Service, cfg Config) *Analyzer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Analyzer{
		classifier: cls,
		llm:        llmSvc,
		timeout:    timeout,
		now:        time.Now,
	}
}

const insightSystemPrompt = `You are a compassionate journal analysis assistant. Given a journal entry
and its sentiment/emotion classification, produce a therapeutic reading of it.

Return ONLY a JSON object of this exact shape:
{
  "summary": "one or two sentences",
  "themes": ["theme"],
  "distortions": ["cognitive distortion, if any"],
  "growth_indicators": ["positive aspect"],
  "reflection_questions": ["question for the writer"],
  "advice": ["practical, actionable suggestion"]
}`

// AnalyzeJournal produces an insight record for the given text. Classifier
// unavailability degrades to sentiment/emotion "unknown"; it never blocks
// the pipeline. LLM unavailability degrades to heuristic themes.
func (a *Analyzer) AnalyzeJournal(ctx context.Context, text string) (*Record, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("journal text is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	cls := a.classify(ctx, text)

	record := &Record{
		SourceText:  text,
		Sentiment:   cls.Sentiment,
		Emotion:     cls.Emotion,
		GeneratedAt: a.now(),
	}

	if err := a.enrich(ctx, record); err != nil {
		slog.Warn("insight: enrichment failed, using heuristic fallback", "error", err)
		a.fallbackEnrich(record)
	}

	return record, nil
}

// classify runs the classifier with the unavailability fallback.
func (a *Analyzer) classify(ctx context.Context, text string) *classifier.Result {
	if a.classifier == nil {
		return classifier.UnknownResult()
	}
	result, err := a.classifier.Classify(ctx, text)
	if err != nil {
		slog.Warn("insight: classifier unavailable, falling back to unknown", "error", err)
		return classifier.UnknownResult()
	}
	return result
}

// enrich fills summary, themes, distortions, growth indicators, reflection
// questions and advice from the LLM.
func (a *Analyzer) enrich(ctx context.Context, record *Record) error {
	if a.llm == nil {
		return fmt.Errorf("no LLM service configured")
	}

	userPrompt := fmt.Sprintf("Journal entry: %s\n\nSentiment: %s\nDominant emotion: %s",
		record.SourceText, record.Sentiment, record.Emotion)

	messages := []llm.Message{
		llm.SystemPrompt(insightSystemPrompt),
		llm.UserMessage(userPrompt),
	}

	content, _, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return err
	}

	var parsed struct {
		Summary             string   `json:"summary"`
		Themes              []string `json:"themes"`
		Distortions         []string `json:"distortions"`
		GrowthIndicators    []string `json:"growth_indicators"`
		ReflectionQuestions []string `json:"reflection_questions"`
		Advice              []string `json:"advice"`
	}
	if err := json.Unmarshal([]byte(stripFence(content)), &parsed); err != nil {
		return fmt.Errorf("parse insight response: %w", err)
	}

	record.Summary = strings.TrimSpace(parsed.Summary)
	record.Themes = parsed.Themes
	record.Distortions = parsed.Distortions
	record.GrowthIndicators = parsed.GrowthIndicators
	record.ReflectionQuestions = parsed.ReflectionQuestions
	record.Advice = parsed.Advice

	if len(record.Themes) == 0 {
		a.fallbackEnrich(record)
	}
	return nil
}

// fallbackEnrich supplies generic themes so downstream generators always
// have something to work with.
func (a *Analyzer) fallbackEnrich(record *Record) {
	if record.Summary == "" {
		record.Summary = firstSentence(record.SourceText)
	}
	if len(record.Themes) == 0 {
		record.Themes = []string{"self-reflection", "personal growth"}
	}
}

func stripFence(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	for _, marker := range []string{".", "!", "?"} {
		if idx := strings.Index(text, marker); idx > 0 {
			return text[:idx+1]
		}
	}
	if len(text) > 120 {
		return text[:120]
	}
	return text
}
