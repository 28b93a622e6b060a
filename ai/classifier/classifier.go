// Package classifier provides the sentiment/emotion classifier capability.
// The model internals are opaque to the core; this package only defines the
// contract and an LLM-backed implementation of it.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/storyai/wellspring/ai/core/llm"
)

// Unknown is the explicit fallback label used when classification is
// unavailable. Sentiment and emotion are never empty.
const Unknown = "unknown"

// Result holds the classifier output for one text.
type Result struct {
	Sentiment       string             `json:"sentiment"`        // negative, neutral, positive
	Emotion         string             `json:"emotion"`          // dominant emotion label
	SentimentScore  float64            `json:"sentiment_score"`  // confidence of the sentiment label (0-1)
	EmotionScores   map[string]float64 `json:"emotion_scores"`   // per-emotion confidence
}

// Classifier maps input text to sentiment and emotion labels with scores.
type Classifier interface {
	Classify(ctx context.Context, text string) (*Result, error)
}

var sentimentLabels = map[string]bool{"negative": true, "neutral": true, "positive": true}

var emotionLabels = map[string]bool{
	"anger":    true,
	"disgust":  true,
	"fear":     true,
	"joy":      true,
	"neutral":  true,
	"sadness":  true,
	"surprise": true,
}

// llmClassifier implements Classifier on top of a lightweight chat model.
type llmClassifier struct {
	llm     llm.Service
	timeout time.Duration
}

// Config configures the LLM-backed classifier.
type Config struct {
	Timeout time.Duration // per-call bound, default 10s
}

// New creates an LLM-backed classifier.
func New(llmSvc llm.Service, cfg Config) Classifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &llmClassifier{llm: llmSvc, timeout: timeout}
}

const classifySystemPrompt = `You are a text classification service. Given a piece of personal writing,
classify its overall sentiment and dominant emotion.

Sentiment labels: negative, neutral, positive.
Emotion labels: anger, disgust, fear, joy, neutral, sadness, surprise.

Return ONLY a JSON object of this exact shape:
{"sentiment": "label", "sentiment_score": 0.0, "emotion": "label", "emotion_scores": {"label": 0.0}}`

func (c *llmClassifier) Classify(ctx context.Context, text string) (*Result, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	messages := []llm.Message{
		llm.SystemPrompt(classifySystemPrompt),
		llm.UserMessage(text),
	}

	content, _, err := c.llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	result, err := parseResult(content)
	if err != nil {
		slog.Warn("classifier: unparseable response", "error", err)
		return nil, err
	}
	return result, nil
}

// parseResult decodes the classifier JSON, tolerating markdown fences, and
// normalizes labels. Out-of-vocabulary labels map to "unknown".
func parseResult(content string) (*Result, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("parse classifier response: %w", err)
	}

	result.Sentiment = strings.ToLower(strings.TrimSpace(result.Sentiment))
	result.Emotion = strings.ToLower(strings.TrimSpace(result.Emotion))
	if !sentimentLabels[result.Sentiment] {
		result.Sentiment = Unknown
	}
	if !emotionLabels[result.Emotion] {
		result.Emotion = Unknown
	}
	return &result, nil
}

// UnknownResult returns the explicit fallback used when the classifier is
// unavailable: labels present, scores zero.
func UnknownResult() *Result {
	return &Result{
		Sentiment: Unknown,
		Emotion:   Unknown,
	}
}
