package therapy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/storyai/wellspring/ai/core/llm"
)

// Summarizer produces a session summary from its turn history.
type Summarizer interface {
	Summarize(ctx context.Context, turns []Turn) (string, error)
}

const summaryMaxLen = 400

const summarySystemPrompt = `You are a therapy session summarizer. Given the transcript of a therapy
conversation, produce a short summary covering: the concerns the user
raised, the emotional tone, and any techniques or next steps discussed.

Return JSON: {"summary": "the summary"}`

// llmSummarizer summarizes with the LLM and degrades to transcript
// truncation when the LLM is unavailable.
type llmSummarizer struct {
	llm     llm.Service
	timeout time.Duration
}

// NewSummarizer creates a session summarizer.
func NewSummarizer(llmSvc llm.Service) Summarizer {
	return &llmSummarizer{llm: llmSvc, timeout: 15 * time.Second}
}

func (s *llmSummarizer) Summarize(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("no turns to summarize")
	}

	if s.llm == nil {
		return fallbackSummarize(turns), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []llm.Message{
		llm.SystemPrompt(summarySystemPrompt),
		llm.UserMessage(transcript(turns)),
	}

	content, _, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return fallbackSummarize(turns), nil
	}

	summary := parseSummary(content)
	if summary == "" {
		return fallbackSummarize(turns), nil
	}
	return truncateRunes(summary, summaryMaxLen), nil
}

func transcript(turns []Turn) string {
	var sb strings.Builder
	for _, turn := range turns {
		sb.WriteString(string(turn.Speaker))
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

func parseSummary(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &result); err == nil && result.Summary != "" {
		return strings.TrimSpace(result.Summary)
	}

	// Not JSON; take the raw content as the summary.
	return content
}

// fallbackSummarize builds a deterministic summary from the user's own
// words when the LLM is unavailable.
func fallbackSummarize(turns []Turn) string {
	var userLines []string
	for _, turn := range turns {
		if turn.Speaker == SpeakerUser && strings.TrimSpace(turn.Text) != "" {
			userLines = append(userLines, strings.TrimSpace(turn.Text))
		}
	}
	if len(userLines) == 0 {
		return "Session held; the user did not share details."
	}
	joined := "Topics the user raised: " + strings.Join(userLines, " / ")
	return truncateRunes(joined, summaryMaxLen)
}

// truncateRunes safely truncates a string by rune count.
func truncateRunes(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}
