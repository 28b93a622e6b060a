// Package therapy implements the conversation session manager: per-session
// dialogue state, turn-ordered generation, and end-of-session summaries.
package therapy

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lithammer/shortuuid/v4"

	"github.com/storyai/wellspring/ai/core/llm"
	"github.com/storyai/wellspring/ai/errclass"
)

const openingReply = "I'm here to listen and support you. How are you feeling today?"

const therapySystemPrompt = `You are an empathetic AI therapist specializing in Cognitive Behavioral
Therapy (CBT), mindfulness, and self-reflection techniques. Your goal is to
help the user explore their thoughts and feelings in a supportive,
non-judgmental way.

Guidelines for your responses:
1. Use therapeutic techniques from CBT, mindfulness, and positive psychology
2. Ask thoughtful questions to help users gain insight
3. Validate emotions while gently challenging unhelpful thought patterns
4. Suggest practical exercises or techniques when appropriate
5. Maintain a warm, empathetic tone
6. Keep responses concise (3-5 sentences)
7. Never diagnose or replace professional mental health care`

// Archiver persists ended sessions. The manager only calls Save; storage
// schema is the collaborator's concern.
type Archiver interface {
	SaveSession(ctx context.Context, session *Session) error
}

// Config configures the session manager.
type Config struct {
	// WindowTurns is the maximum number of recent turns passed to the
	// generation capability. Older turns are compacted behind the summary
	// anchor. The most recent turn is always included.
	WindowTurns int

	// ReplyTimeout bounds each generation call.
	ReplyTimeout time.Duration
}

// Manager owns all active conversation sessions.
type Manager struct {
	llm        llm.Service
	summarizer Summarizer
	archiver   Archiver
	config     Config

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a session manager. A nil summarizer gets the default
// LLM-backed one; the archiver may be nil.
func NewManager(llmSvc llm.Service, summarizer Summarizer, archiver Archiver, cfg Config) *Manager {
	if cfg.WindowTurns <= 0 {
		cfg.WindowTurns = 20
	}
	if cfg.ReplyTimeout <= 0 {
		cfg.ReplyTimeout = 30 * time.Second
	}
	if summarizer == nil {
		summarizer = NewSummarizer(llmSvc)
	}
	return &Manager{
		llm:        llmSvc,
		summarizer: summarizer,
		archiver:   archiver,
		config:     cfg,
		sessions:   make(map[string]*Session),
	}
}

// StartOrContinue appends a user turn and produces the agent reply. An empty
// or unknown session ID creates a new session seeded with the opening agent
// turn. Returns the reply and the session ID.
func (m *Manager) StartOrContinue(ctx context.Context, sessionID, userID, message string) (string, string, error) {
	sess, created := m.getOrCreate(sessionID, userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Status == SessionStatusEnded {
		return "", "", fmt.Errorf("session %s: %w", sess.ID, errclass.ErrSessionNotFound)
	}

	now := time.Now()
	sess.Turns = append(sess.Turns, Turn{Speaker: SpeakerUser, Text: message, Timestamp: now})
	sess.UpdatedAt = now

	reply, err := m.generateReply(ctx, sess)
	if err != nil {
		// The user turn stays recorded; the reply degrades to the
		// opening prompt so the conversation can continue.
		slog.Warn("therapy: reply generation failed", "session_id", sess.ID, "error", err)
		reply = openingReply
	}

	sess.Turns = append(sess.Turns, Turn{Speaker: SpeakerAgent, Text: reply, Timestamp: time.Now()})
	sess.UpdatedAt = time.Now()

	if created {
		slog.Info("therapy: session started", "session_id", sess.ID, "user_id", userID)
	}
	return reply, sess.ID, nil
}

// End marks the session ended, generates and stores its summary, and returns
// it. Calling End twice is idempotent: the second call returns the stored
// summary without regenerating it.
func (m *Manager) End(ctx context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("session %s: %w", sessionID, errclass.ErrSessionNotFound)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.Status == SessionStatusEnded {
		return sess.Summary, nil
	}

	summary, err := m.summarizer.Summarize(ctx, sess.Turns)
	if err != nil {
		// Summarizer implementations fall back internally; an error here
		// means even the fallback had nothing to work with.
		return "", fmt.Errorf("summarize session %s: %w", sessionID, err)
	}

	sess.Status = SessionStatusEnded
	sess.Summary = summary
	sess.UpdatedAt = time.Now()

	if m.archiver != nil {
		if err := m.archiver.SaveSession(ctx, sess.snapshotLocked()); err != nil {
			slog.Warn("therapy: failed to archive session", "session_id", sessionID, "error", err)
		}
	}

	slog.Info("therapy: session ended", "session_id", sessionID, "turns", len(sess.Turns))
	return summary, nil
}

// Get returns a snapshot of the session, or ErrSessionNotFound.
func (m *Manager) Get(sessionID string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, errclass.ErrSessionNotFound)
	}
	return sess.Snapshot(), nil
}

// IsActive reports whether the session exists and is active.
func (m *Manager) IsActive(sessionID string) bool {
	m.mu.RLock()
	sess, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.Status == SessionStatusActive
}

// ActiveCount returns the number of sessions still accepting turns.
func (m *Manager) ActiveCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, sess := range m.sessions {
		sess.mu.Lock()
		if sess.Status == SessionStatusActive {
			count++
		}
		sess.mu.Unlock()
	}
	return count
}

func (m *Manager) getOrCreate(sessionID, userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sessionID != "" {
		if sess, ok := m.sessions[sessionID]; ok {
			return sess, false
		}
	}

	now := time.Now()
	sess := &Session{
		ID:     shortuuid.New(),
		UserID: userID,
		Status: SessionStatusActive,
		Turns: []Turn{
			{Speaker: SpeakerAgent, Text: openingReply, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.sessions[sess.ID] = sess
	return sess, true
}

// generateReply calls the generation capability with the window-bounded turn
// history. Caller must hold the session lock.
func (m *Manager) generateReply(ctx context.Context, sess *Session) (string, error) {
	if m.llm == nil {
		return "", fmt.Errorf("no generation capability configured")
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.ReplyTimeout)
	defer cancel()

	messages := m.buildContext(sess)
	reply, _, err := m.llm.Chat(ctx, messages)
	if err != nil {
		return "", err
	}
	return reply, nil
}

// buildContext assembles the generation context: system prompt, the summary
// anchor when older turns were compacted, then the most recent turns. The
// latest turn is always included.
func (m *Manager) buildContext(sess *Session) []llm.Message {
	messages := []llm.Message{llm.SystemPrompt(therapySystemPrompt)}

	turns := sess.Turns
	if len(turns) > m.config.WindowTurns {
		dropped := turns[:len(turns)-m.config.WindowTurns]
		turns = turns[len(turns)-m.config.WindowTurns:]

		anchor := sess.Summary
		if anchor == "" {
			anchor = compactTurns(dropped)
		}
		if anchor != "" {
			messages = append(messages, llm.SystemPrompt(
				fmt.Sprintf("Earlier in this session (summarized): %s", anchor)))
		}
	}

	for _, turn := range turns {
		if turn.Speaker == SpeakerUser {
			messages = append(messages, llm.UserMessage(turn.Text))
		} else {
			messages = append(messages, llm.AssistantMessage(turn.Text))
		}
	}
	return messages
}

// compactTurns produces a crude anchor from dropped turns when no summary
// exists yet: the first user utterance, truncated.
func compactTurns(dropped []Turn) string {
	for _, turn := range dropped {
		if turn.Speaker == SpeakerUser && turn.Text != "" {
			return truncateRunes(turn.Text, 200)
		}
	}
	return ""
}
