package therapy

import (
	"sync"
	"time"
)

// SessionStatus defines the lifecycle state of a conversation session.
type SessionStatus string

const (
	// SessionStatusActive accepts new turns.
	SessionStatusActive SessionStatus = "active"
	// SessionStatusEnded is terminal; the session is read-only and carries
	// its summary.
	SessionStatusEnded SessionStatus = "ended"
)

// Speaker identifies who produced a turn.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerAgent Speaker = "agent"
)

// Turn is one utterance in a conversation session.
type Turn struct {
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session holds per-session dialogue state. It is owned exclusively by the
// Manager while active; no other component may mutate it. Turns are strictly
// appended in arrival order.
type Session struct {
	ID        string        `json:"id"`
	UserID    string        `json:"user_id"`
	Turns     []Turn        `json:"turns"`
	Status    SessionStatus `json:"status"`
	Summary   string        `json:"summary,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	// mu serializes turn processing within this session. A session never
	// processes two messages concurrently; cross-session calls run in
	// parallel.
	mu sync.Mutex
}

// Snapshot returns a copy safe to hand outside the manager. The caller must
// not hold the session lock.
func (s *Session) Snapshot() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() *Session {
	turns := make([]Turn, len(s.Turns))
	copy(turns, s.Turns)
	return &Session{
		ID:        s.ID,
		UserID:    s.UserID,
		Turns:     turns,
		Status:    s.Status,
		Summary:   s.Summary,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
