package store

// SessionStatus mirrors the in-memory session lifecycle.
type SessionStatus string

const (
	SessionStatusActive SessionStatus = "active"
	SessionStatusEnded  SessionStatus = "ended"
)

// TherapySession is an archived conversation session. Turns are stored as a
// JSON array so drivers stay schema-agnostic about turn structure.
type TherapySession struct {
	ID        int32
	UID       string
	UserID    string
	TurnsJSON string
	Summary   string
	Status    SessionStatus
	CreatedTs int64
	UpdatedTs int64
}

type FindTherapySession struct {
	ID     *int32
	UID    *string
	UserID *string
	Status *SessionStatus
	Limit  *int
}

type UpdateTherapySession struct {
	TurnsJSON *string
	Summary   *string
	Status    *SessionStatus
	UpdatedTs *int64
	UID       string
}
