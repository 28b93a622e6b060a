package store

import "context"

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() any
	Close() error

	Migrate(ctx context.Context) error

	// JournalEntry model related methods.
	CreateJournalEntry(ctx context.Context, create *JournalEntry) (*JournalEntry, error)
	ListJournalEntries(ctx context.Context, find *FindJournalEntry) ([]*JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, delete *DeleteJournalEntry) error

	// TherapySession model related methods.
	CreateTherapySession(ctx context.Context, create *TherapySession) (*TherapySession, error)
	ListTherapySessions(ctx context.Context, find *FindTherapySession) ([]*TherapySession, error)
	UpdateTherapySession(ctx context.Context, update *UpdateTherapySession) (*TherapySession, error)
}
