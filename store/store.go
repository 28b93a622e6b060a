// Package store provides database access to all raw objects.
package store

import (
	"context"

	"github.com/storyai/wellspring/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) CreateJournalEntry(ctx context.Context, create *JournalEntry) (*JournalEntry, error) {
	return s.driver.CreateJournalEntry(ctx, create)
}

func (s *Store) ListJournalEntries(ctx context.Context, find *FindJournalEntry) ([]*JournalEntry, error) {
	return s.driver.ListJournalEntries(ctx, find)
}

func (s *Store) GetJournalEntry(ctx context.Context, uid string) (*JournalEntry, error) {
	entries, err := s.driver.ListJournalEntries(ctx, &FindJournalEntry{UID: &uid})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

func (s *Store) DeleteJournalEntry(ctx context.Context, delete *DeleteJournalEntry) error {
	return s.driver.DeleteJournalEntry(ctx, delete)
}

func (s *Store) CreateTherapySession(ctx context.Context, create *TherapySession) (*TherapySession, error) {
	return s.driver.CreateTherapySession(ctx, create)
}

func (s *Store) ListTherapySessions(ctx context.Context, find *FindTherapySession) ([]*TherapySession, error) {
	return s.driver.ListTherapySessions(ctx, find)
}

func (s *Store) GetTherapySession(ctx context.Context, uid string) (*TherapySession, error) {
	sessions, err := s.driver.ListTherapySessions(ctx, &FindTherapySession{UID: &uid})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, nil
	}
	return sessions[0], nil
}

func (s *Store) UpdateTherapySession(ctx context.Context, update *UpdateTherapySession) (*TherapySession, error) {
	return s.driver.UpdateTherapySession(ctx, update)
}
