package v1

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/storyai/wellspring/ai/insight"
	"github.com/storyai/wellspring/ai/therapy"
	"github.com/storyai/wellspring/store"
)

// journalRecorder persists journal analyses behind the router's Recorder
// interface.
type journalRecorder struct {
	store *store.Store
}

func newJournalRecorder(storeInstance *store.Store) *journalRecorder {
	return &journalRecorder{store: storeInstance}
}

func (r *journalRecorder) SaveJournalInsight(ctx context.Context, userID string, record *insight.Record) error {
	analysis, err := json.Marshal(record)
	if err != nil {
		return errors.Wrap(err, "encode analysis")
	}

	_, err = r.store.CreateJournalEntry(ctx, &store.JournalEntry{
		UID:          uuid.NewString(),
		UserID:       userID,
		Content:      record.SourceText,
		Sentiment:    record.Sentiment,
		Emotion:      record.Emotion,
		Summary:      record.Summary,
		AnalysisJSON: string(analysis),
		CreatedTs:    record.GeneratedAt.Unix(),
	})
	return err
}

// sessionArchiver persists ended therapy sessions behind the manager's
// Archiver interface.
type sessionArchiver struct {
	store *store.Store
}

func newSessionArchiver(storeInstance *store.Store) *sessionArchiver {
	return &sessionArchiver{store: storeInstance}
}

func (a *sessionArchiver) SaveSession(ctx context.Context, session *therapy.Session) error {
	turns, err := json.Marshal(session.Turns)
	if err != nil {
		return errors.Wrap(err, "encode turns")
	}

	existing, err := a.store.GetTherapySession(ctx, session.ID)
	if err != nil {
		return err
	}

	turnsJSON := string(turns)
	status := store.SessionStatus(session.Status)
	if existing != nil {
		updatedTs := time.Now().Unix()
		_, err = a.store.UpdateTherapySession(ctx, &store.UpdateTherapySession{
			UID:       session.ID,
			TurnsJSON: &turnsJSON,
			Summary:   &session.Summary,
			Status:    &status,
			UpdatedTs: &updatedTs,
		})
		return err
	}

	_, err = a.store.CreateTherapySession(ctx, &store.TherapySession{
		UID:       session.ID,
		UserID:    session.UserID,
		TurnsJSON: turnsJSON,
		Summary:   session.Summary,
		Status:    status,
		CreatedTs: session.CreatedAt.Unix(),
		UpdatedTs: session.UpdatedAt.Unix(),
	})
	return err
}
