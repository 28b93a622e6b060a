package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/storyai/wellspring/store"
)

func (d *DB) CreateJournalEntry(ctx context.Context, create *store.JournalEntry) (*store.JournalEntry, error) {
	stmt := `INSERT INTO journal_entry (uid, user_id, content, sentiment, emotion, summary, analysis_json, created_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.Content, create.Sentiment, create.Emotion,
		create.Summary, create.AnalysisJSON, create.CreatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create journal_entry: %w", err)
	}
	return create, nil
}

func (d *DB) ListJournalEntries(ctx context.Context, find *store.FindJournalEntry) ([]*store.JournalEntry, error) {
	where, args := []string{"1 = 1"}, []any{}

	if find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}
	if find.UID != nil {
		where, args = append(where, "uid = ?"), append(args, *find.UID)
	}
	if find.UserID != nil {
		where, args = append(where, "user_id = ?"), append(args, *find.UserID)
	}

	query := `SELECT id, uid, user_id, content, sentiment, emotion, summary, analysis_json, created_ts
		FROM journal_entry
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal_entries: %w", err)
	}
	defer rows.Close()

	list := make([]*store.JournalEntry, 0)
	for rows.Next() {
		entry := &store.JournalEntry{}
		if err := rows.Scan(&entry.ID, &entry.UID, &entry.UserID, &entry.Content,
			&entry.Sentiment, &entry.Emotion, &entry.Summary, &entry.AnalysisJSON, &entry.CreatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan journal_entry: %w", err)
		}
		list = append(list, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal_entries: %w", err)
	}

	return list, nil
}

func (d *DB) DeleteJournalEntry(ctx context.Context, delete *store.DeleteJournalEntry) error {
	if _, err := d.db.ExecContext(ctx, "DELETE FROM journal_entry WHERE id = ?", delete.ID); err != nil {
		return fmt.Errorf("failed to delete journal_entry: %w", err)
	}
	return nil
}
