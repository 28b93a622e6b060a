package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/storyai/wellspring/store"
)

func (d *DB) CreateTherapySession(ctx context.Context, create *store.TherapySession) (*store.TherapySession, error) {
	stmt := `INSERT INTO therapy_session (uid, user_id, turns_json, summary, status, created_ts, updated_ts)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	if err := d.db.QueryRowContext(ctx, stmt,
		create.UID, create.UserID, create.TurnsJSON, create.Summary, create.Status,
		create.CreatedTs, create.UpdatedTs,
	).Scan(&create.ID); err != nil {
		return nil, fmt.Errorf("failed to create therapy_session: %w", err)
	}
	return create, nil
}

func (d *DB) ListTherapySessions(ctx context.Context, find *store.FindTherapySession) ([]*store.TherapySession, error) {
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
	if find.Status != nil {
		where, args = append(where, "status = ?"), append(args, *find.Status)
	}

	query := `SELECT id, uid, user_id, turns_json, summary, status, created_ts, updated_ts
		FROM therapy_session
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY updated_ts DESC`
	if find.Limit != nil {
		query += fmt.Sprintf(" LIMIT %d", *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list therapy_sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*store.TherapySession, 0)
	for rows.Next() {
		sess := &store.TherapySession{}
		if err := rows.Scan(&sess.ID, &sess.UID, &sess.UserID, &sess.TurnsJSON,
			&sess.Summary, &sess.Status, &sess.CreatedTs, &sess.UpdatedTs); err != nil {
			return nil, fmt.Errorf("failed to scan therapy_session: %w", err)
		}
		list = append(list, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate therapy_sessions: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTherapySession(ctx context.Context, update *store.UpdateTherapySession) (*store.TherapySession, error) {
	set, args := []string{}, []any{}

	if update.TurnsJSON != nil {
		set, args = append(set, "turns_json = ?"), append(args, *update.TurnsJSON)
	}
	if update.Summary != nil {
		set, args = append(set, "summary = ?"), append(args, *update.Summary)
	}
	if update.Status != nil {
		set, args = append(set, "status = ?"), append(args, *update.Status)
	}
	if update.UpdatedTs != nil {
		set, args = append(set, "updated_ts = ?"), append(args, *update.UpdatedTs)
	}

	if len(set) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	args = append(args, update.UID)
	stmt := `UPDATE therapy_session SET ` + strings.Join(set, ", ") + ` WHERE uid = ?`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to update therapy_session: %w", err)
	}

	sessions, err := d.ListTherapySessions(ctx, &store.FindTherapySession{UID: &update.UID})
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return nil, fmt.Errorf("therapy_session not found: %s", update.UID)
	}
	return sessions[0], nil
}
