package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type CompletionRepo struct {
	db DBTX
}

func NewCompletionRepo(db DBTX) *CompletionRepo {
	return &CompletionRepo{db: db}
}

func (r *CompletionRepo) Insert(ctx context.Context, c TaskCompletion) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO task_completions (event_id, user_key, task_id, kind, priority, xp_awarded, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, c.EventID, c.UserKey, c.TaskID, c.Kind, c.Priority, c.XPAwarded, c.CompletedAt)
	if err != nil {
		return 0, fmt.Errorf("completion insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("completion last insert id: %w", err)
	}
	return id, nil
}

func (r *CompletionRepo) ExistsEvent(ctx context.Context, eventID string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT 1 FROM task_completions WHERE event_id = ? LIMIT 1`, eventID)
	var one int
	if err := row.Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("completion exists: %w", err)
	}
	return true, nil
}

// ListByUser returns the user's completion log, oldest first.
func (r *CompletionRepo) ListByUser(ctx context.Context, userKey string) ([]TaskCompletion, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, user_key, task_id, kind, priority, xp_awarded, completed_at
		FROM task_completions
		WHERE user_key = ?
		ORDER BY completed_at ASC, id ASC
	`, userKey)
	if err != nil {
		return nil, fmt.Errorf("completion list: %w", err)
	}
	defer rows.Close()

	var out []TaskCompletion
	for rows.Next() {
		var c TaskCompletion
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserKey, &c.TaskID, &c.Kind, &c.Priority, &c.XPAwarded, &c.CompletedAt); err != nil {
			return nil, fmt.Errorf("completion scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("completion rows: %w", err)
	}
	return out, nil
}

// SumXPByUser totals the XP recorded in the completion log. It should always
// equal the ledger total.
func (r *CompletionRepo) SumXPByUser(ctx context.Context, userKey string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(xp_awarded), 0) FROM task_completions WHERE user_key = ?`, userKey)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion sum: %w", err)
	}
	return n, nil
}

func (r *CompletionRepo) CountByKind(ctx context.Context, userKey, kind string) (int, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM task_completions WHERE user_key = ? AND kind = ?`, userKey, kind)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("completion count: %w", err)
	}
	return n, nil
}
