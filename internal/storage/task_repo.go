package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

type TaskInsert struct {
	UserKey       string
	Kind          string
	Title         string
	Priority      string
	Color         *string
	ScheduledDate *string
	ScheduledTime *string
	DueAt         *time.Time
	CreatedAt     time.Time
}

const taskColumns = `id, user_key, kind, title, priority, color, scheduled_date, scheduled_time, due_at,
	status, created_at, completed_at`

func (r *TaskRepo) Insert(ctx context.Context, in TaskInsert) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (
			user_key, kind, title, priority, color,
			scheduled_date, scheduled_time, due_at,
			status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'pending', ?)
	`, in.UserKey, in.Kind, in.Title, in.Priority, in.Color, in.ScheduledDate, in.ScheduledTime, in.DueAt, in.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("task insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("task last insert id: %w", err)
	}
	return id, nil
}

// Get returns the task when it belongs to userKey, or nil.
func (r *TaskRepo) Get(ctx context.Context, userKey string, id int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ? AND user_key = ?`, id, userKey)
	return scanTaskRow(row)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userKey string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_key = ? ORDER BY id ASC`, userKey)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTaskRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

func (r *TaskRepo) MarkDone(ctx context.Context, id int64, completedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = 'done', completed_at = ? WHERE id = ?`, completedAt, id)
	if err != nil {
		return fmt.Errorf("task mark done: %w", err)
	}
	return nil
}

func (r *TaskRepo) MarkPending(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE tasks SET status = 'pending', completed_at = NULL WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task mark pending: %w", err)
	}
	return nil
}

func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("task delete: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTaskRow(row scanner) (*Task, error) {
	var (
		t             Task
		color         sql.NullString
		scheduledDate sql.NullString
		scheduledTime sql.NullString
		dueAt         sql.NullTime
		completedAt   sql.NullTime
	)

	if err := row.Scan(
		&t.ID, &t.UserKey, &t.Kind, &t.Title, &t.Priority, &color, &scheduledDate, &scheduledTime, &dueAt,
		&t.Status, &t.CreatedAt, &completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}

	if color.Valid {
		v := color.String
		t.Color = &v
	}
	if scheduledDate.Valid {
		v := scheduledDate.String
		t.ScheduledDate = &v
	}
	if scheduledTime.Valid {
		v := scheduledTime.String
		t.ScheduledTime = &v
	}
	if dueAt.Valid {
		v := dueAt.Time
		t.DueAt = &v
	}
	if completedAt.Valid {
		v := completedAt.Time
		t.CompletedAt = &v
	}
	return &t, nil
}
