package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS xp_ledger (
			user_key TEXT PRIMARY KEY,
			total_xp INTEGER NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_key TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			priority TEXT NOT NULL DEFAULT 'medium',
			color TEXT,
			scheduled_date TEXT,
			scheduled_time TEXT,
			due_at DATETIME,

			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		);`,
		// Append-only. Rows outlive pruned tasks so history and stats survive.
		`CREATE TABLE IF NOT EXISTS task_completions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id TEXT NOT NULL UNIQUE,
			user_key TEXT NOT NULL,
			task_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			priority TEXT NOT NULL,
			xp_awarded INTEGER NOT NULL,
			completed_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_key ON tasks(user_key);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_kind ON tasks(user_key, kind);`,
		`CREATE INDEX IF NOT EXISTS idx_task_completions_user_completed_at ON task_completions(user_key, completed_at);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
