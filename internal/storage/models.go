package storage

import "time"

type Ledger struct {
	UserKey   string
	TotalXP   int
	UpdatedAt *time.Time
}

type Task struct {
	ID            int64
	UserKey       string
	Kind          string
	Title         string
	Priority      string
	Color         *string
	ScheduledDate *string // YYYY-MM-DD, calendar tasks only
	ScheduledTime *string // HH:MM, optional
	DueAt         *time.Time
	Status        string
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

type TaskCompletion struct {
	ID          int64
	EventID     string
	UserKey     string
	TaskID      int64
	Kind        string
	Priority    string
	XPAwarded   int
	CompletedAt time.Time
}
