package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"levelup/internal/storage"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

type CreateTaskInput struct {
	Kind     TaskKind
	Title    string
	Priority Priority // empty: derived from Color for calendar tasks, else medium
	Color    string

	// Calendar tasks.
	Date string // YYYY-MM-DD
	Time string // HH:MM, optional

	// Custom task cards.
	DueAt *time.Time
}

type CreateResult struct {
	TaskID   int64
	Priority Priority
	// XPValue is what completing the task is worth.
	XPValue int
}

func (s *Service) CreateTask(ctx context.Context, user string, in CreateTaskInput) (*CreateResult, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if !in.Kind.IsValid() {
		return nil, invalidInput("task kind", in.Kind)
	}

	priority := ParsePriority(string(in.Priority))
	if in.Priority == "" && in.Color != "" {
		priority = PriorityForColor(in.Color)
	}

	insert := storage.TaskInsert{
		UserKey:   u,
		Kind:      string(in.Kind),
		Title:     title,
		Priority:  string(priority),
		CreatedAt: s.Now(),
	}
	if c := strings.TrimSpace(strings.ToLower(in.Color)); c != "" {
		insert.Color = &c
	}

	switch in.Kind {
	case TaskKindDaily:
		// Daily tasks are flat-rate; priority is kept for display only.
	case TaskKindCalendar:
		date := strings.TrimSpace(in.Date)
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("calendar date must be YYYY-MM-DD: %q", in.Date)
		}
		insert.ScheduledDate = &date
		if tm := strings.TrimSpace(in.Time); tm != "" {
			if _, err := time.Parse(timeLayout, tm); err != nil {
				return nil, fmt.Errorf("calendar time must be HH:MM: %q", in.Time)
			}
			insert.ScheduledTime = &tm
		}
	case TaskKindCustom:
		if in.DueAt != nil {
			due := in.DueAt.UTC()
			insert.DueAt = &due
		}
	}

	xp, err := ComputeTaskXP(in.Kind, priority)
	if err != nil {
		return nil, err
	}

	id, err := s.tasks.Insert(ctx, insert)
	if err != nil {
		return nil, err
	}
	s.log.Debug("task created",
		zap.String("user", u),
		zap.Int64("task_id", id),
		zap.String("kind", string(in.Kind)),
		zap.String("priority", string(priority)))

	return &CreateResult{TaskID: id, Priority: priority, XPValue: xp}, nil
}
