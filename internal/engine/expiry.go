package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"levelup/internal/storage"
)

// DailyTaskLifetime is how long a daily task stays on the board.
const DailyTaskLifetime = 24 * time.Hour

// Deadline returns when a task lapses, or false if it never does.
//   - daily: 24h after creation
//   - calendar: the scheduled date and time, or the end of that day
//   - custom: the due time, if any
func Deadline(t storage.Task) (time.Time, bool) {
	switch TaskKind(t.Kind) {
	case TaskKindDaily:
		return t.CreatedAt.Add(DailyTaskLifetime), true
	case TaskKindCalendar:
		if t.ScheduledDate == nil {
			return time.Time{}, false
		}
		day, err := time.Parse(dateLayout, *t.ScheduledDate)
		if err != nil {
			return time.Time{}, false
		}
		if t.ScheduledTime != nil {
			clock, err := time.Parse(timeLayout, *t.ScheduledTime)
			if err == nil {
				return day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute), true
			}
		}
		return day.Add(24 * time.Hour), true
	case TaskKindCustom:
		if t.DueAt == nil {
			return time.Time{}, false
		}
		return *t.DueAt, true
	default:
		return time.Time{}, false
	}
}

// IsExpired reports whether a pending task is past its deadline. Done tasks
// never expire.
func IsExpired(t storage.Task, now time.Time) bool {
	if t.Status == "done" {
		return false
	}
	d, ok := Deadline(t)
	if !ok {
		return false
	}
	return now.After(d)
}

// PruneExpiredDaily removes daily tasks older than DailyTaskLifetime, done or
// not. The completion log keeps their history.
func (s *Service) PruneExpiredDaily(ctx context.Context, user string) (int, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return 0, err
	}
	all, err := s.tasks.ListByUser(ctx, u)
	if err != nil {
		return 0, err
	}

	now := s.Now()
	removed := 0
	for _, t := range all {
		if TaskKind(t.Kind) != TaskKindDaily {
			continue
		}
		if now.Sub(t.CreatedAt) < DailyTaskLifetime {
			continue
		}
		if err := s.tasks.Delete(ctx, t.ID); err != nil {
			return removed, err
		}
		removed++
	}
	if removed > 0 {
		s.log.Info("pruned daily tasks", zap.String("user", u), zap.Int("count", removed))
	}
	return removed, nil
}
