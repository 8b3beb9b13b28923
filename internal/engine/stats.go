package engine

import (
	"context"
	"time"
)

// StatsWindowDays is the length of the trailing XP history in Stats.
const StatsWindowDays = 7

type KindStats struct {
	Completed int
	Failed    int // pending and past deadline
	Pending   int // pending and still on time
}

type DayXP struct {
	Date        string // YYYY-MM-DD
	XP          int
	Completions int
}

type Stats struct {
	ByKind map[TaskKind]KindStats
	Total  KindStats
	// CompletionRate is Completed / (Completed + Failed), 0 when both are 0.
	CompletionRate float64
	// FocusSessions counts every finished focus session in the log.
	FocusSessions int
	// Week holds the trailing StatsWindowDays days, oldest first, from the
	// completion log.
	Week []DayXP
}

func (s *Service) Stats(ctx context.Context, user string) (*Stats, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByUser(ctx, u)
	if err != nil {
		return nil, err
	}
	history, err := s.completions.ListByUser(ctx, u)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	out := &Stats{ByKind: map[TaskKind]KindStats{
		TaskKindDaily:    {},
		TaskKindCalendar: {},
		TaskKindCustom:   {},
	}}
	for _, t := range tasks {
		k := TaskKind(t.Kind)
		ks := out.ByKind[k]
		switch {
		case t.Status == "done":
			ks.Completed++
			out.Total.Completed++
		case IsExpired(t, now):
			ks.Failed++
			out.Total.Failed++
		default:
			ks.Pending++
			out.Total.Pending++
		}
		out.ByKind[k] = ks
	}
	if n := out.Total.Completed + out.Total.Failed; n > 0 {
		out.CompletionRate = float64(out.Total.Completed) / float64(n)
	}

	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(StatsWindowDays - 1))
	out.Week = make([]DayXP, StatsWindowDays)
	for i := range out.Week {
		out.Week[i].Date = start.AddDate(0, 0, i).Format(dateLayout)
	}
	for _, c := range history {
		if c.Kind == FocusKind {
			out.FocusSessions++
		}
		day := c.CompletedAt.UTC().Truncate(24 * time.Hour)
		if day.Before(start) || day.After(today) {
			continue
		}
		i := int(day.Sub(start) / (24 * time.Hour))
		out.Week[i].XP += c.XPAwarded
		if c.Kind != FocusKind {
			out.Week[i].Completions++
		}
	}
	return out, nil
}
