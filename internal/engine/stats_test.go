package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"levelup/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestDeadline(t *testing.T) {
	created := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	due := created.Add(2 * time.Hour)

	cases := []struct {
		name string
		task storage.Task
		want time.Time
		ok   bool
	}{
		{"daily", storage.Task{Kind: "daily", CreatedAt: created}, created.Add(24 * time.Hour), true},
		{"calendar with time", storage.Task{Kind: "calendar", ScheduledDate: strPtr("2026-03-14"), ScheduledTime: strPtr("09:30")}, time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC), true},
		{"calendar all day", storage.Task{Kind: "calendar", ScheduledDate: strPtr("2026-03-14")}, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"custom with due", storage.Task{Kind: "custom", DueAt: &due}, due, true},
		{"custom without due", storage.Task{Kind: "custom"}, time.Time{}, false},
	}
	for _, c := range cases {
		got, ok := Deadline(c.task)
		if ok != c.ok || !got.Equal(c.want) {
			t.Fatalf("%s: Deadline=%v,%v want %v,%v", c.name, got, ok, c.want, c.ok)
		}
	}

	done := storage.Task{Kind: "daily", CreatedAt: created, Status: "done"}
	if IsExpired(done, created.Add(48*time.Hour)) {
		t.Fatalf("done task must never expire")
	}
}

func TestStatsAndPrune(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	start := svc.Now()

	// Yesterday's daily task: completed a day ago.
	setClock(svc, start.Add(-24*time.Hour))
	oldDaily := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "old stretch"})
	_, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: oldDaily})
	require.NoError(t, err)

	setClock(svc, start)
	// Pending and lapsed this morning.
	mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCalendar, Title: "standup", Date: "2026-03-14", Time: "09:00"})
	// Tomorrow, all day.
	mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCalendar, Title: "review", Date: "2026-03-15"})
	due := start.Add(time.Hour)
	card := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "report", DueAt: &due, Priority: PriorityHigh})
	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: card})
	require.NoError(t, err)
	mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "fresh daily"})

	st, err := svc.Stats(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, KindStats{Completed: 1, Pending: 1}, st.ByKind[TaskKindDaily])
	require.Equal(t, KindStats{Failed: 1, Pending: 1}, st.ByKind[TaskKindCalendar])
	require.Equal(t, KindStats{Completed: 1}, st.ByKind[TaskKindCustom])
	require.Equal(t, KindStats{Completed: 2, Failed: 1, Pending: 2}, st.Total)
	require.InDelta(t, 2.0/3.0, st.CompletionRate, 1e-9)

	require.Len(t, st.Week, StatsWindowDays)
	require.Equal(t, "2026-03-14", st.Week[6].Date)
	require.Equal(t, DayXP{Date: "2026-03-14", XP: 50, Completions: 1}, st.Week[6])
	require.Equal(t, DayXP{Date: "2026-03-13", XP: 5, Completions: 1}, st.Week[5])
	require.Equal(t, "2026-03-08", st.Week[0].Date)

	removed, err := svc.PruneExpiredDaily(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	tasks, err := svc.ListTasks(ctx, testUser)
	require.NoError(t, err)
	for _, task := range tasks {
		require.NotEqual(t, oldDaily, task.ID)
	}

	// History survives the prune.
	st, err = svc.Stats(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 5, st.Week[5].XP)
	total, _, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 55, total)
}

func TestAchievements(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	earned := func() map[string]bool {
		list, err := svc.Achievements(ctx, testUser)
		require.NoError(t, err)
		out := map[string]bool{}
		for _, a := range list {
			out[a.ID] = a.Earned
		}
		return out
	}

	got := earned()
	require.False(t, got["first_task"])
	require.False(t, got["level_up"])

	for i := 0; i < 2; i++ {
		id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "card", Priority: PriorityHigh})
		_, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
		require.NoError(t, err)
	}

	got = earned()
	require.True(t, got["first_task"])
	require.True(t, got["card_player"])
	require.True(t, got["high_stakes"])
	require.True(t, got["level_up"])
	require.False(t, got["daily_grind"])
	require.False(t, got["productive"])

	checker, err := NewAchievementChecker(100, nil)
	require.NoError(t, err)
	require.Equal(t, 1, checker.CountEarned())

	_, err = NewAchievementChecker(-1, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}
