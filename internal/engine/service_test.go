package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"levelup/internal/storage"
)

const testUser = "alice"

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(db, nil)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }
	return svc
}

func setClock(svc *Service, now time.Time) {
	svc.Now = func() time.Time { return now }
}

func mustCreate(t *testing.T, svc *Service, in CreateTaskInput) int64 {
	t.Helper()
	res, err := svc.CreateTask(context.Background(), testUser, in)
	require.NoError(t, err)
	return res.TaskID
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindDaily, Title: "  "})
	require.Error(t, err)

	_, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: "weekly", Title: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindCalendar, Title: "x", Date: "14/03/2026"})
	require.Error(t, err)

	_, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindCalendar, Title: "x", Date: "2026-03-14", Time: "25:00"})
	require.Error(t, err)

	_, err = svc.CreateTask(ctx, "", CreateTaskInput{Kind: TaskKindDaily, Title: "x"})
	require.Error(t, err)
}

func TestCreateTaskPriority(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	res, err := svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindCalendar, Title: "Dentist", Date: "2026-03-20", Color: "Red"})
	require.NoError(t, err)
	require.Equal(t, PriorityHigh, res.Priority)
	require.Equal(t, 50, res.XPValue)

	// An explicit priority wins over the color.
	res, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindCalendar, Title: "Gym", Date: "2026-03-20", Color: "red", Priority: PriorityLow})
	require.NoError(t, err)
	require.Equal(t, PriorityLow, res.Priority)

	res, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindCustom, Title: "Write report", Priority: "bogus"})
	require.NoError(t, err)
	require.Equal(t, PriorityMedium, res.Priority)
	require.Equal(t, 30, res.XPValue)

	res, err = svc.CreateTask(ctx, testUser, CreateTaskInput{Kind: TaskKindDaily, Title: "Water plants"})
	require.NoError(t, err)
	require.Equal(t, 5, res.XPValue)

	task, err := svc.TaskRepo().Get(ctx, testUser, res.TaskID)
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)
	require.Equal(t, "daily", task.Kind)
}

func TestCompleteTaskAwardsXPAndLevelsUp(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// Three medium custom cards: 90 XP.
	for i := 0; i < 3; i++ {
		id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "card"})
		res, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
		require.NoError(t, err)
		require.False(t, res.LevelUp)
	}
	total, st, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 90, total)
	require.Equal(t, 1, st.Level)

	daily1 := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "stretch"})
	daily2 := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "journal"})

	res, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: daily1})
	require.NoError(t, err)
	require.Equal(t, 5, res.XPAwarded)
	require.Equal(t, 95, res.TotalXP)
	require.False(t, res.LevelUp)

	res, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: daily2})
	require.NoError(t, err)
	want := &CompleteResult{
		TaskID:      daily2,
		EventID:     res.EventID,
		XPAwarded:   5,
		TotalXP:     100,
		LevelBefore: 1,
		LevelAfter:  2,
		State:       LevelState{Level: 2, CurrentLevelXP: 0, NextLevelXP: 283, Progress: 0},
		LevelUp:     true,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("CompleteTask mismatch (-want +got):\n%s", diff)
	}

	sum, err := svc.CompletionRepo().SumXPByUser(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 100, sum)
}

func TestCompleteTaskErrors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: 999})
	require.ErrorIs(t, err, ErrTaskNotFound)

	id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "stretch"})

	// Tasks are scoped to their owner.
	_, err = svc.CompleteTask(ctx, "bob", CompleteInput{TaskID: id})
	require.ErrorIs(t, err, ErrTaskNotFound)

	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id, EventID: "not-a-uuid"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
	require.NoError(t, err)

	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
	require.ErrorIs(t, err, ErrAlreadyDone)

	total, _, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 5, total)
}

func TestCompletionEventConsumedOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "a"})
	second := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "b"})
	eventID := uuid.NewString()

	res, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: first, EventID: eventID})
	require.NoError(t, err)
	require.Equal(t, eventID, res.EventID)

	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: second, EventID: eventID})
	require.ErrorIs(t, err, ErrEventConsumed)

	// The rejected event left nothing behind.
	task, err := svc.TaskRepo().Get(ctx, testUser, second)
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)
	total, _, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 30, total)
}

func TestUncompleteKeepsXP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "card", Priority: PriorityHigh})

	_, err := svc.UncompleteTask(ctx, testUser, id)
	require.ErrorIs(t, err, ErrNotDone)

	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
	require.NoError(t, err)

	un, err := svc.UncompleteTask(ctx, testUser, id)
	require.NoError(t, err)
	require.Equal(t, 50, un.TotalXP)

	task, err := svc.TaskRepo().Get(ctx, testUser, id)
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)
	require.Nil(t, task.CompletedAt)

	// Completing again is a new event and pays again.
	res, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id})
	require.NoError(t, err)
	require.Equal(t, 100, res.TotalXP)
	require.True(t, res.LevelUp)
}

func TestCompleteTasksConcurrentlyNeverLosesXP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 20; i++ {
		ids = append(ids, mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCalendar, Title: "slot", Date: "2026-03-14", Priority: PriorityLow}))
	}

	results, err := svc.CompleteTasks(ctx, testUser, ids)
	require.NoError(t, err)
	require.Len(t, results, len(ids))

	levelUps := 0
	for i, res := range results {
		require.Equal(t, ids[i], res.TaskID)
		require.Equal(t, 20, res.XPAwarded)
		if res.LevelUp {
			levelUps++
		}
	}

	total, st, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 400, total)
	// 400 XP crosses 100 (level 2) and 383 (level 3): each boundary is
	// reported by exactly one completion.
	require.Equal(t, 3, st.Level)
	require.Equal(t, 2, levelUps)
}

func TestProgressStartsAtLevelOne(t *testing.T) {
	svc := newTestService(t)
	total, st, err := svc.Progress(context.Background(), "newcomer")
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.Equal(t, LevelState{Level: 1, NextLevelXP: 100}, st)
}

func TestErrorsWrapSentinels(t *testing.T) {
	err := invalidInput("xp amount", -3)
	require.True(t, errors.Is(err, ErrInvalidInput))
	require.EqualError(t, err, "invalid xp amount: -3")
}

func TestCompleteTasksPartialFailureReportsCommittedXP(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pending := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "open", Priority: PriorityHigh})
	done := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "closed", Priority: PriorityLow})
	_, err := svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: done})
	require.NoError(t, err)

	results, err := svc.CompleteTasks(ctx, testUser, []int64{pending, done})
	require.ErrorIs(t, err, ErrAlreadyDone)
	require.Len(t, results, 2)
	require.NotNil(t, results[0])
	require.Equal(t, pending, results[0].TaskID)
	require.Nil(t, results[1])

	// Every XP point in the ledger is accounted for by a reported result.
	ledger, err := svc.LedgerRepo().Get(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 20+results[0].XPAwarded, ledger.TotalXP)
	require.Equal(t, 70, ledger.TotalXP)
}

func TestCompleteTasksRejectsDuplicateIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "card", Priority: PriorityHigh})

	results, err := svc.CompleteTasks(ctx, testUser, []int64{id, id})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Nil(t, results)

	_, err = svc.CompleteTasks(ctx, testUser, nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	// Nothing ran, so nothing was credited.
	ledger, err := svc.LedgerRepo().Get(ctx, testUser)
	require.NoError(t, err)
	require.Nil(t, ledger)
	task, err := svc.TaskRepo().Get(ctx, testUser, id)
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)
}

func TestCompleteFocusSession(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindCustom, Title: "essay"})

	var last *FocusResult
	for i := 1; i <= FocusSessionsPerCycle; i++ {
		res, err := svc.CompleteFocusSession(ctx, testUser, FocusInput{TaskID: id})
		require.NoError(t, err)
		require.Equal(t, FocusSessionXP, res.XPAwarded)
		require.Equal(t, i*FocusSessionXP, res.TotalXP)
		require.Equal(t, i, res.Sessions)
		require.Equal(t, i == FocusSessionsPerCycle, res.LongBreakDue())
		last = res
	}
	require.Equal(t, 40, last.TotalXP)
	require.False(t, last.LevelUp)

	// A focus session does not complete the task it was spent on.
	task, err := svc.TaskRepo().Get(ctx, testUser, id)
	require.NoError(t, err)
	require.Equal(t, "pending", task.Status)

	n, err := svc.CompletionRepo().CountByKind(ctx, testUser, FocusKind)
	require.NoError(t, err)
	require.Equal(t, FocusSessionsPerCycle, n)

	st, err := svc.Stats(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, FocusSessionsPerCycle, st.FocusSessions)
	require.Equal(t, DayXP{Date: "2026-03-14", XP: 40}, st.Week[StatsWindowDays-1])
	require.Equal(t, 0, st.Total.Completed)

	got := map[string]bool{}
	list, err := svc.Achievements(ctx, testUser)
	require.NoError(t, err)
	for _, a := range list {
		got[a.ID] = a.Earned
	}
	require.True(t, got["in_the_zone"])
	require.False(t, got["first_task"])

	_, err = svc.CompleteFocusSession(ctx, testUser, FocusInput{TaskID: 999})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestFocusSessionEventConsumedOnce(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	eventID := uuid.NewString()

	res, err := svc.CompleteFocusSession(ctx, testUser, FocusInput{EventID: eventID})
	require.NoError(t, err)
	require.Equal(t, eventID, res.EventID)

	_, err = svc.CompleteFocusSession(ctx, testUser, FocusInput{EventID: eventID})
	require.ErrorIs(t, err, ErrEventConsumed)

	// A task completion cannot reuse a focus event id either.
	id := mustCreate(t, svc, CreateTaskInput{Kind: TaskKindDaily, Title: "water"})
	_, err = svc.CompleteTask(ctx, testUser, CompleteInput{TaskID: id, EventID: eventID})
	require.ErrorIs(t, err, ErrEventConsumed)

	_, err = svc.CompleteFocusSession(ctx, testUser, FocusInput{EventID: "not-a-uuid"})
	require.ErrorIs(t, err, ErrInvalidInput)

	total, _, err := svc.Progress(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, FocusSessionXP, total)
}
