package engine

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"levelup/internal/storage"
)

// FocusSessionsPerCycle is the number of focus sessions before a long break.
const FocusSessionsPerCycle = 4

type FocusInput struct {
	// TaskID optionally names the task that was worked on. The task is not
	// completed by the session.
	TaskID int64
	// EventID makes the award idempotent. Empty means a fresh UUID.
	EventID string
}

type FocusResult struct {
	EventID   string
	XPAwarded int
	TotalXP   int
	State     LevelState
	LevelUp   bool
	// Sessions is the user's count of finished focus sessions, this one included.
	Sessions int
}

// LongBreakDue reports whether the session just finished closes a cycle.
func (r FocusResult) LongBreakDue() bool {
	return r.Sessions > 0 && r.Sessions%FocusSessionsPerCycle == 0
}

// CompleteFocusSession credits FocusSessionXP for a finished focus session
// and records it in the completion log.
func (s *Service) CompleteFocusSession(ctx context.Context, user string, in FocusInput) (*FocusResult, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}
	eventID, err := resolveEventID(in.EventID)
	if err != nil {
		return nil, err
	}
	if in.TaskID < 0 {
		return nil, invalidInput("task id", in.TaskID)
	}

	now := s.Now()
	var res *FocusResult

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ledger := storage.NewLedgerRepo(tx)
		completions := storage.NewCompletionRepo(tx)

		seen, err := completions.ExistsEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if seen {
			return fmt.Errorf("event %s: %w", eventID, ErrEventConsumed)
		}

		if in.TaskID != 0 {
			task, err := storage.NewTaskRepo(tx).Get(ctx, u, in.TaskID)
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %d: %w", in.TaskID, ErrTaskNotFound)
			}
		}

		total, err := ledger.AddXP(ctx, u, FocusSessionXP, now)
		if err != nil {
			return err
		}
		gain, err := AddXP(total-FocusSessionXP, FocusSessionXP)
		if err != nil {
			return err
		}

		if _, err := completions.Insert(ctx, storage.TaskCompletion{
			EventID:     eventID,
			UserKey:     u,
			TaskID:      in.TaskID,
			Kind:        FocusKind,
			XPAwarded:   FocusSessionXP,
			CompletedAt: now,
		}); err != nil {
			return err
		}
		sessions, err := completions.CountByKind(ctx, u, FocusKind)
		if err != nil {
			return err
		}

		res = &FocusResult{
			EventID:   eventID,
			XPAwarded: FocusSessionXP,
			TotalXP:   gain.NewTotalXP,
			State:     gain.State,
			LevelUp:   gain.DidLevelUp,
			Sessions:  sessions,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("focus session completed",
		zap.String("user", u),
		zap.Int("sessions", res.Sessions),
		zap.Int("total_xp", res.TotalXP))
	if res.LevelUp {
		s.log.Info("level up", zap.String("user", u), zap.Int("to", res.State.Level))
	}
	return res, nil
}
