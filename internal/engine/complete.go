package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"levelup/internal/storage"
)

type CompleteInput struct {
	TaskID int64
	// EventID makes the completion idempotent. Empty means a fresh UUID.
	EventID string
}

type CompleteResult struct {
	TaskID      int64
	EventID     string
	XPAwarded   int
	TotalXP     int
	LevelBefore int
	LevelAfter  int
	State       LevelState
	LevelUp     bool
}

// CompleteTask checks a task off and credits its XP. The ledger increment,
// the completion record and the status change commit together.
func (s *Service) CompleteTask(ctx context.Context, user string, in CompleteInput) (*CompleteResult, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}
	eventID, err := resolveEventID(in.EventID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	var res *CompleteResult

	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		ledger := storage.NewLedgerRepo(tx)
		tasks := storage.NewTaskRepo(tx)
		completions := storage.NewCompletionRepo(tx)

		seen, err := completions.ExistsEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if seen {
			return fmt.Errorf("event %s: %w", eventID, ErrEventConsumed)
		}

		task, err := tasks.Get(ctx, u, in.TaskID)
		if err != nil {
			return err
		}
		if task == nil {
			return fmt.Errorf("task %d: %w", in.TaskID, ErrTaskNotFound)
		}
		if task.Status == "done" {
			return fmt.Errorf("task %d: %w", in.TaskID, ErrAlreadyDone)
		}

		ev := CompletionEvent{Kind: TaskKind(task.Kind), Priority: ParsePriority(task.Priority)}
		xp, err := XPForEvent(ev)
		if err != nil {
			return err
		}

		total, err := ledger.AddXP(ctx, u, xp, now)
		if err != nil {
			return err
		}
		// The increment is atomic, so the total before this event is exact
		// even when other completions for the same user race with it.
		gain, err := AddXP(total-xp, xp)
		if err != nil {
			return err
		}
		before, err := DeriveLevelState(total - xp)
		if err != nil {
			return err
		}

		if _, err := completions.Insert(ctx, storage.TaskCompletion{
			EventID:     eventID,
			UserKey:     u,
			TaskID:      task.ID,
			Kind:        task.Kind,
			Priority:    string(ev.Priority),
			XPAwarded:   xp,
			CompletedAt: now,
		}); err != nil {
			return err
		}
		if err := tasks.MarkDone(ctx, task.ID, now); err != nil {
			return err
		}

		res = &CompleteResult{
			TaskID:      task.ID,
			EventID:     eventID,
			XPAwarded:   xp,
			TotalXP:     gain.NewTotalXP,
			LevelBefore: before.Level,
			LevelAfter:  gain.State.Level,
			State:       gain.State,
			LevelUp:     gain.DidLevelUp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("task completed",
		zap.String("user", u),
		zap.Int64("task_id", res.TaskID),
		zap.Int("xp", res.XPAwarded),
		zap.Int("total_xp", res.TotalXP))
	if res.LevelUp {
		s.log.Info("level up",
			zap.String("user", u),
			zap.Int("from", res.LevelBefore),
			zap.Int("to", res.LevelAfter))
	}
	return res, nil
}

// CompleteTasks completes several tasks concurrently. Results keep the order
// of ids. Each id commits on its own: when some fail, the first error is
// returned together with the results that did commit, and the entries for
// failed ids are nil.
func (s *Service) CompleteTasks(ctx context.Context, user string, ids []int64) ([]*CompleteResult, error) {
	if len(ids) == 0 {
		return nil, invalidInput("task ids", ids)
	}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, invalidInput("task ids", fmt.Sprintf("%d listed twice", id))
		}
		seen[id] = true
	}

	out := make([]*CompleteResult, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			res, err := s.CompleteTask(ctx, user, CompleteInput{TaskID: id})
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	return out, g.Wait()
}

// resolveEventID returns id when it is a valid UUID, or a fresh one when id
// is empty.
func resolveEventID(id string) (string, error) {
	if id == "" {
		return uuid.NewString(), nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", invalidInput("event id", id)
	}
	return id, nil
}

type UncompleteResult struct {
	TaskID int64
	// TotalXP is unchanged by un-completing; it is reported for display.
	TotalXP int
}

// UncompleteTask puts a done task back to pending. Awarded XP is kept:
// totals only ever grow. Completing the task again is a new event.
func (s *Service) UncompleteTask(ctx context.Context, user string, id int64) (*UncompleteResult, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}

	task, err := s.tasks.Get(ctx, u, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	if task.Status != "done" {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotDone)
	}
	if err := s.tasks.MarkPending(ctx, id); err != nil {
		return nil, err
	}

	l, err := s.ledger.GetOrCreate(ctx, u)
	if err != nil {
		return nil, err
	}
	s.log.Debug("task uncompleted", zap.String("user", u), zap.Int64("task_id", id))
	return &UncompleteResult{TaskID: id, TotalXP: l.TotalXP}, nil
}
