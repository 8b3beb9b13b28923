package engine

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"levelup/internal/storage"
)

type Service struct {
	db          *sql.DB
	log         *zap.Logger
	ledger      *storage.LedgerRepo
	tasks       *storage.TaskRepo
	completions *storage.CompletionRepo

	// Now is the service clock. Tests replace it.
	Now func() time.Time
}

func NewService(db *sql.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:          db,
		log:         log,
		ledger:      storage.NewLedgerRepo(db),
		tasks:       storage.NewTaskRepo(db),
		completions: storage.NewCompletionRepo(db),
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) LedgerRepo() *storage.LedgerRepo         { return s.ledger }
func (s *Service) TaskRepo() *storage.TaskRepo             { return s.tasks }
func (s *Service) CompletionRepo() *storage.CompletionRepo { return s.completions }

func normalizeTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", errors.New("title is required")
	}
	return t, nil
}

func normalizeUser(user string) (string, error) {
	u := strings.TrimSpace(user)
	if u == "" {
		return "", errors.New("user is required")
	}
	return u, nil
}

// Progress loads the user's ledger and derives the level state from it.
func (s *Service) Progress(ctx context.Context, user string) (int, LevelState, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return 0, LevelState{}, err
	}
	l, err := s.ledger.GetOrCreate(ctx, u)
	if err != nil {
		return 0, LevelState{}, err
	}
	st, err := DeriveLevelState(l.TotalXP)
	if err != nil {
		return 0, LevelState{}, err
	}
	return l.TotalXP, st, nil
}

// ListTasks returns all of the user's tasks, oldest first.
func (s *Service) ListTasks(ctx context.Context, user string) ([]storage.Task, error) {
	u, err := normalizeUser(user)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByUser(ctx, u)
}
