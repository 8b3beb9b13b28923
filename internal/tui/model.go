package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"levelup/internal/engine"
	"levelup/internal/storage"
	"levelup/internal/ui"
)

type boardModel struct {
	ctx  context.Context
	svc  *engine.Service
	user string

	width  int
	height int

	totalXP int
	state   engine.LevelState
	tasks   []storage.Task
	bar     progress.Model

	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	totalXP int
	state   engine.LevelState
	tasks   []storage.Task
	err     error
}

type completedMsg struct {
	res *engine.CompleteResult
	err error
}

type uncompletedMsg struct {
	res *engine.UncompleteResult
	err error
}

func newBoardModel(ctx context.Context, svc *engine.Service, user string) boardModel {
	return boardModel{
		ctx:     ctx,
		svc:     svc,
		user:    user,
		bar:     ui.NewProgressBar(30),
		loading: true,
		lastLog: "Loaded.",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		total, st, err := m.svc.Progress(m.ctx, m.user)
		if err != nil {
			return loadedMsg{err: err}
		}
		tasks, err := m.svc.ListTasks(m.ctx, m.user)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{totalXP: total, state: st, tasks: sortTasks(tasks)}
	}
}

func (m boardModel) completeCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.CompleteTask(m.ctx, m.user, engine.CompleteInput{TaskID: id})
		return completedMsg{res: res, err: err}
	}
}

func (m boardModel) uncompleteCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		res, err := m.svc.UncompleteTask(m.ctx, m.user, id)
		return uncompletedMsg{res: res, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 40; w > 10 && w < 60 {
			m.bar.Width = w
		}
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.totalXP = msg.totalXP
		m.state = msg.state
		m.tasks = msg.tasks
		if m.selected >= len(m.tasks) {
			m.selected = len(m.tasks) - 1
		}
		if m.selected < 0 {
			m.selected = 0
		}
		return m, nil
	case completedMsg:
		if msg.err != nil {
			m.lastLog = "Complete failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Completed %d: +%d XP", msg.res.TaskID, msg.res.XPAwarded)
		if msg.res.LevelUp {
			m.lastLog += fmt.Sprintf("  %s %d → %d", ui.BadgeLevelUp, msg.res.LevelBefore, msg.res.LevelAfter)
		}
		return m, m.loadCmd()
	case uncompletedMsg:
		if msg.err != nil {
			m.lastLog = "Undo failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("Task %d back to pending (XP kept).", msg.res.TaskID)
		return m, m.loadCmd()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
			return m, m.loadCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.tasks)-1 {
				m.selected++
			}
			return m, nil
		case "c", " ", "enter":
			t := m.selectedTask()
			if t == nil {
				return m, nil
			}
			if t.Status == "done" {
				m.lastLog = "Already done."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %d…", t.ID)
			return m, m.completeCmd(t.ID)
		case "u":
			t := m.selectedTask()
			if t == nil {
				return m, nil
			}
			if t.Status != "done" {
				m.lastLog = "Not done yet."
				return m, nil
			}
			return m, m.uncompleteCmd(t.ID)
		}
	}
	return m, nil
}

func (m boardModel) selectedTask() *storage.Task {
	if m.selected < 0 || m.selected >= len(m.tasks) {
		return nil
	}
	return &m.tasks[m.selected]
}

func (m boardModel) View() string {
	if m.err != nil {
		return "Error: " + m.err.Error() + "\n\nPress q to quit.\n"
	}
	return m.renderHeader() + "\n\n" + m.renderTasks() + "\n\n" + m.renderFooter()
}

func (m boardModel) renderHeader() string {
	if m.loading && m.tasks == nil {
		return "levelup: loading…"
	}
	return fmt.Sprintf("%s  %s  %s %s",
		ui.Title.Render(fmt.Sprintf("Level %d", m.state.Level)),
		m.bar.ViewAs(m.state.Progress),
		ui.Muted.Render(fmt.Sprintf("%d/%d XP", m.state.CurrentLevelXP, m.state.NextLevelXP)),
		ui.Muted.Render(fmt.Sprintf("(total %d)", m.totalXP)),
	)
}

func (m boardModel) renderTasks() string {
	if len(m.tasks) == 0 {
		return ui.Muted.Render("(no tasks, add one with `lvl add`)")
	}
	now := time.Now().UTC()
	var out []string
	for i, t := range m.tasks {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		xp, _ := engine.ComputeTaskXP(engine.TaskKind(t.Kind), engine.ParsePriority(t.Priority))
		line := fmt.Sprintf("%s%s #%d %s  %s  %s",
			cursor, ui.KindIcon(t.Kind), t.ID, t.Title,
			ui.StatusText(t.Status, engine.IsExpired(t, now)),
			ui.Muted.Render(fmt.Sprintf("+%d XP", xp)))
		if i == m.selected {
			line = ui.SelectedRow.Render(line)
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	keys := ui.Muted.Render("j/k move · c/space complete · u undo · r refresh · q quit")
	return keys + "\n" + m.lastLog
}

// sortTasks puts pending tasks first, then groups by kind, then by id.
func sortTasks(tasks []storage.Task) []storage.Task {
	rank := map[string]int{"daily": 0, "calendar": 1, "custom": 2}
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if (a.Status == "done") != (b.Status == "done") {
			return a.Status != "done"
		}
		if rank[a.Kind] != rank[b.Kind] {
			return rank[a.Kind] < rank[b.Kind]
		}
		return a.ID < b.ID
	})
	return tasks
}
