package engine

import (
	"context"

	"levelup/internal/storage"
)

// Achievement represents a badge the user can earn.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Icon        string
	Earned      bool
}

// AchievementChecker calculates which achievements the user has earned. It
// reads the completion log rather than current tasks, so pruned or
// un-completed tasks still count.
type AchievementChecker struct {
	level       int
	completions []storage.TaskCompletion
}

func NewAchievementChecker(totalXP int, completions []storage.TaskCompletion) (*AchievementChecker, error) {
	st, err := DeriveLevelState(totalXP)
	if err != nil {
		return nil, err
	}
	return &AchievementChecker{level: st.Level, completions: completions}, nil
}

// GetAchievements returns all achievements with their earned status.
func (c *AchievementChecker) GetAchievements() []Achievement {
	return []Achievement{
		// Level milestones
		c.levelAchievement("level_up", "Level Up", "Reach level 2", "🌱", 2),
		c.levelAchievement("on_the_path", "On the Path", "Reach level 5", "🌳", 5),
		c.levelAchievement("seasoned", "Seasoned", "Reach level 10", "⭐", 10),
		c.levelAchievement("veteran", "Veteran", "Reach level 15", "🌟", 15),
		c.levelAchievement("master", "Master", "Reach level 20", "💫", 20),

		// Completion milestones
		c.countAchievement("first_task", "First Task", "Complete 1 task", "✓", 1),
		c.countAchievement("productive", "Productive", "Complete 10 tasks", "📋", 10),
		c.countAchievement("achiever", "Achiever", "Complete 50 tasks", "🏅", 50),
		c.countAchievement("powerhouse", "Powerhouse", "Complete 100 tasks", "🏆", 100),

		// One per task kind
		c.kindAchievement("daily_grind", "Daily Grind", "Complete a daily task", "☀️", TaskKindDaily),
		c.kindAchievement("planner", "Planner", "Complete a calendar task", "📅", TaskKindCalendar),
		c.kindAchievement("card_player", "Card Player", "Complete a custom task card", "🃏", TaskKindCustom),

		c.highStakesAchievement("high_stakes", "High Stakes", "Complete a high-priority task", "🔥"),
		c.focusAchievement("in_the_zone", "In the Zone", "Finish a full cycle of focus sessions", "⏱️", FocusSessionsPerCycle),
	}
}

// CountEarned returns how many achievements have been earned.
func (c *AchievementChecker) CountEarned() int {
	count := 0
	for _, a := range c.GetAchievements() {
		if a.Earned {
			count++
		}
	}
	return count
}

func (c *AchievementChecker) levelAchievement(id, name, desc, icon string, level int) Achievement {
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: c.level >= level}
}

// countAchievement counts task completions only; focus sessions have their own.
func (c *AchievementChecker) countAchievement(id, name, desc, icon string, count int) Achievement {
	tasks := 0
	for _, comp := range c.completions {
		if comp.Kind != FocusKind {
			tasks++
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: tasks >= count}
}

func (c *AchievementChecker) focusAchievement(id, name, desc, icon string, sessions int) Achievement {
	n := 0
	for _, comp := range c.completions {
		if comp.Kind == FocusKind {
			n++
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: n >= sessions}
}

func (c *AchievementChecker) kindAchievement(id, name, desc, icon string, kind TaskKind) Achievement {
	earned := false
	for _, comp := range c.completions {
		if TaskKind(comp.Kind) == kind {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

func (c *AchievementChecker) highStakesAchievement(id, name, desc, icon string) Achievement {
	earned := false
	for _, comp := range c.completions {
		if TaskKind(comp.Kind) != TaskKindDaily && Priority(comp.Priority) == PriorityHigh {
			earned = true
			break
		}
	}
	return Achievement{ID: id, Name: name, Description: desc, Icon: icon, Earned: earned}
}

// Achievements loads the user's ledger and completion log and evaluates them.
func (s *Service) Achievements(ctx context.Context, user string) ([]Achievement, error) {
	total, _, err := s.Progress(ctx, user)
	if err != nil {
		return nil, err
	}
	u, _ := normalizeUser(user)
	completions, err := s.completions.ListByUser(ctx, u)
	if err != nil {
		return nil, err
	}
	checker, err := NewAchievementChecker(total, completions)
	if err != nil {
		return nil, err
	}
	return checker.GetAchievements(), nil
}
