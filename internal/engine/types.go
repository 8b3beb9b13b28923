package engine

import "strings"

type TaskKind string

const (
	TaskKindDaily    TaskKind = "daily"
	TaskKindCalendar TaskKind = "calendar"
	TaskKindCustom   TaskKind = "custom"
)

func (k TaskKind) IsValid() bool {
	switch k {
	case TaskKindDaily, TaskKindCalendar, TaskKindCustom:
		return true
	default:
		return false
	}
}

// ParseTaskKind parses user input to a TaskKind.
// Unlike priorities, an unknown kind is rejected.
func ParseTaskKind(input string) (TaskKind, error) {
	k := TaskKind(strings.TrimSpace(strings.ToLower(input)))
	if !k.IsValid() {
		return "", invalidInput("task kind", input)
	}
	return k, nil
}

// FocusKind marks completion rows written for focus sessions. It is not a
// task kind: no task row carries it.
const FocusKind = "focus"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is used when a task has no priority or an unrecognized one.
const DefaultPriority Priority = PriorityMedium

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// ParsePriority normalizes user input. Empty or unknown input yields DefaultPriority.
func ParsePriority(input string) Priority {
	p := Priority(strings.TrimSpace(strings.ToLower(input)))
	if !p.IsValid() {
		return DefaultPriority
	}
	return p
}

// PriorityForColor maps a calendar color label to a priority.
func PriorityForColor(color string) Priority {
	switch strings.TrimSpace(strings.ToLower(color)) {
	case "red", "purple":
		return PriorityHigh
	case "yellow":
		return PriorityMedium
	case "green", "blue", "indigo":
		return PriorityLow
	default:
		return DefaultPriority
	}
}

// LevelState is derived from a total XP value and never stored.
type LevelState struct {
	Level          int
	CurrentLevelXP int
	NextLevelXP    int
	Progress       float64
}

// XPToNext is the XP still missing before the next level.
func (s LevelState) XPToNext() int {
	return s.NextLevelXP - s.CurrentLevelXP
}

// CompletionEvent is produced when a task is checked off and consumed once
// to compute an XP delta.
type CompletionEvent struct {
	Kind     TaskKind
	Priority Priority
}

// XPGain is the result of applying an XP delta to a ledger total.
type XPGain struct {
	NewTotalXP int
	State      LevelState
	DidLevelUp bool
}
