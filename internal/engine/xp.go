package engine

import "math"

const (
	// BaseXP is the XP needed to leave level 1.
	BaseXP = 100.0

	// GrowthFactor is the exponent of the per-level curve: need(L) = BaseXP * L^GrowthFactor.
	GrowthFactor = 1.5

	DailyTaskXP = 5
	BaseTaskXP  = 10

	// FocusSessionXP is paid for each finished focus session.
	FocusSessionXP = 10
)

var priorityMultipliers = map[Priority]int{
	PriorityLow:    2,
	PriorityMedium: 3,
	PriorityHigh:   5,
}

// RequiredXPForLevel returns the XP needed to advance from level to level+1.
func RequiredXPForLevel(level int) (int, error) {
	if level < 1 {
		return 0, invalidInput("level", level)
	}
	return requiredXP(level), nil
}

func requiredXP(level int) int {
	return int(math.Round(BaseXP * math.Pow(float64(level), GrowthFactor)))
}

// DeriveLevelState converts a cumulative XP total into a level and the
// progress inside it. The walk terminates because requiredXP is strictly
// increasing and unbounded.
func DeriveLevelState(totalXP int) (LevelState, error) {
	if totalXP < 0 {
		return LevelState{}, invalidInput("total xp", totalXP)
	}

	level := 1
	accumulated := 0
	for {
		need := requiredXP(level)
		if accumulated+need > totalXP {
			break
		}
		accumulated += need
		level++
	}

	current := totalXP - accumulated
	next := requiredXP(level)
	return LevelState{
		Level:          level,
		CurrentLevelXP: current,
		NextLevelXP:    next,
		Progress:       float64(current) / float64(next),
	}, nil
}

// ComputeTaskXP returns the XP award for completing a task. Daily tasks are
// flat; other kinds scale with priority, and an unset or unknown priority
// counts as medium.
func ComputeTaskXP(kind TaskKind, priority Priority) (int, error) {
	switch kind {
	case TaskKindDaily:
		return DailyTaskXP, nil
	case TaskKindCalendar, TaskKindCustom:
		mult, ok := priorityMultipliers[priority]
		if !ok {
			mult = priorityMultipliers[DefaultPriority]
		}
		return BaseTaskXP * mult, nil
	default:
		return 0, invalidInput("task kind", kind)
	}
}

// XPForEvent is ComputeTaskXP applied to a completion event.
func XPForEvent(ev CompletionEvent) (int, error) {
	return ComputeTaskXP(ev.Kind, ev.Priority)
}

// AddXP applies amount to currentTotalXP. It is the only way totals move and
// it never lowers XP or level.
func AddXP(currentTotalXP, amount int) (XPGain, error) {
	if currentTotalXP < 0 {
		return XPGain{}, invalidInput("total xp", currentTotalXP)
	}
	if amount < 0 {
		return XPGain{}, invalidInput("xp amount", amount)
	}
	if currentTotalXP > math.MaxInt-amount {
		return XPGain{}, invalidInput("xp amount", amount)
	}

	before, err := DeriveLevelState(currentTotalXP)
	if err != nil {
		return XPGain{}, err
	}
	newTotal := currentTotalXP + amount
	after, err := DeriveLevelState(newTotal)
	if err != nil {
		return XPGain{}, err
	}
	return XPGain{
		NewTotalXP: newTotal,
		State:      after,
		DidLevelUp: after.Level > before.Level,
	}, nil
}

// TotalXPForLevel returns the cumulative XP at which level is first reached.
func TotalXPForLevel(level int) (int, error) {
	if level < 1 {
		return 0, invalidInput("level", level)
	}
	total := 0
	for l := 1; l < level; l++ {
		total += requiredXP(l)
	}
	return total, nil
}
