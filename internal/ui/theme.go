package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// levelup theme (CLI + TUI).

const (
	IconSparkle  = "✨"
	IconPlus     = "➕"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconUndo     = "↩️"
	IconSun      = "☀️"
	IconCalendar = "📅"
	IconCard     = "🃏"
	IconChart    = "📊"
	IconBroom    = "🧹"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status string, expired bool) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done":
		return Good.Render("done")
	case "pending":
		if expired {
			return Bad.Render("expired")
		}
		return Warn.Render("pending")
	default:
		return Muted.Render(status)
	}
}

func PriorityText(priority string) string {
	switch priority {
	case "high":
		return Bad.Render("high")
	case "low":
		return Good.Render("low")
	default:
		return Warn.Render("medium")
	}
}

func KindIcon(kind string) string {
	switch kind {
	case "daily":
		return IconSun
	case "calendar":
		return IconCalendar
	default:
		return IconCard
	}
}

// NewProgressBar returns the bar used for level progress.
func NewProgressBar(width int) progress.Model {
	return progress.New(
		progress.WithGradient(string(cPrimary), string(cGold)),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
}

// ProgressBar renders a static level progress bar for ratio in [0,1].
func ProgressBar(ratio float64, width int) string {
	bar := NewProgressBar(width)
	return bar.ViewAs(ratio)
}
