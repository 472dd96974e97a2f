package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/agencykit/runway/runtime/execution"
)

var (
	successColor = lipgloss.Color("#10B981") // green
	dangerColor  = lipgloss.Color("#EF4444") // red
	warnColor    = lipgloss.Color("#F59E0B") // yellow
	mutedColor   = lipgloss.Color("#6B7280") // gray
	accentColor  = lipgloss.Color("#7C3AED") // purple

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	stateStyles = map[string]lipgloss.Style{
		execution.StateQueued:    lipgloss.NewStyle().Foreground(mutedColor),
		execution.StateRunning:   lipgloss.NewStyle().Foreground(accentColor),
		execution.StateBlocked:   lipgloss.NewStyle().Foreground(warnColor).Bold(true),
		execution.StateSucceeded: lipgloss.NewStyle().Foreground(successColor).Bold(true),
		execution.StateFailed:    lipgloss.NewStyle().Foreground(dangerColor).Bold(true),
		execution.StateCanceled:  lipgloss.NewStyle().Foreground(mutedColor),
	}
)

// renderState renders a run or job state with its status color.
func renderState(state string) string {
	if style, ok := stateStyles[state]; ok {
		return style.Render(state)
	}
	return state
}

// renderProgress renders a compact progress bar like [=====     ] 50%.
func renderProgress(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent / 10
	bar := ""
	for i := 0; i < 10; i++ {
		if i < filled {
			bar += "="
		} else {
			bar += " "
		}
	}
	return fmt.Sprintf("[%s] %3d%%", bar, percent)
}
