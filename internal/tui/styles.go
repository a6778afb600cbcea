package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#A78BFA") // Purple
	greenColor   = lipgloss.Color("#10B981") // Green
	redColor     = lipgloss.Color("#F87171") // Red
	yellowColor  = lipgloss.Color("#FBBF24") // Yellow
	mutedColor   = lipgloss.Color("#9CA3AF") // Gray
	textColor    = lipgloss.Color("#F9FAFB") // Light text

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	errStyle = lipgloss.NewStyle().
			Foreground(redColor)

	// Per-state row styles
	readyStyle      = lipgloss.NewStyle().Foreground(greenColor)
	blockedStyle    = lipgloss.NewStyle().Foreground(redColor)
	inProgressStyle = lipgloss.NewStyle().Foreground(yellowColor)
	completedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	skippedStyle    = lipgloss.NewStyle().Foreground(mutedColor).Strikethrough(true)
)

// stateStyle maps a display state to its row style.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "ready":
		return readyStyle
	case "blocked":
		return blockedStyle
	case "in_progress":
		return inProgressStyle
	case "completed":
		return completedStyle
	case "skipped":
		return skippedStyle
	default:
		return lipgloss.NewStyle()
	}
}
