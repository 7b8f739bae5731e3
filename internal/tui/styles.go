package tui

import "github.com/charmbracelet/lipgloss"

// Shared styles.
//
//nolint:gochecknoglobals // Lipgloss styles are immutable values shared by all views.
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	LabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	CursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	MarkedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	CriticalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Background(lipgloss.Color("236"))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// statusColor picks the style for a virtualizer state name.
func statusColor(state string) lipgloss.Style {
	switch state {
	case "ready":
		return MarkedStyle
	case "unavailable", "stopped":
		return WarningStyle
	default:
		return SubtleStyle
	}
}
