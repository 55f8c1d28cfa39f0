package tui

import "github.com/charmbracelet/lipgloss"

const accent = lipgloss.Color("#2684ff")

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(accent).
			Padding(0, 1)

	editHeaderStyle = lipgloss.NewStyle().
			Foreground(accent).
			Padding(0, 1)

	removedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#de350b"))

	statusMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#0052cc", Dark: "#4c9aff"}).
				Render

	completeMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#36b37e")).
				Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)
)
