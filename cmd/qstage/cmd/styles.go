package cmd

import "github.com/charmbracelet/lipgloss"

var (
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E5484D"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8BC34A"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B949E"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)
