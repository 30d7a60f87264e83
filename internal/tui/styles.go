package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/erazemk/itemdesk/internal/model"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	focusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusActive:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	case model.StatusDone:
		return successStyle
	default:
		return mutedStyle
	}
}
