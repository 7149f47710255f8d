package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// ------- styling (Lip Gloss) -------
var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	favoriteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	markerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle     = lipgloss.NewStyle().Faint(true)

	heartOn  = "❤"
	heartOff = "♡"
	dotEmpty = "·"
	dotPin   = "●"
	dotSel   = "◉"
)

func paneStyle(focused bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	if focused {
		s = s.BorderForeground(lipgloss.Color("12"))
	}
	return s
}

func heart(fav bool) string {
	if fav {
		return favoriteStyle.Render(heartOn)
	}
	return mutedStyle.Render(heartOff)
}
