package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	sidebar   lipgloss.Style
	sideTitle lipgloss.Style
	label     lipgloss.Style
	warning   lipgloss.Style
	errorText lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	muted     lipgloss.Style
	inputBox  lipgloss.Style
	focused   lipgloss.Style
}

func newStyles() styles {
	accent := lipgloss.Color("#f55036")
	blue := lipgloss.Color("#01cdfe")
	muted := lipgloss.Color("#9ca3af")
	border := lipgloss.Color("#3f3f46")

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Padding(0, 1),
		sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		sideTitle: lipgloss.NewStyle().Bold(true),
		label:     lipgloss.NewStyle().Foreground(muted),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#facc15")).Bold(true),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true),
		user:      lipgloss.NewStyle().Foreground(blue).Bold(true),
		assistant: lipgloss.NewStyle().Foreground(accent).Bold(true),
		muted:     lipgloss.NewStyle().Foreground(muted),
		inputBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1),
		focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),
	}
}
