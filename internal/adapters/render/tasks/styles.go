package tasks

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	id      lipgloss.Style
	status  lipgloss.Style
	ongoing lipgloss.Style
	detail  lipgloss.Style
	empty   lipgloss.Style
	failure lipgloss.Style
	section lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		status:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		ongoing: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		empty:   lipgloss.NewStyle().Faint(true),
		failure: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section: lipgloss.NewStyle().MarginTop(1),
	}
}
