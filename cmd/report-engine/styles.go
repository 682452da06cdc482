package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/report-engine/internal/preflight"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(20)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7ED321"))
	failStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))

	severityColors = map[preflight.Severity]lipgloss.Color{
		preflight.SeverityNone:   lipgloss.Color("#7ED321"),
		preflight.SeverityLow:    lipgloss.Color("#5B8DEF"),
		preflight.SeverityMedium: lipgloss.Color("#F5A623"),
		preflight.SeverityHigh:   lipgloss.Color("#FF6B6B"),
	}
)

func severityStyle(s preflight.Severity) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	if color, ok := severityColors[s]; ok {
		style = style.Foreground(color)
	}
	return style
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}
