package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rcenerini/Avaliacao-Identificacao-Shadow-IA/internal/models"
)

// Severity colors
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF8800")
	colorMedium   = lipgloss.Color("#FFFF00")
	colorLow      = lipgloss.Color("#00FF00")
	colorMuted    = lipgloss.Color("#888888")
	colorAccent   = lipgloss.Color("#7B68EE")
	colorBorder   = lipgloss.Color("#444444")
)

// Panel styles
var (
	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder)

	styleDetailPanel = lipgloss.NewStyle().
				Padding(0, 1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderTop(true).
				BorderForeground(colorBorder)

	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	styleSearchPrompt = lipgloss.NewStyle().
				Foreground(colorAccent).Bold(true)

	styleTitle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	styleBody = lipgloss.NewStyle().
			Padding(1, 2)

	styleNotice = lipgloss.NewStyle().
			Foreground(colorMedium).
			Padding(0, 1)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// severityStyle returns the lipgloss style for a severity level.
func severityStyle(severity models.Severity) lipgloss.Style {
	switch severity {
	case models.SeverityCritical:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	case models.SeverityHigh:
		return lipgloss.NewStyle().Foreground(colorHigh).Bold(true)
	case models.SeverityMedium:
		return lipgloss.NewStyle().Foreground(colorMedium)
	case models.SeverityLow:
		return lipgloss.NewStyle().Foreground(colorLow)
	default:
		return lipgloss.NewStyle()
	}
}

// statusStyle returns the lipgloss style for a compliance verdict.
func statusStyle(status models.Status) lipgloss.Style {
	switch status {
	case models.StatusCompliant:
		return lipgloss.NewStyle().Foreground(colorLow).Bold(true)
	case models.StatusNonCompliant:
		return lipgloss.NewStyle().Foreground(colorCritical).Bold(true)
	default:
		return lipgloss.NewStyle()
	}
}
