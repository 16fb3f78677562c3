package tui

import (
	"github.com/charmbracelet/lipgloss"

	"shortform/orchestrator"
)

// Palette: teal accent for progress, amber banner, slate for secondary text.
const (
	colorAccent  = "#2DD4BF"
	colorBanner  = "#FBBF24"
	colorFailure = "#F87171"
	colorMuted   = "#8A8A8A"
	colorBright  = "#1C1917"
)

// modeColors gives each generation mode its own accent in the results box.
var modeColors = map[orchestrator.Mode]lipgloss.Color{
	orchestrator.ModeText:  lipgloss.Color("#2DD4BF"),
	orchestrator.ModeMusic: lipgloss.Color("#C084FC"),
	orchestrator.ModeAudio: lipgloss.Color("#38BDF8"),
	orchestrator.ModeLong:  lipgloss.Color("#FBBF24"),
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorAccent)).
			MarginTop(1).
			MarginBottom(1)

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorBright)).
			Background(lipgloss.Color(colorBanner)).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorAccent))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorFailure))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorMuted))

	resultsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorAccent)).
			Padding(1, 2)
)

// modeStyle renders a mode name in its accent color.
func modeStyle(m orchestrator.Mode) lipgloss.Style {
	c, ok := modeColors[m]
	if !ok {
		c = lipgloss.Color(colorAccent)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}
