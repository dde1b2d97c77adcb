package tui

import "github.com/charmbracelet/lipgloss"

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	bold   = lipgloss.NewStyle().Bold(true)
)

// ColorRed colors text red
func ColorRed(text string) string {
	return red.Render(text)
}

// ColorGreen colors text green
func ColorGreen(text string) string {
	return green.Render(text)
}

// ColorYellow colors text yellow
func ColorYellow(text string) string {
	return yellow.Render(text)
}

// ColorCyan colors text cyan
func ColorCyan(text string) string {
	return cyan.Render(text)
}

// ColorDim renders secondary text
func ColorDim(text string) string {
	return dim.Render(text)
}

// utilizationStyle shades a shelf by how full it is
func utilizationStyle(u float64) lipgloss.Style {
	switch {
	case u > 1+1e-9:
		return red
	case u >= 0.9:
		return yellow
	case u > 0:
		return green
	default:
		return dim
	}
}
