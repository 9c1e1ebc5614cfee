package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/AndreyAkinshin/codedrills/internal/exercise"
)

var (
	colorGreen  = lipgloss.Color("#98C379")
	colorRed    = lipgloss.Color("#E06C75")
	colorMuted  = lipgloss.Color("#636B78")
	colorAccent = lipgloss.Color("#61AFEF")
	colorBorder = lipgloss.Color("#3F4451")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true).
			PaddingLeft(1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			PaddingLeft(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			PaddingLeft(1)
)

func iconStyle(k exercise.Kind) lipgloss.Style {
	switch k {
	case exercise.Passed:
		return lipgloss.NewStyle().Foreground(colorGreen)
	case exercise.Failed:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle().Foreground(colorMuted)
	}
}
