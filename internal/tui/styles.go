package tui

import "github.com/charmbracelet/lipgloss"

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeBorderColor = lipgloss.Color("226")
	dragBorderColor   = lipgloss.Color("205")

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)

	dialogPadY = 1
	dialogPadX = 2

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(dialogPadY, dialogPadX)
)

// cardStyleFor returns the card border for a column color and card state.
func cardStyleFor(color string, active, dragging bool) lipgloss.Style {
	style := cardStyle
	if color != "" {
		style = style.BorderForeground(lipgloss.Color(color))
	}
	switch {
	case dragging:
		style = style.Border(lipgloss.ThickBorder()).BorderForeground(dragBorderColor)
	case active:
		style = style.BorderForeground(activeBorderColor)
	}
	return style
}
