package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/tui/colors"
)

var (
	// Header styles
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Background(colors.Surface0).
			Padding(0, 1)

	// Chart styles
	AxisLabelStyle = lipgloss.NewStyle().
			Foreground(colors.Subtext0).
			Italic(true)

	TickLabelStyle = lipgloss.NewStyle().
			Foreground(colors.Axis)

	AverageReadoutStyle = lipgloss.NewStyle().
				Foreground(colors.Average).
				Bold(true)

	LastReadoutStyle = lipgloss.NewStyle().
				Foreground(colors.Trace).
				Bold(true)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusConnectingStyle = lipgloss.NewStyle().
				Foreground(colors.Yellow).
				Bold(true)

	// Content area styles
	ContentBorderStyle = lipgloss.NewStyle().
				BorderTop(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(colors.Surface1)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)

	// Info styles
	InfoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Mauve).
			Align(lipgloss.Center)
)

// ConnectionStyle colors a connection state indicator
func ConnectionStyle(state tempscope.ConnectionState) lipgloss.Style {
	switch state {
	case tempscope.StateOpen:
		return StatusConnectedStyle
	case tempscope.StateUnopened:
		return StatusConnectingStyle
	default:
		return StatusDisconnectedStyle
	}
}
