package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/tui/colors"
	"github.com/allbin/tempscope/internal/tui/styles"
)

type ConnectionInfo struct {
	BaudRate int
	DataBits int
	StopBits int
	Parity   tempscope.Parity
}

// SensorConnectionInfo describes the fixed sensor line settings
func SensorConnectionInfo() *ConnectionInfo {
	cfg := tempscope.DefaultConfig()
	return &ConnectionInfo{
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
	}
}

type StatusBar struct {
	portPath       string
	state          tempscope.ConnectionState
	message        string
	err            error
	width          int
	samples        int
	capacity       int
	connectionInfo *ConnectionInfo
}

func NewStatusBar(portPath string) *StatusBar {
	return &StatusBar{
		portPath: portPath,
		message:  "Initializing...",
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetConnectionInfo(info *ConnectionInfo) {
	sb.connectionInfo = info
}

func (sb *StatusBar) SetState(state tempscope.ConnectionState) {
	sb.state = state
}

// SetMessage shows a transient note such as a saved snapshot path
func (sb *StatusBar) SetMessage(message string, err error) {
	sb.message = message
	sb.err = err
}

func (sb *StatusBar) Message() (string, error) {
	return sb.message, sb.err
}

func (sb *StatusBar) SetWindowFill(samples, capacity int) {
	sb.samples = samples
	sb.capacity = capacity
}

func parityToString(p tempscope.Parity) string {
	switch p {
	case tempscope.ParityEven:
		return "E"
	case tempscope.ParityOdd:
		return "O"
	default:
		return "N"
	}
}

func (sb *StatusBar) indicator() string {
	symbol := "○"
	switch {
	case sb.err != nil:
		symbol = "✗"
	case sb.state == tempscope.StateOpen:
		symbol = "●"
	}
	return styles.ConnectionStyle(sb.state).Padding(0, 1).Render(symbol)
}

// View renders the single-line status bar
func (sb *StatusBar) View(timestamp string) string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	mode := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(colors.Blue).
		Bold(true).
		Padding(0, 1).
		Render("LIVE")

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.portPath)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	messageStyle := lipgloss.NewStyle().Foreground(colors.Subtext1).Padding(0, 1)
	if sb.err != nil {
		messageStyle = messageStyle.Foreground(colors.Red)
	}
	message := messageStyle.Render(sb.message)

	connInfo := "⚡ serial"
	if sb.connectionInfo != nil {
		connInfo = fmt.Sprintf("⚡ %d baud %d%s%d",
			sb.connectionInfo.BaudRate,
			sb.connectionInfo.DataBits,
			parityToString(sb.connectionInfo.Parity),
			sb.connectionInfo.StopBits)
	}
	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("%s │ %d/%d samples", connInfo, sb.samples, sb.capacity))

	clock := lipgloss.NewStyle().
		Foreground(colors.Subtext1).
		Padding(0, 1).
		Render(timestamp)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, mode, port, sb.indicator(), divider, message)
	rightSide := lipgloss.JoinHorizontal(lipgloss.Left, details, divider, clock)

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(rightSide)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, rightSide))
}
