package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/allbin/tempscope/internal/tui/colors"
)

// EventKind classifies an entry in the event pane
type EventKind int

const (
	EventReceived EventKind = iota
	EventRejected
	EventReadError
	EventInfo
)

// Event is one line of render loop activity
type Event struct {
	Timestamp time.Time
	Kind      EventKind
	Line      string
	Err       error
}

type EventFormatter struct {
	showTimestamps bool
}

func NewEventFormatter(showTimestamps bool) *EventFormatter {
	return &EventFormatter{showTimestamps: showTimestamps}
}

func (ef *EventFormatter) ToggleTimestamps() {
	ef.showTimestamps = !ef.showTimestamps
}

func (ef *EventFormatter) ShowTimestamps() bool {
	return ef.showTimestamps
}

// Format renders ev the way the plotter has always traced it:
// "Received data: <line>" and "Error parsing data: <line> - <reason>".
func (ef *EventFormatter) Format(ev Event) string {
	var body string
	switch ev.Kind {
	case EventReceived:
		body = lipgloss.NewStyle().Foreground(colors.Sky).Render("↙ ") +
			fmt.Sprintf("Received data: %s", ev.Line)
	case EventRejected:
		text := fmt.Sprintf("Error parsing data: %s", ev.Line)
		if ev.Err != nil {
			text += " - " + ev.Err.Error()
		}
		body = lipgloss.NewStyle().Foreground(colors.Red).Render("✗ " + text)
	case EventReadError:
		body = lipgloss.NewStyle().Foreground(colors.Red).Bold(true).
			Render(fmt.Sprintf("✗ Read error: %v", ev.Err))
	default:
		body = lipgloss.NewStyle().Foreground(colors.Mauve).Render("• " + ev.Line)
	}

	if !ef.showTimestamps {
		return body
	}

	timestamp := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Render(fmt.Sprintf("[%s]", ev.Timestamp.Format("15:04:05.000")))
	return timestamp + " " + body
}

func (ef *EventFormatter) FormatAll(events []Event) []string {
	formatted := make([]string, len(events))
	for i, ev := range events {
		formatted[i] = ef.Format(ev)
	}
	return formatted
}
