package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// maxEvents bounds the event history kept for the pane
const maxEvents = 500

// EventLog is a scrolling pane of received and rejected lines
type EventLog struct {
	viewport  viewport.Model
	formatter *EventFormatter
	events    []Event
	follow    bool
}

func NewEventLog(width, height int) *EventLog {
	return &EventLog{
		viewport:  viewport.New(width, height),
		formatter: NewEventFormatter(true),
		follow:    true,
	}
}

func (e *EventLog) SetSize(width, height int) {
	e.viewport.Width = width
	e.viewport.Height = height
	e.refresh()
}

// Add appends ev, dropping the oldest entries beyond maxEvents
func (e *EventLog) Add(ev Event) {
	e.events = append(e.events, ev)
	if len(e.events) > maxEvents {
		e.events = append(e.events[:0], e.events[len(e.events)-maxEvents:]...)
	}
	e.refresh()
}

func (e *EventLog) Events() []Event {
	return e.events
}

func (e *EventLog) Clear() {
	e.events = nil
	e.follow = true
	e.viewport.SetContent("")
}

func (e *EventLog) ToggleTimestamps() {
	e.formatter.ToggleTimestamps()
	e.refresh()
}

// ScrollUp leaves follow mode until the bottom is reached again
func (e *EventLog) ScrollUp() {
	e.viewport.LineUp(1)
	e.follow = e.viewport.AtBottom()
}

func (e *EventLog) ScrollDown() {
	e.viewport.LineDown(1)
	e.follow = e.viewport.AtBottom()
}

func (e *EventLog) refresh() {
	e.viewport.SetContent(strings.Join(e.formatter.FormatAll(e.events), "\n"))
	if e.follow {
		e.viewport.GotoBottom()
	}
}

func (e *EventLog) Update(msg tea.Msg) (viewport.Model, tea.Cmd) {
	// Key messages are handled by the model so the viewport does not steal bindings
	switch msg.(type) {
	case tea.WindowSizeMsg:
		return e.viewport.Update(msg)
	default:
		return e.viewport, nil
	}
}

func (e *EventLog) View() string {
	return e.viewport.View()
}
