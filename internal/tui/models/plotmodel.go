package models

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/snapshot"
	"github.com/allbin/tempscope/internal/tui/components"
	"github.com/allbin/tempscope/internal/tui/keys"
	"github.com/allbin/tempscope/internal/tui/styles"
)

// maxConsecutiveReadErrors ends the session when the device keeps failing,
// one second of failed ticks
const maxConsecutiveReadErrors = 10

// TickMsg drives one render loop step
type TickMsg time.Time

// InterruptMsg is sent when the process receives SIGINT or SIGTERM
type InterruptMsg struct {
	Signal os.Signal
}

// SnapshotMsg reports the outcome of a PNG export
type SnapshotMsg struct {
	Path string
	Err  error
}

// Connection is the part of the sample source shown in the status bar
type Connection interface {
	Name() string
	State() tempscope.ConnectionState
}

// Ticker advances the render loop
type Ticker interface {
	Tick() tempscope.TickResult
	Stop()
}

// PlotModel is the bubbletea model of the live chart. Every render loop tick
// runs inside Update, so the loop, source and window are only touched from
// the program's event goroutine.
type PlotModel struct {
	loop  Ticker
	conn  Connection
	chart *components.Chart

	samples   *components.SampleTable
	events    *components.EventLog
	statusBar *components.StatusBar
	help      help.Model
	keys      keys.PlotKeys

	snapshotDir string
	logger      *zap.Logger
	now         func() time.Time
	notice      string
	noticeErr   error

	width, height int
	ready         bool
	readErrors    int
	stopped       bool
	interrupted   bool
	err           error
}

// Option configures a PlotModel
type Option func(*PlotModel)

// WithSnapshotDir sets where PNG snapshots are written
func WithSnapshotDir(dir string) Option {
	return func(m *PlotModel) { m.snapshotDir = dir }
}

func WithLogger(logger *zap.Logger) Option {
	return func(m *PlotModel) { m.logger = logger }
}

// WithNotice starts the session with text in the status bar and event pane,
// e.g. a side service that could not be started
func WithNotice(text string, err error) Option {
	return func(m *PlotModel) {
		m.notice = text
		m.noticeErr = err
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(m *PlotModel) { m.now = now }
}

// NewPlotModel wraps an armed loop whose surface is chart
func NewPlotModel(loop Ticker, conn Connection, chart *components.Chart, opts ...Option) *PlotModel {
	m := &PlotModel{
		loop:        loop,
		conn:        conn,
		chart:       chart,
		samples:     components.NewSampleTable(10),
		events:      components.NewEventLog(80, 6),
		statusBar:   components.NewStatusBar(conn.Name()),
		help:        help.New(),
		keys:        keys.NewPlotKeys(),
		snapshotDir: ".",
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.statusBar.SetConnectionInfo(components.SensorConnectionInfo())
	m.statusBar.SetState(conn.State())
	m.statusBar.SetMessage("Listening for samples...", nil)
	m.statusBar.SetWindowFill(0, tempscope.WindowCapacity)
	if m.notice != "" {
		m.statusBar.SetMessage(m.notice, m.noticeErr)
		m.events.Add(components.Event{Timestamp: m.now(), Kind: components.EventInfo, Line: m.notice})
	}
	return m
}

func tick() tea.Cmd {
	return tea.Tick(tempscope.TickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m *PlotModel) Init() tea.Cmd {
	return tick()
}

func (m *PlotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		_, cmd := m.events.Update(msg)
		return m, cmd

	case TickMsg:
		if m.stopped {
			return m, nil
		}
		m.handleTick(m.loop.Tick())
		if m.err != nil {
			return m, m.stop()
		}
		return m, tick()

	case InterruptMsg:
		if msg.Signal != nil {
			m.logger.Info("Interrupt received", zap.Stringer("signal", msg.Signal))
		}
		m.interrupted = true
		return m, m.stop()

	case SnapshotMsg:
		if msg.Err != nil {
			m.logger.Warn("Snapshot failed", zap.Error(msg.Err))
			m.statusBar.SetMessage(fmt.Sprintf("Snapshot failed: %v", msg.Err), msg.Err)
			return m, nil
		}
		m.logger.Info("Snapshot saved", zap.String("path", msg.Path))
		m.statusBar.SetMessage("Snapshot saved: "+msg.Path, nil)
		m.events.Add(components.Event{Timestamp: m.now(), Kind: components.EventInfo, Line: "Snapshot saved: " + msg.Path})

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.stop()

		case key.Matches(msg, m.keys.Interrupt):
			m.interrupted = true
			return m, m.stop()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll

		case key.Matches(msg, m.keys.Snapshot):
			return m, m.snapshot()

		case key.Matches(msg, m.keys.Clear):
			m.events.Clear()

		case key.Matches(msg, m.keys.ToggleTimestamp):
			m.events.ToggleTimestamps()

		case key.Matches(msg, m.keys.ScrollUp):
			m.events.ScrollUp()

		case key.Matches(msg, m.keys.ScrollDown):
			m.events.ScrollDown()
		}
	}

	return m, nil
}

func (m *PlotModel) handleTick(res tempscope.TickResult) {
	now := m.now()

	switch res.Outcome {
	case tempscope.TickUpdated:
		m.readErrors = 0
		frame := m.chart.Frame()
		m.events.Add(components.Event{Timestamp: now, Kind: components.EventReceived, Line: res.Line})
		m.samples.Update(frame)
		m.statusBar.SetWindowFill(len(frame.Samples), tempscope.WindowCapacity)

	case tempscope.TickParseFailure:
		m.readErrors = 0
		m.events.Add(components.Event{Timestamp: now, Kind: components.EventReceived, Line: res.Line})
		m.events.Add(components.Event{Timestamp: now, Kind: components.EventRejected, Line: res.Line, Err: res.Err})

	case tempscope.TickReadError:
		m.readErrors++
		m.events.Add(components.Event{Timestamp: now, Kind: components.EventReadError, Err: res.Err})
		if m.readErrors >= maxConsecutiveReadErrors {
			m.err = fmt.Errorf("serial read failed %d times in a row: %w", m.readErrors, res.Err)
			m.statusBar.SetMessage("Connection lost", m.err)
		}

	case tempscope.TickIdle, tempscope.TickNoLine:
		m.readErrors = 0
	}

	m.statusBar.SetState(m.conn.State())
}

// stop halts the render loop and ends the program
func (m *PlotModel) stop() tea.Cmd {
	if !m.stopped {
		m.stopped = true
		m.loop.Stop()
	}
	return tea.Quit
}

func (m *PlotModel) snapshot() tea.Cmd {
	// Frame samples are a copy, so the export can run off the event goroutine
	frame := m.chart.Frame()
	axes := m.chart.Axes()
	dir := m.snapshotDir
	now := m.now()

	return func() tea.Msg {
		path, err := snapshot.Write(dir, axes, frame, now)
		return SnapshotMsg{Path: path, Err: err}
	}
}

func (m *PlotModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	statusBarHeight := 1
	eventsHeight := max(height/5, 3)
	tableWidth := 27
	mainHeight := max(height-statusBarHeight-eventsHeight-2, 8)

	m.chart.SetSize(width-tableWidth-2, mainHeight)
	m.samples.SetRows(max(mainHeight-4, 1))
	m.events.SetSize(width, eventsHeight)
	m.statusBar.SetWidth(width)
}

// Err returns the error that ended the session, if any
func (m *PlotModel) Err() error {
	return m.err
}

// Interrupted reports whether the session ended by ctrl+c or a signal
func (m *PlotModel) Interrupted() bool {
	return m.interrupted
}

func (m *PlotModel) Stopped() bool {
	return m.stopped
}

func (m *PlotModel) Events() []components.Event {
	return m.events.Events()
}

func (m *PlotModel) StatusMessage() (string, error) {
	return m.statusBar.Message()
}

func (m *PlotModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.chart.View(),
		styles.PanelStyle.Render(m.samples.View()),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		body,
		styles.ContentBorderStyle.Render(m.events.View()),
	)

	if m.help.ShowAll {
		helpView := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).
			Render(m.help.View(m.keys))
		content = lipgloss.JoinVertical(lipgloss.Left, content, helpView)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		m.statusBar.View(m.now().Format("15:04:05")),
	)
}
