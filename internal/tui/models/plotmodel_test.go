package models

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/tui/components"
)

type scripted struct {
	lines []string
	err   error
}

func (s *scripted) HasPendingData() bool { return len(s.lines) > 0 || s.err != nil }

func (s *scripted) ReadLine() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

type openConn struct{}

func (openConn) Name() string                     { return "/dev/ttyACM0" }
func (openConn) State() tempscope.ConnectionState { return tempscope.StateOpen }

var fixedNow = time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)

func newModel(t *testing.T, src tempscope.LineSource, capacity int, opts ...Option) (*PlotModel, *tempscope.Loop, *components.Chart) {
	t.Helper()
	loop := tempscope.NewLoop(src, tempscope.NewWindow(capacity), nil, zaptest.NewLogger(t))
	chart := components.NewChart(80, 20)
	require.NoError(t, loop.Arm(chart))

	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithClock(func() time.Time { return fixedNow })}, opts...)
	m := NewPlotModel(loop, openConn{}, chart, opts...)
	return m, loop, chart
}

func isQuit(t *testing.T, cmd tea.Cmd) bool {
	t.Helper()
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestInitSchedulesTick(t *testing.T) {
	m, _, _ := newModel(t, &scripted{}, 3)
	require.NotNil(t, m.Init())
}

func TestTickUpdatesChart(t *testing.T) {
	m, _, chart := newModel(t, &scripted{lines: []string{"10.0", "bad", "20.0", "30.0", "40.0"}}, 3)

	for i := 0; i < 5; i++ {
		_, cmd := m.Update(TickMsg(fixedNow))
		require.NotNil(t, cmd, "next tick is scheduled")
		require.False(t, isQuit(t, cmd))
	}

	frame := chart.Frame()
	require.Equal(t, []tempscope.Sample{{Index: 2, Value: 20}, {Index: 3, Value: 30}, {Index: 4, Value: 40}}, frame.Samples)
	require.InDelta(t, 30.0, frame.Average, 1e-9)
	require.Equal(t, 40.0, frame.Last.Value)

	var received, rejected int
	for _, ev := range m.Events() {
		switch ev.Kind {
		case components.EventReceived:
			received++
		case components.EventRejected:
			rejected++
			require.Equal(t, "bad", ev.Line)
		}
	}
	require.Equal(t, 5, received)
	require.Equal(t, 1, rejected)
}

func TestQuitStopsLoop(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m, loop, _ := newModel(t, &scripted{lines: []string{"1"}}, 3)

			var msg tea.KeyMsg
			if k == "esc" {
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			} else {
				msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
			}
			_, cmd := m.Update(msg)
			require.True(t, isQuit(t, cmd))
			require.Equal(t, tempscope.LoopStopped, loop.State())
			require.False(t, m.Interrupted())

			// Ticks already in flight are ignored
			_, cmd = m.Update(TickMsg(fixedNow))
			require.Nil(t, cmd)
		})
	}
}

func TestInterrupt(t *testing.T) {
	m, loop, _ := newModel(t, &scripted{}, 3)

	_, cmd := m.Update(InterruptMsg{Signal: syscall.SIGTERM})
	require.True(t, isQuit(t, cmd))
	require.True(t, m.Interrupted())
	require.Equal(t, tempscope.LoopStopped, loop.State())
	require.NoError(t, m.Err())
}

func TestCtrlCIsInterrupt(t *testing.T) {
	m, _, _ := newModel(t, &scripted{}, 3)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.True(t, isQuit(t, cmd))
	require.True(t, m.Interrupted())
}

func TestRepeatedReadErrorsEndSession(t *testing.T) {
	ioErr := errors.New("input/output error")
	m, _, _ := newModel(t, &scripted{err: ioErr}, 3)

	for i := 1; i < maxConsecutiveReadErrors; i++ {
		_, cmd := m.Update(TickMsg(fixedNow))
		require.False(t, isQuit(t, cmd))
	}
	_, cmd := m.Update(TickMsg(fixedNow))
	require.True(t, isQuit(t, cmd))
	require.ErrorIs(t, m.Err(), ioErr)
	require.True(t, m.Stopped())
}

func TestSnapshotKey(t *testing.T) {
	dir := t.TempDir()
	m, _, _ := newModel(t, &scripted{lines: []string{"21.5", "22.5"}}, 3, WithSnapshotDir(dir))
	m.Update(TickMsg(fixedNow))
	m.Update(TickMsg(fixedNow))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	require.NotNil(t, cmd)
	msg := cmd()
	snap, ok := msg.(SnapshotMsg)
	require.True(t, ok)
	require.NoError(t, snap.Err)
	require.Equal(t, filepath.Join(dir, "tempscope-20260501-123000.png"), snap.Path)
	_, err := os.Stat(snap.Path)
	require.NoError(t, err)

	m.Update(snap)
	status, err := m.StatusMessage()
	require.NoError(t, err)
	require.Contains(t, status, snap.Path)
}

func TestSnapshotEmptyWindow(t *testing.T) {
	m, _, _ := newModel(t, &scripted{}, 3, WithSnapshotDir(t.TempDir()))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m.Update(cmd())

	_, err := m.StatusMessage()
	require.Error(t, err)
}

func TestNoticeShownAtStart(t *testing.T) {
	bindErr := errors.New("listen tcp 127.0.0.1:9100: bind: address already in use")
	m, _, _ := newModel(t, &scripted{}, 3, WithNotice("Metrics disabled", bindErr))

	status, err := m.StatusMessage()
	require.Equal(t, "Metrics disabled", status)
	require.ErrorIs(t, err, bindErr)

	events := m.Events()
	require.Len(t, events, 1)
	require.Equal(t, components.EventInfo, events[0].Kind)
}

func TestViewLayout(t *testing.T) {
	m, _, _ := newModel(t, &scripted{lines: []string{"19.25"}}, 3)
	require.Equal(t, "Initializing...", m.View())

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.Update(TickMsg(fixedNow))

	view := m.View()
	require.Contains(t, view, "Live Temperature Reading")
	require.Contains(t, view, "Last: 19.25 °C")
	require.Contains(t, view, "Received data: 19.25")
	require.Contains(t, view, "/dev/ttyACM0")
	require.Contains(t, view, "1/100 samples")
}
