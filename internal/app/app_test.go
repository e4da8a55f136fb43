package app

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/config"
	"github.com/allbin/tempscope/internal/tui/models"
)

type ports []tempscope.PortDescriptor

func (p ports) Enumerate() ([]tempscope.PortDescriptor, error) { return p, nil }

type enumFunc func() ([]tempscope.PortDescriptor, error)

func (f enumFunc) Enumerate() ([]tempscope.PortDescriptor, error) { return f() }

var (
	sensor = tempscope.PortDescriptor{
		Name:        "/dev/ttyACM0",
		HardwareID:  "USB VID:PID=F055:0012 SER=E66138935F2B LOCATION=1-2:1.0",
		Description: "Pico",
	}
	other = tempscope.PortDescriptor{Name: "/dev/ttyS0", HardwareID: "n/a", Description: "Serial Port"}
)

// linePort serves its data in one read, then reports timeouts
type linePort struct {
	mu     sync.Mutex
	data   []byte
	readEr error
	closes int
}

func (p *linePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	return nil
}

func (p *linePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readEr != nil {
		return 0, p.readEr
	}
	n := copy(buf, p.data)
	p.data = p.data[n:]
	return n, nil
}

func (p *linePort) InputWaiting() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readEr != nil {
		return 1, nil
	}
	return len(p.data), nil
}

// scriptProgram feeds msgs to the model in order, standing in for the terminal
type scriptProgram struct {
	model tea.Model
	msgs  []tea.Msg
	err   error
}

func (p *scriptProgram) Run() (tea.Model, error) {
	m := p.model
	m.Init()
	for _, msg := range p.msgs {
		m, _ = m.Update(msg)
	}
	return m, p.err
}

func (p *scriptProgram) Send(tea.Msg) {}

func script(msgs []tea.Msg, err error) (ProgramFactory, *tea.Model) {
	var final tea.Model
	return func(model tea.Model) Program {
		final = model
		return &scriptProgram{model: model, msgs: msgs, err: err}
	}, &final
}

func ticks(n int) []tea.Msg {
	msgs := make([]tea.Msg, n)
	for i := range msgs {
		msgs[i] = models.TickMsg(time.Time{})
	}
	return msgs
}

func newApp(t *testing.T, enum tempscope.Enumerator, open tempscope.PortOpener, factory ProgramFactory) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cfg := config.Default()
	cfg.Snapshot.Dir = t.TempDir()
	a := New(cfg, zaptest.NewLogger(t),
		WithStdout(&out),
		WithEnumerator(enum),
		WithPortOpener(open),
		WithProgramFactory(factory),
	)
	return a, &out
}

func openerFor(p tempscope.Port, err error, calls *int) tempscope.PortOpener {
	return func(device string, opts ...tempscope.Option) (tempscope.Port, error) {
		*calls++
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

func TestRunDeviceNotFound(t *testing.T) {
	var calls int
	factory, final := script(nil, nil)
	a, out := newApp(t, ports{other}, openerFor(&linePort{}, nil, &calls), factory)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, tempscope.ErrDeviceNotFound)
	require.Zero(t, calls, "nothing opened")
	require.Nil(t, *final, "chart never shown")
	require.Contains(t, out.String(), "Searching for serial ports...")
	require.Contains(t, out.String(), "  - Found port: /dev/ttyS0, desc: Serial Port, hwid: n/a")
}

func TestRunPortOpenFailure(t *testing.T) {
	var calls int
	busy := errors.New("device or resource busy")
	factory, final := script(nil, nil)
	a, out := newApp(t, ports{other, sensor}, openerFor(nil, busy, &calls), factory)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, tempscope.ErrPortOpenFailure)
	require.ErrorIs(t, err, busy)
	require.Equal(t, 1, calls)
	require.Nil(t, *final)
	require.NotContains(t, out.String(), "opened successfully")
}

func TestRunQuit(t *testing.T) {
	var calls int
	port := &linePort{data: []byte("21.50\r\n")}
	msgs := append(ticks(3), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	factory, final := script(msgs, nil)
	a, out := newApp(t, ports{sensor}, openerFor(port, nil, &calls), factory)

	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, 1, port.closes, "port released")
	require.Contains(t, out.String(), "Serial port /dev/ttyACM0 opened successfully.")
	require.NotContains(t, out.String(), "interrupted")

	pm := (*final).(*models.PlotModel)
	require.True(t, pm.Stopped())
	require.NotEmpty(t, pm.Events())
}

func TestRunInterrupt(t *testing.T) {
	var calls int
	port := &linePort{}
	factory, _ := script([]tea.Msg{models.InterruptMsg{Signal: syscall.SIGINT}}, nil)
	a, out := newApp(t, ports{sensor}, openerFor(port, nil, &calls), factory)

	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, 1, port.closes)
	require.Contains(t, out.String(), "Program interrupted by user.")
}

func TestRunCancelledBeforeStart(t *testing.T) {
	var calls int
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	factory, _ := script(nil, nil)
	a, out := newApp(t, ports{sensor}, openerFor(&linePort{}, nil, &calls), factory)

	require.NoError(t, a.Run(ctx))
	require.Zero(t, calls)
	require.NotContains(t, out.String(), "Searching for serial ports...")
	require.Contains(t, out.String(), "Program interrupted by user.")
}

func TestRunInterruptDuringDiscovery(t *testing.T) {
	var calls int
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	enum := enumFunc(func() ([]tempscope.PortDescriptor, error) {
		cancel()
		return ports{sensor}, nil
	})
	factory, final := script(nil, nil)
	a, out := newApp(t, enum, openerFor(&linePort{}, nil, &calls), factory)

	require.NoError(t, a.Run(ctx))
	require.Zero(t, calls, "nothing opened after the interrupt")
	require.Nil(t, *final, "chart never shown")
	require.Contains(t, out.String(), "Program interrupted by user.")
}

func TestRunInterruptDuringOpen(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	port := &linePort{}
	open := func(device string, opts ...tempscope.Option) (tempscope.Port, error) {
		cancel()
		return port, nil
	}
	factory, final := script(nil, nil)
	a, out := newApp(t, ports{sensor}, open, factory)

	require.NoError(t, a.Run(ctx))
	require.Equal(t, 1, port.closes, "port released")
	require.Nil(t, *final)
	require.NotContains(t, out.String(), "opened successfully")
	require.Contains(t, out.String(), "Program interrupted by user.")
}

func TestRunMetricsBindFailureIsShown(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	var calls int
	port := &linePort{}
	factory, final := script([]tea.Msg{tea.KeyMsg{Type: tea.KeyEsc}}, nil)
	a, _ := newApp(t, ports{sensor}, openerFor(port, nil, &calls), factory)
	a.cfg.Metrics.Addr = busy.Addr().String()

	require.NoError(t, a.Run(context.Background()))
	require.Equal(t, 1, port.closes)

	status, statusErr := (*final).(*models.PlotModel).StatusMessage()
	require.Contains(t, status, "Metrics disabled")
	require.Contains(t, status, busy.Addr().String())
	require.Error(t, statusErr)
}

func TestRunProgramFailureReleasesPort(t *testing.T) {
	var calls int
	port := &linePort{}
	boom := errors.New("could not open a new TTY")
	factory, _ := script(nil, boom)
	a, _ := newApp(t, ports{sensor}, openerFor(port, nil, &calls), factory)

	err := a.Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, port.closes)
}

func TestRunLostDevice(t *testing.T) {
	var calls int
	port := &linePort{readEr: errors.New("input/output error")}
	factory, _ := script(ticks(20), nil)
	a, _ := newApp(t, ports{sensor}, openerFor(port, nil, &calls), factory)

	err := a.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "input/output error")
	require.Equal(t, 1, port.closes)
}

func TestEnumeratorFor(t *testing.T) {
	require.IsType(t, tempscope.SysfsEnumerator{}, EnumeratorFor(config.EnumeratorSysfs))
	require.IsType(t, tempscope.DetailedEnumerator{}, EnumeratorFor(config.EnumeratorBugst))
	require.IsType(t, tempscope.SysfsEnumerator{}, EnumeratorFor(""))
}
