// Package app wires discovery, the serial source and the live chart into one
// session and guarantees the port is released on every exit path.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/allbin/tempscope"
	"github.com/allbin/tempscope/internal/config"
	"github.com/allbin/tempscope/internal/metrics"
	"github.com/allbin/tempscope/internal/tui/components"
	"github.com/allbin/tempscope/internal/tui/models"
)

// Program is the part of *tea.Program the app drives
type Program interface {
	Run() (tea.Model, error)
	Send(msg tea.Msg)
}

// ProgramFactory builds the program showing model
type ProgramFactory func(model tea.Model) Program

func newTeaProgram(model tea.Model) Program {
	// Signals are forwarded as models.InterruptMsg so the loop stops first
	return tea.NewProgram(model, tea.WithAltScreen(), tea.WithoutSignalHandler())
}

// App is one plotting session
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	stdout     io.Writer
	enumerator tempscope.Enumerator
	opener     tempscope.PortOpener
	newProgram ProgramFactory
	signals    []os.Signal
}

// Option configures an App
type Option func(*App)

// WithStdout redirects the discovery trace and session messages
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithEnumerator overrides the enumerator chosen by configuration
func WithEnumerator(e tempscope.Enumerator) Option {
	return func(a *App) { a.enumerator = e }
}

// WithPortOpener replaces the termios port layer
func WithPortOpener(open tempscope.PortOpener) Option {
	return func(a *App) { a.opener = open }
}

// WithProgramFactory replaces the bubbletea program
func WithProgramFactory(f ProgramFactory) Option {
	return func(a *App) { a.newProgram = f }
}

// New creates an app from configuration
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		cfg:        cfg,
		logger:     logger,
		stdout:     os.Stdout,
		enumerator: EnumeratorFor(cfg.Discovery.Enumerator),
		newProgram: newTeaProgram,
		signals:    []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EnumeratorFor maps a discovery.enumerator setting to an Enumerator
func EnumeratorFor(name string) tempscope.Enumerator {
	if name == config.EnumeratorBugst {
		return tempscope.DetailedEnumerator{}
	}
	return tempscope.SysfsEnumerator{}
}

// Run locates the sensor, opens it and shows the chart until the user quits
// or an interrupt arrives. An interrupt is not an error, whichever phase it
// lands in. The serial port is closed before Run returns, whatever the outcome.
func (a *App) Run(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, a.signals...)
	defer signal.Stop(sigCh)

	if a.interrupted(ctx, sigCh, "startup") {
		return a.reportInterrupt()
	}
	a.logger.Info("Session starting", zap.Stringer("target", tempscope.SensorID))

	locator := tempscope.NewLocator(a.enumerator, a.stdout, a.logger)
	desc, err := locator.Locate(tempscope.SensorID)
	if a.interrupted(ctx, sigCh, "discovery") {
		return a.reportInterrupt()
	}
	if err != nil {
		a.logger.Error("Sensor discovery failed", zap.Error(err))
		return err
	}

	src := tempscope.NewSource(a.opener, a.logger)
	defer func() {
		if cerr := src.Close(); cerr != nil {
			a.logger.Warn("Serial port release failed", zap.Error(cerr))
		}
	}()

	err = src.Open(desc)
	if a.interrupted(ctx, sigCh, "open") {
		return a.reportInterrupt()
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Serial port %s opened successfully.\n", desc.Name)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	modelOpts := []models.Option{
		models.WithSnapshotDir(a.cfg.Snapshot.Dir),
		models.WithLogger(a.logger),
	}

	collector := metrics.New()
	if a.cfg.Metrics.Addr != "" {
		ln, err := metrics.Listen(a.cfg.Metrics.Addr)
		if err != nil {
			a.logger.Error("Metrics endpoint disabled", zap.Error(err))
			modelOpts = append(modelOpts, models.WithNotice("Metrics disabled: "+err.Error(), err))
		} else {
			go func() {
				if err := collector.Serve(ctx, ln, a.logger); err != nil {
					a.logger.Error("Metrics server stopped", zap.Error(err))
				}
			}()
		}
	}

	window := tempscope.NewWindow(tempscope.WindowCapacity)
	loop := tempscope.NewLoop(src, window, collector, a.logger)
	chart := components.NewChart(80, 24)
	if err := loop.Arm(chart); err != nil {
		return err
	}

	if a.interrupted(ctx, sigCh, "setup") {
		loop.Stop()
		return a.reportInterrupt()
	}

	model := models.NewPlotModel(loop, src, chart, modelOpts...)
	program := a.newProgram(model)

	go a.forwardSignals(ctx, program, sigCh)

	final, err := program.Run()
	loop.Stop()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if pm, ok := final.(*models.PlotModel); ok {
		if pm.Err() != nil {
			return pm.Err()
		}
		if pm.Interrupted() {
			return a.reportInterrupt()
		}
	}

	a.logger.Info("Session finished")
	return nil
}

// interrupted polls for a signal or cancellation that arrived while a
// blocking setup phase ran
func (a *App) interrupted(ctx context.Context, sigCh <-chan os.Signal, phase string) bool {
	select {
	case sig := <-sigCh:
		a.logger.Info("Interrupt received", zap.String("phase", phase), zap.Stringer("signal", sig))
		return true
	case <-ctx.Done():
		a.logger.Info("Session cancelled", zap.String("phase", phase), zap.Error(ctx.Err()))
		return true
	default:
		return false
	}
}

func (a *App) reportInterrupt() error {
	a.logger.Info("Session interrupted by user")
	fmt.Fprintln(a.stdout, "Program interrupted by user.")
	return nil
}

// forwardSignals turns SIGINT/SIGTERM into an InterruptMsg for the program
func (a *App) forwardSignals(ctx context.Context, program Program, sigCh <-chan os.Signal) {
	select {
	case sig := <-sigCh:
		program.Send(models.InterruptMsg{Signal: sig})
	case <-ctx.Done():
		// Parent cancellation ends the session like an interrupt; after Run
		// has returned the send is dropped
		program.Send(models.InterruptMsg{})
	}
}
