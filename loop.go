package tempscope

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// TickInterval is the fixed render cadence
const TickInterval = 100 * time.Millisecond

// LineSource is the read side of a Source as seen by the loop
type LineSource interface {
	HasPendingData() bool
	ReadLine() (string, error)
}

// Axes holds the static chart labels set when the loop is armed
type Axes struct {
	Title  string
	XLabel string
	YLabel string
}

// SensorAxes are the labels of the temperature chart
var SensorAxes = Axes{
	Title:  "Live Temperature Reading",
	XLabel: "sample index",
	YLabel: "temperature (°C)",
}

// Frame is the chart state pushed after every accepted sample
type Frame struct {
	Samples []Sample
	Average float64
	Last    Sample
	// Min and Max bound the window's values; the chart autoscales to them
	Min float64
	Max float64
}

// Surface is what the loop draws on
type Surface interface {
	Init(axes Axes)
	Update(frame Frame)
}

// Observer receives per-tick events, e.g. for metrics
type Observer interface {
	LineReceived(line string)
	SampleAccepted(s Sample, average float64)
	ParseFailed(line string)
	ReadFailed(err error)
}

// LoopState is the render loop lifecycle
type LoopState int

const (
	LoopIdle LoopState = iota
	LoopArmed
	LoopTicking
	LoopStopped
)

func (s LoopState) String() string {
	switch s {
	case LoopIdle:
		return "idle"
	case LoopArmed:
		return "armed"
	case LoopTicking:
		return "ticking"
	case LoopStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// TickOutcome classifies what a tick did
type TickOutcome int

const (
	TickIdle         TickOutcome = iota // no pending data
	TickNoLine                          // data pending but no full line before the timeout
	TickUpdated                         // sample appended and chart updated
	TickParseFailure                    // line rejected, nothing changed
	TickReadError                       // the read itself failed
	TickStopped                         // loop not running
)

// TickResult describes one tick
type TickResult struct {
	Outcome TickOutcome
	Line    string
	Sample  Sample
	Err     error
}

// Loop pulls at most one line per tick from the source into the window and
// pushes the result to the surface. It is driven by an external timer and
// must only be called from one goroutine.
type Loop struct {
	source   LineSource
	window   *Window
	surface  Surface
	observer Observer
	logger   *zap.Logger
	state    LoopState
}

// NewLoop creates an idle loop over source and window. observer may be nil.
func NewLoop(source LineSource, window *Window, observer Observer, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		source:   source,
		window:   window,
		observer: observer,
		logger:   logger,
	}
}

// State returns the loop state
func (l *Loop) State() LoopState {
	return l.state
}

// Arm initializes the surface axes. Only valid from Idle.
func (l *Loop) Arm(surface Surface) error {
	if l.state != LoopIdle {
		return fmt.Errorf("%w: arm while %s", ErrLoopState, l.state)
	}
	surface.Init(SensorAxes)
	l.surface = surface
	l.state = LoopArmed
	l.logger.Debug("Render loop armed", zap.Duration("interval", TickInterval))
	return nil
}

// Tick runs one update step
func (l *Loop) Tick() TickResult {
	switch l.state {
	case LoopArmed:
		l.state = LoopTicking
	case LoopTicking:
	default:
		return TickResult{Outcome: TickStopped}
	}

	if !l.source.HasPendingData() {
		return TickResult{Outcome: TickIdle}
	}

	line, err := l.source.ReadLine()
	if err != nil {
		if errors.Is(err, ErrReadTimeout) {
			return TickResult{Outcome: TickNoLine}
		}
		l.logger.Warn("Serial read failed", zap.Error(err))
		if l.observer != nil {
			l.observer.ReadFailed(err)
		}
		return TickResult{Outcome: TickReadError, Err: err}
	}

	l.logger.Debug("Received data", zap.String("line", line))
	if l.observer != nil {
		l.observer.LineReceived(line)
	}

	value, err := ParseSample(line)
	if err != nil {
		l.logger.Warn("Error parsing data", zap.String("line", line), zap.Error(err))
		if l.observer != nil {
			l.observer.ParseFailed(line)
		}
		return TickResult{Outcome: TickParseFailure, Line: line, Err: err}
	}

	sample := l.window.Append(value)
	frame := l.frame()
	l.surface.Update(frame)
	if l.observer != nil {
		l.observer.SampleAccepted(sample, frame.Average)
	}
	return TickResult{Outcome: TickUpdated, Line: line, Sample: sample}
}

func (l *Loop) frame() Frame {
	last, _ := l.window.Last()
	min, max, _ := l.window.Range()
	return Frame{
		Samples: l.window.Snapshot(),
		Average: l.window.Average(),
		Last:    last,
		Min:     min,
		Max:     max,
	}
}

// Stop ends the loop; later ticks do nothing
func (l *Loop) Stop() {
	if l.state == LoopStopped {
		return
	}
	l.state = LoopStopped
	l.logger.Debug("Render loop stopped")
}
