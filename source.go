package tempscope

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ConnectionState is the lifecycle of a Source connection
type ConnectionState int

const (
	StateUnopened ConnectionState = iota
	StateOpen
	StateClosed
)

func (s ConnectionState) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// maxPendingBytes bounds the partial-line buffer when the device never sends a newline
const maxPendingBytes = 4096

// Source owns the serial connection to the sensor and splits its byte stream into lines
type Source struct {
	open    PortOpener
	opts    []Option
	timeout time.Duration
	logger  *zap.Logger

	port    Port
	name    string
	state   ConnectionState
	pending []byte
	buf     []byte
}

// NewSource creates an unopened source. A nil opener uses Open.
func NewSource(opener PortOpener, logger *zap.Logger, opts ...Option) *Source {
	if opener == nil {
		opener = Open
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		// Invalid options surface again from Open
		_ = opt(&cfg)
	}

	return &Source{
		open:    opener,
		opts:    opts,
		timeout: cfg.ReadTimeout,
		logger:  logger,
		buf:     make([]byte, 256),
	}
}

// Open connects to the described port. Any failure wraps ErrPortOpenFailure.
func (s *Source) Open(desc PortDescriptor) error {
	switch s.state {
	case StateOpen:
		return nil
	case StateClosed:
		return fmt.Errorf("%w: %w", ErrPortOpenFailure, ErrPortClosed)
	}

	p, err := s.open(desc.Name, s.opts...)
	if err != nil {
		s.logger.Error("Failed to open serial port", zap.String("port", desc.Name), zap.Error(err))
		return fmt.Errorf("%w %s: %w", ErrPortOpenFailure, desc.Name, err)
	}

	s.port = p
	s.name = desc.Name
	s.state = StateOpen
	s.logger.Info("Serial port opened", zap.String("port", desc.Name), zap.Duration("read_timeout", s.timeout))
	return nil
}

// State returns the connection state
func (s *Source) State() ConnectionState {
	return s.state
}

// Name returns the device path once opened
func (s *Source) Name() string {
	return s.name
}

// HasPendingData reports, without blocking, whether a read could make
// progress: either a complete line is already buffered or the kernel has
// received bytes.
func (s *Source) HasPendingData() bool {
	if s.state != StateOpen {
		return false
	}
	if bytes.IndexByte(s.pending, '\n') >= 0 {
		return true
	}

	n, err := s.port.InputWaiting()
	if err != nil {
		s.logger.Debug("Input queue check failed", zap.String("port", s.name), zap.Error(err))
		return false
	}
	return n > 0
}

// ReadLine returns the next line with surrounding whitespace removed.
// It blocks for at most one read timeout; when no full line arrived in
// that time it returns ErrReadTimeout and keeps the partial bytes for the
// next call.
func (s *Source) ReadLine() (string, error) {
	if s.state != StateOpen {
		return "", ErrPortClosed
	}

	deadline := time.Now().Add(s.timeout)
	waited := false
	for {
		if line, ok := s.takeLine(); ok {
			return line, nil
		}
		if !time.Now().Before(deadline) {
			return "", ErrReadTimeout
		}
		// Each Read may block for a whole VTIME, so only the first one waits.
		// Later reads just drain bytes the kernel already holds.
		if waited {
			if queued, err := s.port.InputWaiting(); err != nil || queued == 0 {
				return "", ErrReadTimeout
			}
		}

		n, err := s.port.Read(s.buf)
		waited = true
		if err != nil {
			return "", fmt.Errorf("read %s: %w", s.name, err)
		}
		if n == 0 {
			// VTIME elapsed with nothing received
			return "", ErrReadTimeout
		}

		s.pending = append(s.pending, s.buf[:n]...)
		if len(s.pending) > maxPendingBytes && bytes.IndexByte(s.pending, '\n') < 0 {
			s.logger.Warn("Discarding oversized partial line", zap.Int("bytes", len(s.pending)))
			s.pending = s.pending[:0]
		}
	}
}

// takeLine pops one '\n'-terminated line from the pending buffer
func (s *Source) takeLine() (string, bool) {
	i := bytes.IndexByte(s.pending, '\n')
	if i < 0 {
		return "", false
	}

	raw := string(s.pending[:i])
	rest := copy(s.pending, s.pending[i+1:])
	s.pending = s.pending[:rest]

	return strings.TrimSpace(strings.ToValidUTF8(raw, "�")), true
}

// Close releases the port. Closing an unopened or already closed source is a no-op.
func (s *Source) Close() error {
	if s.state != StateOpen {
		s.state = StateClosed
		return nil
	}

	s.state = StateClosed
	s.pending = nil
	err := s.port.Close()
	s.port = nil
	if err != nil {
		s.logger.Warn("Error closing serial port", zap.String("port", s.name), zap.Error(err))
		return fmt.Errorf("close %s: %w", s.name, err)
	}
	s.logger.Info("Serial port closed", zap.String("port", s.name))
	return nil
}
