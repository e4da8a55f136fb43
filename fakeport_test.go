package tempscope

import (
	"errors"
	"sync"
)

// fakePort replays queued chunks; each Read returns one chunk, an empty
// queue behaves like an expired VTIME. With trickle set the queue is hidden
// from InputWaiting, as if every chunk arrived during a blocking Read.
type fakePort struct {
	mu      sync.Mutex
	chunks  [][]byte
	readErr error
	inqErr  error
	trickle bool
	closed  bool
	closes  int
	reads   int
}

var _ Port = (*fakePort)(nil)

func newFakePort(chunks ...string) *fakePort {
	p := &fakePort{}
	for _, c := range chunks {
		p.chunks = append(p.chunks, []byte(c))
	}
	return p
}

func (p *fakePort) push(chunk string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.chunks = append(p.chunks, []byte(chunk))
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closes++
	if p.closed {
		return ErrPortClosed
	}
	p.closed = true
	return nil
}

func (p *fakePort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reads++
	if p.closed {
		return 0, ErrPortClosed
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	if len(p.chunks) == 0 {
		return 0, nil
	}
	n := copy(buf, p.chunks[0])
	if n < len(p.chunks[0]) {
		p.chunks[0] = p.chunks[0][n:]
	} else {
		p.chunks = p.chunks[1:]
	}
	return n, nil
}

func (p *fakePort) InputWaiting() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inqErr != nil {
		return 0, p.inqErr
	}
	if p.trickle {
		return 0, nil
	}
	n := 0
	for _, c := range p.chunks {
		n += len(c)
	}
	return n, nil
}

// openerFor returns a PortOpener that hands out p, or fails with err
func openerFor(p Port, err error) PortOpener {
	return func(device string, opts ...Option) (Port, error) {
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

var errBusy = errors.New("device or resource busy")
