package serialmux

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"time"
)

var errPortClosed = errors.New("serial port closed")

// MockPort implements TimeoutSerialPorter for tests and offline replays.
// Reads drain the queued console text; once the input is drained, Read
// blocks until more lines arrive, EndInput is called, or the port is closed.
type MockPort struct {
	mu   sync.Mutex
	cond *sync.Cond

	input   bytes.Buffer
	written bytes.Buffer
	ended   bool
	closed  bool

	// WriteError is returned by the next Write call if set.
	WriteError error
	// ShortWrite makes Write report one byte fewer than requested.
	ShortWrite bool
	// ReadTimeout records the last value passed to SetReadTimeout.
	ReadTimeout time.Duration
}

// NewMockPort returns a port whose console has already printed lines.
func NewMockPort(lines ...string) *MockPort {
	p := &MockPort{}
	p.cond = sync.NewCond(&p.mu)
	p.AddLines(lines...)
	return p
}

// AddLines queues newline-terminated console lines.
func (p *MockPort) AddLines(lines ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, l := range lines {
		p.input.WriteString(strings.TrimRight(l, "\n") + "\n")
	}
	p.cond.Broadcast()
}

// EndInput makes Read return io.EOF once the queued lines are drained.
func (p *MockPort) EndInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ended = true
	p.cond.Broadcast()
}

func (p *MockPort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.input.Len() == 0 && !p.ended && !p.closed {
		p.cond.Wait()
	}
	if p.closed {
		return 0, errPortClosed
	}
	if p.input.Len() == 0 {
		return 0, io.EOF
	}
	return p.input.Read(b)
}

func (p *MockPort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, errPortClosed
	}
	if err := p.WriteError; err != nil {
		p.WriteError = nil
		return 0, err
	}
	if p.ShortWrite && len(b) > 0 {
		b = b[:len(b)-1]
	}
	return p.written.Write(b)
}

func (p *MockPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.cond.Broadcast()
	return nil
}

// SetReadTimeout implements TimeoutSerialPorter.
func (p *MockPort) SetReadTimeout(timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ReadTimeout = timeout
	return nil
}

// Written returns everything written to the port so far.
func (p *MockPort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written.String()
}

// Closed reports whether Close has been called.
func (p *MockPort) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// NewMockSerialMux returns a SerialMux whose console prints lines and then
// reaches EOF.
func NewMockSerialMux(lines ...string) (*SerialMux[*MockPort], *MockPort) {
	port := NewMockPort(lines...)
	port.EndInput()
	return NewSerialMux(port), port
}
