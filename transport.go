package printlink

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Transport is a byte channel to one printer.
type Transport interface {
	// Write sends the whole buffer or fails.
	Write(p []byte) error
	// ReadChunk reads whatever arrived within the read timeout. Zero bytes
	// with a nil error means nothing arrived; it is not end of stream.
	ReadChunk(buf []byte) (int, error)
	// Close releases the port. Closing twice is not an error.
	Close() error
}

// Mode carries the line settings a Transport is opened with.
type Mode struct {
	BaudRate    int
	ReadTimeout time.Duration
}

// Opener opens a Transport to the named port.
type Opener func(name string, mode Mode) (Transport, error)

// serialTransport is the Transport over a host serial port
type serialTransport struct {
	mu     sync.Mutex
	name   string
	port   io.ReadWriteCloser
	closed bool
}

// Ensure serialTransport implements Transport at compile time
var _ Transport = (*serialTransport)(nil)

// OpenSerial opens name as 8N1 at mode.BaudRate with mode.ReadTimeout as the
// per-read timeout.
func OpenSerial(name string, mode Mode) (Transport, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}

	if err := port.SetReadTimeout(mode.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	return &serialTransport{name: name, port: port}, nil
}

func (t *serialTransport) Write(p []byte) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return ErrPortClosed
	}
	return writeFull(t.port, p)
}

func (t *serialTransport) ReadChunk(buf []byte) (int, error) {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return 0, ErrPortClosed
	}

	return t.port.Read(buf)
}

func (t *serialTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.port.Close()
}

// writeFull writes p to w until every byte is accepted. A write that makes
// no progress fails with io.ErrShortWrite.
func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}

// openTransport runs opener under timeout and ctx. A port that finishes
// opening after the caller gave up is closed.
func openTransport(ctx context.Context, opener Opener, name string, mode Mode, timeout time.Duration) (Transport, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	type openResult struct {
		t   Transport
		err error
	}
	resultCh := make(chan openResult, 1)

	go func() {
		t, err := opener(name, mode)
		resultCh <- openResult{t: t, err: err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	abandon := func() {
		go func() {
			if r := <-resultCh; r.err == nil && r.t != nil {
				_ = r.t.Close()
			}
		}()
	}

	select {
	case result := <-resultCh:
		return result.t, result.err
	case <-timer.C:
		abandon()
		return nil, fmt.Errorf("%w: open did not complete within %v", ErrTimeout, timeout)
	case <-ctx.Done():
		abandon()
		return nil, ctx.Err()
	}
}
