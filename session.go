package printlink

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/allbin/go-printlink/logger"
)

// Adapter is the capability set of a printer connection. SerialSession is
// the serial implementation; other transports implement the same set.
type Adapter interface {
	// Configure sets the port the next Start connects to. No I/O.
	Configure(port string)
	// Start discovers ports and opens the configured one. It is a no-op
	// when already connected.
	Start(ctx context.Context) error
	// SendCommand writes one command and waits for its acknowledgment.
	SendCommand(ctx context.Context, cmd string) error
	// IsConnected reports whether a transport is open.
	IsConnected() bool
	// Status returns the current state.
	Status() State
	// Stop closes the transport. It never fails.
	Stop() error
}

const (
	opStart = "start"
	opSend  = "send"
)

var errStoppedWhileConnecting = errors.New("session stopped while connecting")

// SerialSession drives the request/acknowledge protocol of one printer over
// a serial transport. Only one command is outstanding at a time; concurrent
// SendCommand callers are served in turn.
type SerialSession struct {
	cfg     Config
	log     logger.Logger
	markers []string
	metrics SessionMetrics

	startMu sync.Mutex // serializes Start

	// cmdMu serializes commands and owns the framer and read buffer.
	cmdMu     sync.Mutex
	framer    *LineFramer
	framerGen uint64
	readBuf   []byte

	mu            sync.Mutex // guards the fields below, never held across I/O
	running       bool
	target        string
	transport     Transport
	state         State
	gen           uint64 // bumped whenever the transport is replaced or dropped
	stateHandlers []StateChangeHandler
	lineHandlers  []LineHandler
}

// Ensure SerialSession implements Adapter at compile time
var _ Adapter = (*SerialSession)(nil)

// NewSession creates a disconnected session with no configured port.
func NewSession(opts ...Option) (*SerialSession, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	markers := make([]string, 0, len(cfg.ErrorMarkers))
	for _, m := range cfg.ErrorMarkers {
		markers = append(markers, strings.ToLower(m))
	}

	return &SerialSession{
		cfg:     cfg,
		log:     cfg.Logger.With("component", "session"),
		markers: markers,
		framer:  NewLineFramer(cfg.MaxLineLength),
		readBuf: make([]byte, cfg.ReadBufferSize),
		state:   StateDisconnected,
	}, nil
}

// Configure sets the port the next Start connects to.
func (s *SerialSession) Configure(port string) {
	port = strings.TrimSpace(port)

	s.mu.Lock()
	s.target = port
	s.mu.Unlock()

	s.log.Info("printer configured", "port", port)
}

// Target returns the configured port.
func (s *SerialSession) Target() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

// Metrics returns the session counters.
func (s *SerialSession) Metrics() *SessionMetrics {
	return &s.metrics
}

// AddStateHandler registers handlers invoked after every state transition.
func (s *SerialSession) AddStateHandler(handlers ...StateChangeHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stateHandlers = append(s.stateHandlers, handlers...)
}

// AddLineHandler registers handlers receiving every line read from the printer.
func (s *SerialSession) AddLineHandler(handlers ...LineHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineHandlers = append(s.lineHandlers, handlers...)
}

// IsConnected reports whether a transport is open.
func (s *SerialSession) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running && s.transport != nil
}

// Status returns the current state.
func (s *SerialSession) Status() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start connects to the configured port. Discovery runs first and its
// result is only logged: a configured port missing from the USB candidates
// is still opened, since it may be a symlink or a non-USB device.
func (s *SerialSession) Start(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.mu.Lock()
	if s.running && s.transport != nil {
		s.mu.Unlock()
		return nil
	}
	target := s.target
	if target == "" {
		s.mu.Unlock()
		return newError(opStart, "", ErrNoPrinterConfigured, nil)
	}
	gen := s.gen
	prev := s.setStateLocked(StateConnecting)
	s.mu.Unlock()
	s.notifyState(prev, StateConnecting)

	if err := s.discover(target); err != nil {
		s.connectFailed(gen)
		return newError(opStart, target, ErrDiscoveryFailed, err)
	}

	tr, err := openTransport(ctx, s.cfg.Opener, target, s.cfg.mode(), s.cfg.OpenTimeout)
	if err != nil {
		s.connectFailed(gen)
		return newError(opStart, target, ErrOpenFailed, err)
	}

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		_ = tr.Close()
		return newError(opStart, target, ErrOpenFailed, errStoppedWhileConnecting)
	}
	s.transport = tr
	s.running = true
	s.gen++
	prev = s.setStateLocked(StateReady)
	s.mu.Unlock()

	s.metrics.incConnectCount()
	s.log.Info("printer connected", "port", target, "baud", s.cfg.BaudRate)
	s.notifyState(prev, StateReady)

	return nil
}

func (s *SerialSession) discover(target string) error {
	ports, err := s.cfg.Discover()
	if err != nil {
		return err
	}

	if len(ports) == 0 {
		s.log.Warn("no USB serial ports found", "port", target)
		return nil
	}

	s.log.Info("found USB serial ports", "count", len(ports))
	for _, p := range ports {
		s.log.Debug("candidate port", "name", p.Name, "vid", p.VendorID, "pid", p.ProductID, "serial", p.SerialNumber)
	}
	if _, ok := findPort(ports, target); !ok {
		s.log.Warn("configured port is not a USB candidate", "port", target)
	}
	return nil
}

func (s *SerialSession) connectFailed(gen uint64) {
	s.metrics.incConnectErrCount()

	s.mu.Lock()
	if s.gen != gen {
		// Stop already settled the state
		s.mu.Unlock()
		return
	}
	s.running = false
	prev := s.setStateLocked(StateError)
	s.mu.Unlock()

	s.notifyState(prev, StateError)
}

// SendCommand writes cmd followed by a newline and waits until the printer
// acknowledges it, reports a fault, or CommandTimeout elapses.
//
// A timeout or device fault leaves the session ready for the next command.
// A write or read failure closes the transport and leaves the session in
// StateError so a supervisor reconnects it.
func (s *SerialSession) SendCommand(ctx context.Context, cmd string) error {
	line := strings.TrimRight(cmd, "\r\n")
	if line == "" || strings.ContainsAny(line, "\r\n") {
		return newError(opSend, s.Target(), ErrInvalidCommand, fmt.Errorf("%q", cmd))
	}

	s.cmdMu.Lock()
	defer s.cmdMu.Unlock()

	s.mu.Lock()
	tr, gen, target := s.transport, s.gen, s.target
	if tr == nil {
		s.mu.Unlock()
		return newError(opSend, target, ErrNoTransport, nil)
	}
	if s.state != StateReady {
		state := s.state
		s.mu.Unlock()
		return newError(opSend, target, ErrNotReady, fmt.Errorf("session is %s", state))
	}
	prev := s.setStateLocked(StatePrinting)
	s.mu.Unlock()
	s.notifyState(prev, StatePrinting)

	if s.framerGen != gen {
		s.framer.Reset()
		s.framerGen = gen
	}

	s.log.Debug("tx", "port", target, "command", line)
	if err := tr.Write([]byte(line + "\n")); err != nil {
		return s.finishCommand(gen, target, newError(opSend, target, ErrWriteFailed, err))
	}
	s.metrics.incCommandSendCount()

	return s.finishCommand(gen, target, s.awaitAck(ctx, tr, target))
}

// awaitAck reads until a decisive line arrives. The deadline is checked
// before each read, so the wait ends at most one read timeout past it.
func (s *SerialSession) awaitAck(ctx context.Context, tr Transport, target string) error {
	deadline := time.Now().Add(s.cfg.CommandTimeout)

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s %s: %w", opSend, target, err)
		}
		if !time.Now().Before(deadline) {
			s.metrics.incCommandTimeoutCount()
			s.log.Warn("command not acknowledged", "port", target, "timeout", s.cfg.CommandTimeout)
			return newError(opSend, target, ErrTimeout, nil)
		}

		n, err := tr.ReadChunk(s.readBuf)
		if err != nil {
			return newError(opSend, target, ErrReadFailed, err)
		}
		if n == 0 {
			continue
		}

		if done, err := s.scanLines(target, s.framer.Feed(s.readBuf[:n])); done {
			return err
		}
	}
}

type lineVerdict int

const (
	lineInfo lineVerdict = iota
	lineReady
	lineFault
)

// classify checks error markers before the ready marker, so a line carrying
// both counts as a fault.
func (s *SerialSession) classify(line string) lineVerdict {
	lower := strings.ToLower(line)
	for _, m := range s.markers {
		if strings.Contains(lower, m) {
			return lineFault
		}
	}
	if strings.Contains(line, s.cfg.ReadyMarker) {
		return lineReady
	}
	return lineInfo
}

// scanLines hands every line to the line handlers and returns the verdict of
// the first decisive one.
func (s *SerialSession) scanLines(target string, lines []string) (bool, error) {
	var (
		done   bool
		result error
	)
	for _, line := range lines {
		s.metrics.incLineRecvCount()
		text := strings.TrimRight(line, "\r\n")
		s.log.Debug("rx", "port", target, "line", text)
		s.emitLine(line)

		if done {
			continue
		}
		switch s.classify(line) {
		case lineFault:
			done = true
			result = newError(opSend, target, ErrDeviceFault, errors.New(strings.TrimSpace(text)))
			s.metrics.incDeviceFaultCount()
			s.log.Warn("printer reported error", "port", target, "line", text)
		case lineReady:
			done = true
			s.metrics.incCommandAckCount()
		}
	}
	return done, result
}

func (s *SerialSession) finishCommand(gen uint64, target string, err error) error {
	lost := errors.Is(err, ErrWriteFailed) || errors.Is(err, ErrReadFailed)

	s.mu.Lock()
	if s.gen != gen || s.transport == nil {
		// Stop or a reconnect replaced the transport during the wait
		s.mu.Unlock()
		if err != nil {
			return newError(opSend, target, ErrNoTransport, err)
		}
		return nil
	}

	if !lost {
		prev := s.setStateLocked(StateReady)
		s.mu.Unlock()
		s.notifyState(prev, StateReady)
		return err
	}

	tr := s.transport
	s.transport = nil
	s.running = false
	s.gen++
	prev := s.setStateLocked(StateError)
	s.mu.Unlock()

	s.metrics.incIOErrCount()
	s.log.Error("printer connection lost", "port", target, "error", err)
	_ = tr.Close()
	s.notifyState(prev, StateError)

	return err
}

// Stop closes the transport if one is open and returns the session to
// StateDisconnected. A command waiting for its acknowledgment fails.
func (s *SerialSession) Stop() error {
	s.mu.Lock()
	tr := s.transport
	target := s.target
	s.transport = nil
	s.running = false
	s.gen++
	prev := s.setStateLocked(StateDisconnected)
	s.mu.Unlock()

	if tr != nil {
		if err := tr.Close(); err != nil {
			s.log.Warn("failed to close printer port", "port", target, "error", err)
		}
		s.log.Info("printer disconnected", "port", target)
	}
	s.notifyState(prev, StateDisconnected)

	return nil
}

// setStateLocked must be called with mu held. It returns the previous state.
func (s *SerialSession) setStateLocked(next State) State {
	prev := s.state
	s.state = next
	return prev
}

func (s *SerialSession) notifyState(prev, next State) {
	if prev == next {
		return
	}

	s.mu.Lock()
	handlers := s.stateHandlers
	s.mu.Unlock()

	s.log.Debug("state changed", "from", prev, "to", next)
	for _, h := range handlers {
		h(prev, next)
	}
}

func (s *SerialSession) emitLine(line string) {
	s.mu.Lock()
	handlers := s.lineHandlers
	s.mu.Unlock()

	for _, h := range handlers {
		h(line)
	}
}
