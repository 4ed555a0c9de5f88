package printlink

// State represents the lifecycle stage of a printer session.
type State uint32

const (
	// StateDisconnected is the initial state and the state after Stop.
	StateDisconnected State = iota
	// StateConnecting indicates discovery and open are in progress.
	StateConnecting
	// StateReady indicates the transport is open and no command is in flight.
	StateReady
	// StatePrinting indicates a command has been written and its
	// acknowledgment is awaited.
	StatePrinting
	// StatePaused is reserved for job control layered on top of a session.
	StatePaused
	// StateError indicates the last connect or I/O attempt failed and the
	// transport is closed.
	StateError
)

// String returns string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateReady:
		return "ready"
	case StatePrinting:
		return "printing"
	case StatePaused:
		return "paused"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// HasTransport reports whether the state implies an open transport.
func (s State) HasTransport() bool {
	return s == StateReady || s == StatePrinting || s == StatePaused
}

// StateChangeHandler is invoked after every state transition, outside the
// session lock and in the goroutine that caused the transition.
//
// Note: the handler runs in blocking mode. Take care with long-running
// implementations.
type StateChangeHandler func(prevState State, newState State)

// LineHandler receives every line read from the printer, including its
// trailing newline when one was received.
type LineHandler func(line string)
