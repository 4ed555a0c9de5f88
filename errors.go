package printlink

import "errors"

// Predefined error kinds. Every failure returned by a session carries one of
// these so callers can branch with errors.Is.
var (
	ErrOpenFailed          = errors.New("failed to open printer port")
	ErrWriteFailed         = errors.New("failed to write to printer")
	ErrReadFailed          = errors.New("failed to read from printer")
	ErrTimeout             = errors.New("timed out waiting for printer")
	ErrNoTransport         = errors.New("printer is not connected")
	ErrNoPrinterConfigured = errors.New("no printer port configured")
	ErrDiscoveryFailed     = errors.New("serial port discovery failed")

	ErrDeviceFault    = errors.New("printer reported an error")
	ErrNotReady       = errors.New("printer session is not ready")
	ErrInvalidCommand = errors.New("invalid printer command")

	ErrDeviceNotFound  = errors.New("serial device not found")
	ErrPortClosed      = errors.New("serial port is closed")
	ErrInvalidBaudRate = errors.New("invalid baud rate")
	ErrInvalidConfig   = errors.New("invalid printer configuration")

	// USB-related errors
	ErrPermissionDenied     = errors.New("permission denied accessing USB device")
	ErrUSBInfoNotAvailable  = errors.New("USB device information not available")
	ErrUSBResetNotAvailable = errors.New("USB reset not available on this platform")
)

// AdapterError describes a failed session operation.
type AdapterError struct {
	Op   string // operation, e.g. "start" or "send"
	Port string // configured target, may be empty
	Kind error  // one of the Err* kinds above
	Err  error  // underlying cause, may be nil
}

func newError(op, port string, kind, err error) *AdapterError {
	return &AdapterError{Op: op, Port: port, Kind: kind, Err: err}
}

func (e *AdapterError) Error() string {
	msg := e.Op
	if e.Port != "" {
		msg += " " + e.Port
	}
	switch {
	case e.Err == nil:
		msg += ": " + e.Kind.Error()
	case errors.Is(e.Err, e.Kind):
		msg += ": " + e.Err.Error()
	default:
		msg += ": " + e.Kind.Error() + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *AdapterError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsTimeout reports whether err is an acknowledgment or open timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsConnectionLost reports whether err means the transport went away and the
// session must be restarted before further commands.
func IsConnectionLost(err error) bool {
	return errors.Is(err, ErrWriteFailed) ||
		errors.Is(err, ErrReadFailed) ||
		errors.Is(err, ErrNoTransport)
}
