// Package logger is the structured logging facade used by printlink.
//
// Sessions, the reconnect supervisor and the CLI log through the Logger
// interface so that callers can plug in their own backend. The default
// backend is log/slog.
package logger

// Level indicates the logging severity level.
type Level = int8

const (
	// DebugLevel logs every line exchanged with the printer.
	DebugLevel Level = iota - 1
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs failed connection attempts and timeouts.
	WarnLevel
	// ErrorLevel logs faults that need operator attention.
	ErrorLevel
	// FatalLevel logs a message, then calls os.Exit(1).
	FatalLevel
)

// Logger defines a common interface for logging.
type Logger interface {
	// Debug logs a message at DebugLevel.
	Debug(msg string, keysAndValues ...any)
	// Info logs a message at InfoLevel.
	Info(msg string, keysAndValues ...any)
	// Warn logs a message at WarnLevel.
	Warn(msg string, keysAndValues ...any)
	// Error logs a message at ErrorLevel.
	Error(msg string, keysAndValues ...any)
	// Fatal logs a message at FatalLevel and then calls os.Exit(1).
	Fatal(msg string, keysAndValues ...any)
	// With creates a child logger carrying the given key-values.
	With(keyValues ...any) Logger
	// Level returns the minimum enabled level for this logger.
	Level() Level
	// SetLevel sets the minimum enabled level for this logger.
	SetLevel(level Level)
}

// ParseLevel maps a level name such as "debug" or "WARN" to a Level.
func ParseLevel(name string) (Level, bool) {
	switch name {
	case "debug", "DEBUG":
		return DebugLevel, true
	case "info", "INFO", "":
		return InfoLevel, true
	case "warn", "WARN", "warning":
		return WarnLevel, true
	case "error", "ERROR":
		return ErrorLevel, true
	case "fatal", "FATAL":
		return FatalLevel, true
	default:
		return InfoLevel, false
	}
}
