package logger

import "sync/atomic"

var defLogger atomic.Value

func init() {
	defLogger.Store(loggerHolder{NewSlog(InfoLevel, false)})
}

type loggerHolder struct{ Logger }

func current() Logger {
	return defLogger.Load().(loggerHolder).Logger
}

func Debug(msg string, keysAndValues ...any) {
	current().Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	current().Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	current().Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	current().Error(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	current().Fatal(msg, keysAndValues...)
}

func SetLevel(level Level) {
	current().SetLevel(level)
}

// SetLogger replaces the package default logger.
func SetLogger(l Logger) {
	if l != nil {
		defLogger.Store(loggerHolder{l})
	}
}

func GetLogger() Logger {
	return current()
}

func With(keyValues ...any) Logger {
	return current().With(keyValues...)
}
