// Package log provides structured logging for Aqua-ML training and
// inference operations.
//
// The package defines a minimal, slog-style logging interface so the backend
// can be swapped (zerolog in production, a capturing logger in tests) while
// call sites stay stable. Standard attribute keys for ML operations live in
// attributes.go.
//
// Example:
//
//	logger := log.GetLoggerWithName("evaluation.harness")
//	logger.Info("cross-validation finished",
//	    log.OperationKey, "cross_validate",
//	    log.SamplesKey, 412,
//	)
package log

// Logger is a structured logger with slog-style variadic key-value fields.
//
// Implementations must treat fields as alternating key (string) and value
// pairs. An error value passed under the "error" key gets stack trace
// extraction when the backend supports it.
type Logger interface {
	// Debug logs detailed diagnostic information.
	Debug(msg string, fields ...any)

	// Info logs general operational information.
	Info(msg string, fields ...any)

	// Warn logs potentially problematic situations that do not stop the
	// operation.
	Warn(msg string, fields ...any)

	// Error logs error conditions. If a field value is an error carrying a
	// cockroachdb/errors stack trace, the trace is attached under the
	// "stacktrace" attribute.
	Error(msg string, fields ...any)

	// With returns a logger with the given fields pre-populated on every
	// subsequent log record.
	With(fields ...any) Logger
}

// Level is the minimum severity a provider emits.
type Level int

// Log levels, ordered by increasing severity.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ToLogLevel converts a level name ("debug", "info", "warn", "error") to a
// Level. Unknown names map to LevelInfo.
func ToLogLevel(level string) Level {
	switch level {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// LoggerProvider creates and configures loggers. Providers enable dependency
// injection and test capture.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger tagged with a component name.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers from this provider.
	SetLevel(level Level)
}
