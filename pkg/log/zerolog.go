package log

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ErrAttrKey is the field key under which errors receive special handling.
const ErrAttrKey = "error"

// StacktraceAttrKey is the field key for extracted stack traces.
const StacktraceAttrKey = "stacktrace"

// ZerologProvider is a LoggerProvider backed by zerolog.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON records to stderr.
func NewZerologProvider(level Level) *ZerologProvider {
	return NewZerologProviderTo(os.Stderr, level)
}

// NewZerologProviderTo creates a provider writing to w. Used by tests to
// capture output.
func NewZerologProviderTo(w io.Writer, level Level) *ZerologProvider {
	base := zerolog.New(w).Level(toZerologLevel(level)).With().Timestamp().Logger()
	return &ZerologProvider{base: base}
}

// GetLogger returns the default logger instance.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{logger: p.base}
}

// GetLoggerWithName returns a logger tagged with a component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("component", name).Logger()}
}

// SetLevel sets the minimum log level for loggers from this provider.
func (p *ZerologProvider) SetLevel(level Level) {
	p.base = p.base.Level(toZerologLevel(level))
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...any) {
	l.emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func (l *zerologLogger) emit(event *zerolog.Event, msg string, fields []any) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, isErr := fields[i+1].(error); isErr {
			event = event.AnErr(key, err)
			if trace := extractStacktrace(err); trace != "" {
				event = event.Str(StacktraceAttrKey, trace)
			}
			continue
		}
		event = event.Interface(key, fields[i+1])
	}
	event.Msg(msg)
}

// extractStacktrace pulls the first safe detail (the stack trace) recorded
// by cockroachdb/errors.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
