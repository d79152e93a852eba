package log

import "sync"

// Record is a captured log record.
type Record struct {
	Level  Level
	Msg    string
	Fields []any
}

// TestLoggerProvider captures log records in memory for assertions.
type TestLoggerProvider struct {
	mu      sync.Mutex
	level   Level
	Records []Record
}

// NewTestLoggerProvider creates a capturing provider.
func NewTestLoggerProvider() *TestLoggerProvider {
	return &TestLoggerProvider{level: LevelDebug}
}

// GetLogger implements LoggerProvider.
func (p *TestLoggerProvider) GetLogger() Logger {
	return &testLogger{provider: p}
}

// GetLoggerWithName implements LoggerProvider.
func (p *TestLoggerProvider) GetLoggerWithName(name string) Logger {
	return &testLogger{provider: p, fields: []any{ComponentKey, name}}
}

// SetLevel implements LoggerProvider.
func (p *TestLoggerProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.level = level
}

// Captured returns a snapshot of the captured records.
func (p *TestLoggerProvider) Captured() []Record {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Record, len(p.Records))
	copy(out, p.Records)
	return out
}

func (p *TestLoggerProvider) record(level Level, msg string, fields []any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if level < p.level {
		return
	}
	p.Records = append(p.Records, Record{Level: level, Msg: msg, Fields: fields})
}

type testLogger struct {
	provider *TestLoggerProvider
	fields   []any
}

func (l *testLogger) merged(fields []any) []any {
	out := make([]any, 0, len(l.fields)+len(fields))
	out = append(out, l.fields...)
	return append(out, fields...)
}

func (l *testLogger) Debug(msg string, fields ...any) {
	l.provider.record(LevelDebug, msg, l.merged(fields))
}

func (l *testLogger) Info(msg string, fields ...any) {
	l.provider.record(LevelInfo, msg, l.merged(fields))
}

func (l *testLogger) Warn(msg string, fields ...any) {
	l.provider.record(LevelWarn, msg, l.merged(fields))
}

func (l *testLogger) Error(msg string, fields ...any) {
	l.provider.record(LevelError, msg, l.merged(fields))
}

func (l *testLogger) With(fields ...any) Logger {
	return &testLogger{provider: l.provider, fields: l.merged(fields)}
}
