package rescache

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around logging stack.
// If Logger is nil in Options, logging is disabled.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// logTag prefixes every operational line.
const logTag = "[CachedResource]"

// safeLogger keeps a misbehaving logger from failing a cache operation.
type safeLogger struct{ l Logger }

func (s safeLogger) Debug(msg string, f Fields) {
	defer swallow()
	s.l.Debug(msg, f)
}

func (s safeLogger) Info(msg string, f Fields) {
	defer swallow()
	s.l.Info(msg, f)
}

func (s safeLogger) Warn(msg string, f Fields) {
	defer swallow()
	s.l.Warn(msg, f)
}

func (s safeLogger) Error(msg string, f Fields) {
	defer swallow()
	s.l.Error(msg, f)
}

func swallow() { _ = recover() }
