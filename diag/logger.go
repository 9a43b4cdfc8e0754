// Package diag defines the injectable logging surface of the module,
// instead of printing to stdout the way the teacher's CLI driver did.
// host.Engine carries one in its Logger field; the compiler, the
// collector and the VM do not write to it. A host that doesn't supply
// a Logger gets NopLogger, silently.
package diag

import "log"

// Logger receives developer-facing detail at three levels. Nothing in
// this module ever blocks or fails because of a logging call.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// NopLogger discards everything. It's the default a host.Engine uses
// until its Logger field is set.
type NopLogger struct{}

func (NopLogger) Debugf(format string, args ...any) {}
func (NopLogger) Infof(format string, args ...any)  {}
func (NopLogger) Warnf(format string, args ...any)  {}

// Default is the package-level NopLogger instance, handed out so
// callers don't need to allocate one.
var Default Logger = NopLogger{}

// PrintfLogger adapts any printf-shaped function (log.Printf, a
// testing.T.Logf, a slog wrapper) into a Logger, prefixing each line
// with its level.
type PrintfLogger struct {
	Printf func(format string, args ...any)
}

func (l PrintfLogger) Debugf(format string, args ...any) {
	l.Printf("DEBUG "+format, args...)
}
func (l PrintfLogger) Infof(format string, args ...any) {
	l.Printf("INFO "+format, args...)
}
func (l PrintfLogger) Warnf(format string, args ...any) {
	l.Printf("WARN "+format, args...)
}

var _ Logger = PrintfLogger{Printf: log.Printf}
