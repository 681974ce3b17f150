package interp

import "log"

// Diagnostics receives informational and quality-warning messages from the
// interpolation paths. Injecting the sink keeps the core free of global
// logging state and lets tests capture warnings.
type Diagnostics interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type logDiagnostics struct{}

func (logDiagnostics) Infof(format string, args ...any) { log.Printf(format, args...) }
func (logDiagnostics) Warnf(format string, args ...any) { log.Printf("warning: "+format, args...) }

// DefaultDiagnostics returns a sink backed by the standard logger.
func DefaultDiagnostics() Diagnostics { return logDiagnostics{} }

// NopDiagnostics discards all messages.
type NopDiagnostics struct{}

func (NopDiagnostics) Infof(string, ...any) {}
func (NopDiagnostics) Warnf(string, ...any) {}
