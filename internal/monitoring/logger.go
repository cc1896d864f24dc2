package monitoring

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Debugf forwards to Logf only when enabled is true. Detection passes call it
// with their Config.Debug flag so per-pass summaries stay quiet by default.
func Debugf(enabled bool, format string, v ...interface{}) {
	if !enabled {
		return
	}
	Logf(format, v...)
}
