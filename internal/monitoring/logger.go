// Package monitoring holds the process-wide diagnostic logger used by the
// capture, pipeline and storage packages.
package monitoring

import (
	"log"
	"sync/atomic"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

var debug atomic.Bool

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetDebug enables or disables Debugf output.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// DebugEnabled reports whether Debugf lines are emitted.
func DebugEnabled() bool {
	return debug.Load()
}

// Debugf logs through Logf with a "debug: " prefix when debug output is on.
func Debugf(format string, v ...interface{}) {
	if !debug.Load() {
		return
	}
	Logf("debug: "+format, v...)
}
