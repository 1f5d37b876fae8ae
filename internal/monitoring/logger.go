// Package monitoring holds the diagnostic logger shared by the loader,
// renderers and exporters.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// now is swapped in tests.
var now = time.Now

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Stage logs the start of a pipeline stage and returns a func that logs
// its duration. Typical use:
//
//	defer monitoring.Stage("assemble " + dir)()
func Stage(name string) func() {
	start := now()
	Logf("%s: started", name)
	return func() {
		Logf("%s: done in %s", name, now().Sub(start).Round(time.Millisecond))
	}
}
