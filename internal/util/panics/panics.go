// Package panics provides the goroutine-spawning helper used
// throughout the node so that a panic in a background worker is
// logged instead of silently killing the process.
package panics

import (
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// GoroutineWrapperFunc returns a function suitable for `go` that runs f
// and, if f panics, logs the panic and stack trace via log instead of
// letting it propagate and crash the process.
func GoroutineWrapperFunc(log *logrus.Entry) func(f func()) {
	return func(f func()) {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("fatal panic in spawned goroutine: %v\n%s", r, debug.Stack())
				}
			}()
			f()
		}()
	}
}
