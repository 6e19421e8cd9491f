// Package monitoring holds the diagnostic logger shared by the library
// packages.
package monitoring

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Prefix starts every line written by the default logger.
const Prefix = "[gbcam] "

var std = log.New(os.Stderr, Prefix, 0)

// Logf is the package-level diagnostic logger. It defaults to a stderr
// logger with the gbcam prefix and may be replaced by SetLogger.
var Logf func(format string, v ...interface{}) = std.Printf

// SetLogger replaces the package logger. Passing nil mutes it.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// SetOutput points the default logger at w (stderr when nil) and makes
// it the active logger again.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	std.SetOutput(w)
	Logf = std.Printf
}

// Errorf logs an error line and returns the formatted error.
func Errorf(format string, v ...interface{}) error {
	err := fmt.Errorf(format, v...)
	Logf("error: %v", err)
	return err
}
