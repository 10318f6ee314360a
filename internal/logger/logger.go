// Package logger provides the CLI's configurable logger. The library
// packages never log.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	output  io.Writer = os.Stderr
	logger            = log.New(output, "", 0)
	verbose bool
)

// SetOutput configures the logger output destination.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	logger = log.New(output, "", 0)
}

// SetVerbose enables Debug messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	current().Printf("warning: "+format, args...)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	current().Printf(format, args...)
}

// Debug logs a message only in verbose mode.
func Debug(format string, args ...any) {
	mu.Lock()
	on := verbose
	mu.Unlock()
	if on {
		current().Printf(format, args...)
	}
}

func current() *log.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}
