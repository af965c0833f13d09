package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
)

var (
	mu      sync.Mutex
	debugW  io.Writer = os.Stderr
	consW   io.Writer = os.Stdout
	verbose bool
)

// DebugEnabled returns true if debug mode is enabled via TL_DEBUG or SetVerbose
func DebugEnabled() bool {
	mu.Lock()
	v := verbose
	mu.Unlock()
	return v || os.Getenv("TL_DEBUG") != ""
}

// SetVerbose turns debug output on regardless of TL_DEBUG
func SetVerbose(v bool) {
	mu.Lock()
	verbose = v
	mu.Unlock()
}

// SetDebugOutput redirects debug output and returns the previous writer
func SetDebugOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := debugW
	debugW = w
	return prev
}

// SetConsoleOutput redirects console diagnostics and returns the previous writer
func SetConsoleOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := consW
	consW = w
	return prev
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		fmt.Fprintf(debugW, format, args...)
		mu.Unlock()
	}
}

// Debugln prints a debug message followed by a newline only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		mu.Lock()
		fmt.Fprintln(debugW, args...)
		mu.Unlock()
	}
}

// Console returns the writer for always-on diagnostics, such as the line a
// task prints when it is deleted
func Console() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return consW
}
