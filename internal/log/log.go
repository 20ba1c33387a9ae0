// Package log provides centralized logging for the compiler pipeline.
package log

import (
	"fmt"
	"io"
	"sync"
)

var (
	out io.Writer
	mu  sync.Mutex
)

// SetOutput sets the log destination. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// Debug writes a debug log message if logging is enabled.
func Debug(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, format+"\n", args...)
	}
}

// Warn writes a warning-prefixed log message.
func Warn(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, "[warn] "+format+"\n", args...)
	}
}

// Hook writes a hook-prefixed log message.
func Hook(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, "[hook] "+format+"\n", args...)
	}
}

// Generate writes a generate-prefixed log message.
func Generate(format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		fmt.Fprintf(out, "[generate] "+format+"\n", args...)
	}
}

// Enabled reports whether logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return out != nil
}
