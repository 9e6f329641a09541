// Package logger writes the tagged diagnostic lines printed during a run.
package logger

import (
	"fmt"
	"io"
	"sync"
)

// Tag prefixes every diagnostic line.
const Tag = "count-func:"

// Logger provides logging capabilities.
type Logger interface {
	// Logf logs a formatted message as one tagged line.
	Logf(format string, args ...interface{})
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

// NewNoopLogger creates a logger that discards everything.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

// Logf does nothing for noop logger.
func (n *noopLogger) Logf(_ string, _ ...interface{}) {}

// defaultLogger is a thread-safe logger that writes tagged lines to w.
type defaultLogger struct {
	mu  sync.Mutex
	w   io.Writer
	tag string
}

// New creates a logger writing lines prefixed with Tag to w.
func New(w io.Writer) Logger {
	return &defaultLogger{w: w, tag: Tag}
}

// Logf writes a formatted, tagged line with thread safety.
func (d *defaultLogger) Logf(format string, args ...interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.w, "%s%s\n", d.tag, fmt.Sprintf(format, args...))
}
