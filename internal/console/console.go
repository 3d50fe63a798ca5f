// Package console writes the program's plain output lines. Lines from
// concurrent threads or child processes never interleave mid-line.
package console

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"
)

// Console serialises line writes to w.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

// New returns a console writing to w, or to os.Stdout when w is nil.
func New(w io.Writer) *Console {
	if w == nil {
		w = os.Stdout
	}
	return &Console{w: w}
}

// Linef formats a line and writes it with a trailing newline.
func (c *Console) Linef(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...) + "\n"
	_, _ = c.Write([]byte(line))
}

// Write writes p in one piece.
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.w.Write(p)
}

// Lines returns a writer that forwards only complete lines to c. Each
// stream writing to the console needs its own.
func (c *Console) Lines() *LineWriter {
	return &LineWriter{console: c}
}

// LineWriter buffers a partial line until its newline arrives. It is not safe
// for concurrent use.
type LineWriter struct {
	console *Console
	pending []byte
}

// Write implements io.Writer.
func (l *LineWriter) Write(p []byte) (int, error) {
	l.pending = append(l.pending, p...)
	end := bytes.LastIndexByte(l.pending, '\n')
	if end < 0 {
		return len(p), nil
	}
	if _, err := l.console.Write(l.pending[:end+1]); err != nil {
		return 0, err
	}
	l.pending = append(l.pending[:0], l.pending[end+1:]...)
	return len(p), nil
}

// Flush writes a trailing partial line, terminated with a newline.
func (l *LineWriter) Flush() error {
	if len(l.pending) == 0 {
		return nil
	}
	line := append(l.pending, '\n')
	l.pending = nil
	_, err := l.console.Write(line)
	return err
}
