// Package display defines the boundary between the receiver and whatever
// renders its log, plus the ordered queue that marshals lines onto the
// rendering goroutine.
package display

import (
	"io"
	"sync"
)

// Sink appends one line to a visible log. Implementations must be safe to
// call from any goroutine and must not block on rendering.
type Sink interface {
	AppendLine(text string)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(text string)

func (f SinkFunc) AppendLine(text string) { f(text) }

// Writer renders lines to an io.Writer, one per line. It serializes writes
// but does not decouple the caller from a slow writer; put it behind a
// Queue for that.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) AppendLine(text string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, _ = io.WriteString(w.w, text+"\n")
}
