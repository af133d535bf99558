package tui

import (
	"bytes"
	"strings"
	"sync"
)

// ensureReset ensures that the string ends with a terminal reset sequence.
// This prevents color bleeding from truncated output or output that leaves colors open.
func ensureReset(s string) string {
	if s == "" {
		return ""
	}
	// If the string already ends with a reset sequence, don't add another one
	if strings.HasSuffix(s, "\033[0m") {
		return s
	}
	return s + "\033[0m"
}

// LineWriter turns a byte stream into whole lines printed above a running
// Bubbletea program. Partial lines are held until their newline arrives or Flush
// is called.
type LineWriter struct {
	mu      sync.Mutex
	println func(...any)
	buf     []byte
}

// NewLineWriter creates a writer printing each line with println, usually a
// *tea.Program's Println method.
func NewLineWriter(println func(...any)) *LineWriter {
	return &LineWriter{println: println}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.println(expandTabs(string(w.buf[:i]), 8))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush prints any buffered partial line.
func (w *LineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.println(expandTabs(string(w.buf), 8))
		w.buf = nil
	}
}
