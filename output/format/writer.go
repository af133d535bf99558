package format

import "io"

// StickyWriter remembers the first write error and drops everything after it.
//
// Report output is written in many small pieces; checking each write would bury the
// formatting logic, so callers write freely and check Err once.
type StickyWriter struct {
	w   io.Writer
	err error
}

// NewStickyWriter wraps w. A *StickyWriter is returned unchanged so that several
// printers sharing one output also share its error.
func NewStickyWriter(w io.Writer) *StickyWriter {
	if sw, ok := w.(*StickyWriter); ok {
		return sw
	}
	return &StickyWriter{w: w}
}

func (s *StickyWriter) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if err != nil {
		s.err = err
	}
	return n, err
}

// Print writes str, ignoring the result.
func (s *StickyWriter) Print(str string) {
	_, _ = io.WriteString(s, str)
}

// Err returns the first write error, if any.
func (s *StickyWriter) Err() error {
	return s.err
}
