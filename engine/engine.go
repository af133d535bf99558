package engine

import (
	"bufio"
	"bytes"
	"io"

	"github.com/ansel1/tally/parser"
	"go.uber.org/zap"
)

// maxLineSize bounds a single line of input. Assertion expansions can be long.
const maxLineSize = 4 * 1024 * 1024

// EventType identifies the type of event emitted by the engine
type EventType string

const (
	EventRawLine  EventType = "raw"      // Line that is not a reporter event
	EventReport   EventType = "report"   // Parsed reporter event
	EventError    EventType = "error"    // Error occurred during processing
	EventComplete EventType = "complete" // Input stream finished
)

// Event represents a single event emitted by the engine
type Event struct {
	Type    EventType
	RawLine []byte       // Populated for EventRawLine
	Report  parser.Event // Populated for EventReport
	Error   error        // Populated for EventError
}

// Engine splits an input stream into reporter events and pass-through lines.
// It keeps no state about the run; that is the reporter's job.
type Engine struct {
	rawWriter  io.Writer
	jsonWriter io.Writer
	logger     *zap.Logger
}

// Option configures the engine
type Option func(*Engine)

// WithRawOutput copies every input line to w.
func WithRawOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.rawWriter = w
	}
}

// WithJSONOutput copies every line that parsed as a reporter event to w.
func WithJSONOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.jsonWriter = w
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a new event processing engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stream reads from input and emits one event per line, followed by EventComplete.
// The channel is closed after EventComplete.
func (e *Engine) Stream(input io.Reader) <-chan Event {
	events := make(chan Event, 100)

	go func() {
		defer close(events)

		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		var lines, reports int
		for scanner.Scan() {
			line := scanner.Bytes()
			lines++

			e.copyLine(e.rawWriter, "raw", line)

			report, err := parser.ParseEvent(line)
			if err != nil {
				if looksLikeJSON(line) {
					e.logger.Debug("passing through unparseable event",
						zap.Int("line", lines), zap.Error(err))
				}
				events <- Event{
					Type:    EventRawLine,
					RawLine: bytes.Clone(line),
				}
				continue
			}
			reports++

			e.copyLine(e.jsonWriter, "json", line)

			events <- Event{
				Type:   EventReport,
				Report: report,
			}
		}

		if err := scanner.Err(); err != nil {
			e.logger.Warn("reading input", zap.Error(err))
			events <- Event{
				Type:  EventError,
				Error: err,
			}
		}

		e.logger.Debug("input finished", zap.Int("lines", lines), zap.Int("events", reports))
		events <- Event{
			Type: EventComplete,
		}
	}()

	return events
}

func (e *Engine) copyLine(w io.Writer, name string, line []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(append(bytes.Clone(line), '\n')); err != nil {
		e.logger.Warn("writing pass-through output", zap.String("output", name), zap.Error(err))
	}
}

func looksLikeJSON(line []byte) bool {
	trimmed := bytes.TrimSpace(line)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
