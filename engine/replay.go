package engine

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/ansel1/tally/parser"
)

// timedLine is a line of a recorded stream with the time it was originally written.
type timedLine struct {
	line      []byte
	timestamp time.Time
}

// ReplayReader replays a recorded event stream, sleeping between lines so the
// gaps between event timestamps are reproduced, scaled by rate.
//
// A rate of 0 replays without delays. Lines without a timestamp inherit the
// previous one.
type ReplayReader struct {
	lines []timedLine
	rate  float64
	sleep func(time.Duration)

	next    int
	pending []byte
	last    time.Time
}

// NewReplayReader reads all of r up front and returns a reader replaying it.
func NewReplayReader(r io.Reader, rate float64) (*ReplayReader, error) {
	var lines []timedLine
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := bytes.Clone(scanner.Bytes())

		var ts time.Time
		if event, err := parser.ParseEvent(line); err == nil && !event.Time.IsZero() {
			ts = event.Time
		} else if len(lines) > 0 {
			ts = lines[len(lines)-1].timestamp
		}
		lines = append(lines, timedLine{line: line, timestamp: ts})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &ReplayReader{
		lines: lines,
		rate:  rate,
		sleep: time.Sleep,
	}, nil
}

// Read implements io.Reader, returning the recorded stream a line at a time.
func (r *ReplayReader) Read(p []byte) (int, error) {
	if len(r.pending) == 0 {
		if r.next >= len(r.lines) {
			return 0, io.EOF
		}
		current := r.lines[r.next]
		r.next++

		if r.rate > 0 && !r.last.IsZero() && !current.timestamp.IsZero() {
			if gap := current.timestamp.Sub(r.last); gap > 0 {
				r.sleep(time.Duration(float64(gap) * r.rate))
			}
		}
		if !current.timestamp.IsZero() {
			r.last = current.timestamp
		}
		r.pending = append(bytes.Clone(current.line), '\n')
	}

	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	return n, nil
}
