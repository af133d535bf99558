package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ansel1/tally/results"
)

// Action names the reporter event carried by a line of the event stream.
type Action string

const (
	ActionNoMatchingTestCases Action = "no_matching_test_cases"
	ActionRunStarting         Action = "run_starting"
	ActionGroupStarting       Action = "group_starting"
	ActionTestCaseStarting    Action = "test_case_starting"
	ActionSectionStarting     Action = "section_starting"
	ActionAssertionStarting   Action = "assertion_starting"
	ActionAssertionEnded      Action = "assertion_ended"
	ActionBenchmarkStarting   Action = "benchmark_starting"
	ActionBenchmarkEnded      Action = "benchmark_ended"
	ActionSectionEnded        Action = "section_ended"
	ActionTestCaseEnded       Action = "test_case_ended"
	ActionGroupEnded          Action = "group_ended"
	ActionRunEnded            Action = "run_ended"
)

var knownActions = map[Action]bool{
	ActionNoMatchingTestCases: true,
	ActionRunStarting:         true,
	ActionGroupStarting:       true,
	ActionTestCaseStarting:    true,
	ActionSectionStarting:     true,
	ActionAssertionStarting:   true,
	ActionAssertionEnded:      true,
	ActionBenchmarkStarting:   true,
	ActionBenchmarkEnded:      true,
	ActionSectionEnded:        true,
	ActionTestCaseEnded:       true,
	ActionGroupEnded:          true,
	ActionRunEnded:            true,
}

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return knownActions[a]
}

// ErrMissingAction is returned for lines that decode but carry no action.
var ErrMissingAction = errors.New("event has no action")

// Event is a single line of the JSON event stream written by a test framework.
//
// Only the payload field matching Action is set.
type Event struct {
	Time   time.Time `json:"time,omitzero"`
	Action Action    `json:"action"`

	Run            *results.RunInfo        `json:"run,omitempty"`
	Group          *results.GroupInfo      `json:"group,omitempty"`
	TestCase       *results.TestCaseInfo   `json:"test_case,omitempty"`
	Section        *results.SectionInfo    `json:"section,omitempty"`
	Assertion      *results.AssertionInfo  `json:"assertion,omitempty"`
	AssertionStats *results.AssertionStats `json:"assertion_stats,omitempty"`
	Benchmark      *results.BenchmarkInfo  `json:"benchmark,omitempty"`
	BenchmarkStats *results.BenchmarkStats `json:"benchmark_stats,omitempty"`
	SectionStats   *results.SectionStats   `json:"section_stats,omitempty"`
	TestCaseStats  *results.TestCaseStats  `json:"test_case_stats,omitempty"`
	GroupStats     *results.GroupStats     `json:"group_stats,omitempty"`
	RunStats       *results.RunStats       `json:"run_stats,omitempty"`

	// Spec is the unmatched test spec of a no_matching_test_cases event.
	Spec string `json:"spec,omitempty"`
}

// ParseEvent parses a single line of the JSON event stream.
//
// Missing payloads are filled with zero values so consumers can dereference the
// field matching the action.
func ParseEvent(line []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(line, &event); err != nil {
		return event, err
	}
	if event.Action == "" {
		return event, ErrMissingAction
	}
	if !event.Action.Valid() {
		return event, fmt.Errorf("unknown action %q", event.Action)
	}
	event.fillPayload()
	return event, nil
}

func (e *Event) fillPayload() {
	switch e.Action {
	case ActionRunStarting:
		e.Run = orZero(e.Run)
	case ActionGroupStarting:
		e.Group = orZero(e.Group)
	case ActionTestCaseStarting:
		e.TestCase = orZero(e.TestCase)
	case ActionSectionStarting:
		e.Section = orZero(e.Section)
	case ActionAssertionStarting:
		e.Assertion = orZero(e.Assertion)
	case ActionAssertionEnded:
		e.AssertionStats = orZero(e.AssertionStats)
	case ActionBenchmarkStarting:
		e.Benchmark = orZero(e.Benchmark)
	case ActionBenchmarkEnded:
		e.BenchmarkStats = orZero(e.BenchmarkStats)
	case ActionSectionEnded:
		e.SectionStats = orZero(e.SectionStats)
	case ActionTestCaseEnded:
		e.TestCaseStats = orZero(e.TestCaseStats)
	case ActionGroupEnded:
		e.GroupStats = orZero(e.GroupStats)
	case ActionRunEnded:
		e.RunStats = orZero(e.RunStats)
	}
}

func orZero[T any](v *T) *T {
	if v == nil {
		return new(T)
	}
	return v
}
