package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/ansel1/tally/results"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssertionEnded(t *testing.T) {
	line := `{"time":"2024-05-01T10:00:00Z","action":"assertion_ended","assertion_stats":{` +
		`"result":{"kind":"expression_failed","macro":"REQUIRE","expression":"a == b","expanded":"1 == 2",` +
		`"source":{"file":"foo_test.cpp","line":12}},` +
		`"messages":[{"kind":"info","message":"i := 3"}],` +
		`"totals":{"assertions":{"passed":4,"failed":1,"failed_but_ok":0},"test_cases":{"passed":1,"failed":0,"failed_but_ok":0}}}}`

	event, err := ParseEvent([]byte(line))
	require.NoError(t, err)

	want := Event{
		Time:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Action: ActionAssertionEnded,
		AssertionStats: &results.AssertionStats{
			Result: results.AssertionResult{
				Kind:       results.ResultExpressionFailed,
				Macro:      "REQUIRE",
				Expression: "a == b",
				Expanded:   "1 == 2",
				Source:     results.SourceLineInfo{File: "foo_test.cpp", Line: 12},
			},
			Messages: []results.MessageInfo{{Kind: results.ResultInfo, Message: "i := 3"}},
			Totals: &results.Totals{
				Assertions: results.Counts{Passed: 4, Failed: 1},
				TestCases:  results.Counts{Passed: 1},
			},
		},
	}
	if diff := cmp.Diff(want, event); diff != "" {
		t.Errorf("ParseEvent() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFillsMissingPayload(t *testing.T) {
	tests := []struct {
		line  string
		check func(t *testing.T, e Event)
	}{
		{`{"action":"run_starting"}`, func(t *testing.T, e Event) { require.NotNil(t, e.Run) }},
		{`{"action":"group_starting"}`, func(t *testing.T, e Event) { require.NotNil(t, e.Group) }},
		{`{"action":"test_case_starting"}`, func(t *testing.T, e Event) { require.NotNil(t, e.TestCase) }},
		{`{"action":"section_ended"}`, func(t *testing.T, e Event) {
			require.NotNil(t, e.SectionStats)
			assert.Nil(t, e.SectionStats.Assertions)
		}},
		{`{"action":"benchmark_ended"}`, func(t *testing.T, e Event) { require.NotNil(t, e.BenchmarkStats) }},
		{`{"action":"run_ended"}`, func(t *testing.T, e Event) {
			require.NotNil(t, e.RunStats)
			assert.Nil(t, e.RunStats.Totals)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			e, err := ParseEvent([]byte(tt.line))
			require.NoError(t, err)
			tt.check(t, e)
		})
	}
}

func TestParseNoMatchingTestCases(t *testing.T) {
	e, err := ParseEvent([]byte(`{"action":"no_matching_test_cases","spec":"[slow]"}`))
	require.NoError(t, err)
	assert.Equal(t, ActionNoMatchingTestCases, e.Action)
	assert.Equal(t, "[slow]", e.Spec)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseEvent([]byte(`not json`))
	require.Error(t, err)

	_, err = ParseEvent([]byte(`{"section":{"name":"x"}}`))
	assert.True(t, errors.Is(err, ErrMissingAction))

	_, err = ParseEvent([]byte(`{"action":"explode"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explode")

	_, err = ParseEvent([]byte(`{"action":"assertion_ended","assertion_stats":{"result":{"kind":"weird"}}}`))
	require.Error(t, err)
}

func TestActionValid(t *testing.T) {
	assert.True(t, ActionBenchmarkStarting.Valid())
	assert.False(t, Action("").Valid())
	assert.False(t, Action("RUN_STARTING").Valid())
}
