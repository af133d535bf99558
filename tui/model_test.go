package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/ansel1/tally/results"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestModel returns a model driven by a fake clock, which the caller can advance.
func newTestModel() (*Model, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := NewModel(false, 1.0)
	m.StartTime = now
	m.now = func() time.Time { return now }
	return m, &now
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
	}
}

func viewLines(m *Model) []string {
	return strings.Split(ansi.Strip(m.View()), "\n")
}

func TestModelTracksSections(t *testing.T) {
	m, _ := newTestModel()

	send(m,
		RunStartedMsg{Name: "calc"},
		TestCaseStartedMsg{Name: "divides numbers"},
		SectionStartedMsg{Name: "divides numbers"},
		SectionStartedMsg{Name: "by zero"},
		SectionStartedMsg{Name: "negative"},
	)
	assert.Equal(t, "calc", m.RunName)
	assert.Equal(t, "divides numbers", m.TestCase)
	assert.Equal(t, []string{"by zero", "negative"}, m.Sections)

	send(m, SectionEndedMsg{}, SectionEndedMsg{})
	assert.Empty(t, m.Sections)

	send(m, SectionStartedMsg{Name: "by one"})
	assert.Equal(t, []string{"by one"}, m.Sections)

	send(m, SectionEndedMsg{}, SectionEndedMsg{}, TestCaseEndedMsg{})
	assert.Empty(t, m.TestCase)
	assert.Empty(t, m.Sections)

	// a stray end does not underflow
	send(m, SectionEndedMsg{})
	assert.Empty(t, m.Sections)
}

func TestModelTotals(t *testing.T) {
	m, _ := newTestModel()

	send(m,
		TestCaseStartedMsg{Name: "adds"},
		AssertionEndedMsg{
			Result: results.AssertionResult{Kind: results.ResultOk},
			Totals: &results.Totals{Assertions: results.Counts{Passed: 1}},
		},
		TestCaseEndedMsg{Totals: &results.Totals{
			Assertions: results.Counts{Passed: 1},
			TestCases:  results.Counts{Passed: 1},
		}},
	)
	assert.Equal(t, results.Totals{
		Assertions: results.Counts{Passed: 1},
		TestCases:  results.Counts{Passed: 1},
	}, m.Totals)
	assert.False(t, m.HasFailures())
	assert.Empty(t, m.LastFailure)

	send(m,
		TestCaseStartedMsg{Name: "divides"},
		AssertionEndedMsg{
			Result: results.AssertionResult{
				Kind:   results.ResultExpressionFailed,
				Source: results.SourceLineInfo{File: "calc_test.cpp", Line: 26},
			},
			Totals: &results.Totals{Assertions: results.Counts{Passed: 1, Failed: 1}},
		},
		TestCaseEndedMsg{Totals: &results.Totals{
			Assertions: results.Counts{Failed: 1},
			TestCases:  results.Counts{Failed: 1},
		}},
	)
	assert.Equal(t, results.Counts{Passed: 1, Failed: 1}, m.Totals.TestCases)
	assert.Equal(t, results.Counts{Passed: 1, Failed: 1}, m.Totals.Assertions)
	assert.Equal(t, "calc_test.cpp:26", m.LastFailure)
	assert.True(t, m.HasFailures())

	// the run's own totals win
	final := results.Totals{TestCases: results.Counts{Passed: 5}}
	send(m, RunEndedMsg{Totals: &final})
	assert.Equal(t, final, m.Totals)
	assert.False(t, m.HasFailures())
}

func TestViewShowsProgress(t *testing.T) {
	m, now := newTestModel()
	m.TerminalWidth = 80

	send(m,
		RunStartedMsg{Name: "calc"},
		TestCaseStartedMsg{Name: "divides numbers"},
		SectionStartedMsg{Name: "divides numbers"},
		SectionStartedMsg{Name: "by zero"},
		SectionStartedMsg{Name: "negative"},
		AssertionEndedMsg{
			Result: results.AssertionResult{Kind: results.ResultExpressionFailed, Source: results.SourceLineInfo{File: "calc_test.cpp", Line: 26}},
			Totals: &results.Totals{Assertions: results.Counts{Passed: 2, Failed: 1}},
		},
	)
	*now = now.Add(1500 * time.Millisecond)

	lines := viewLines(m)
	require.Len(t, lines, 4)

	assert.Contains(t, lines[0], "divides numbers")
	assert.True(t, strings.HasSuffix(lines[0], "  1.5s"), lines[0])
	assert.Equal(t, "    by zero > negative", lines[1])
	assert.Equal(t, "  last failure: calc_test.cpp:26", lines[2])
	assert.Contains(t, lines[3], "RUNNING calc: 0 test cases (0 failed) | 3 assertions (1 failed)")
	assert.True(t, strings.HasSuffix(lines[3], "  1.5s"), lines[3])

	for _, line := range []string{lines[0], lines[3]} {
		assert.Equal(t, 80, lipgloss.Width(line), "right-aligned lines fill the terminal: %q", line)
	}
}

func TestViewWithoutTestCase(t *testing.T) {
	m, _ := newTestModel()

	lines := viewLines(m)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "RUNNING: 0 test cases (0 failed) | 0 assertions (0 failed)")
}

func TestViewTruncatesToWidth(t *testing.T) {
	m, _ := newTestModel()
	m.TerminalWidth = 30

	send(m, TestCaseStartedMsg{Name: strings.Repeat("very long test case name ", 4)})

	for _, line := range viewLines(m) {
		assert.LessOrEqual(t, lipgloss.Width(line), 30, line)
	}
}

func TestViewEmptyWhenFinished(t *testing.T) {
	m, now := newTestModel()
	send(m, TestCaseStartedMsg{Name: "adds"})
	*now = now.Add(2 * time.Second)

	_, cmd := m.Update(EOFMsg{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.Finished)
	assert.False(t, m.Interrupted)
	assert.InDelta(t, 2.0, m.TotalElapsedTime, 0.001)
	assert.Empty(t, m.View())
}

func TestQuitKeys(t *testing.T) {
	keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	}
	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			m, _ := newTestModel()
			_, cmd := m.Update(key)
			require.NotNil(t, cmd)
			assert.Equal(t, tea.QuitMsg{}, cmd())
			assert.True(t, m.Finished)
			assert.True(t, m.Interrupted)
		})
	}

	m, _ := newTestModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, cmd)
	assert.False(t, m.Finished)
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.TerminalWidth)
	assert.Equal(t, 40, m.TerminalHeight)
}

func TestReplayRateScalesElapsed(t *testing.T) {
	m, now := newTestModel()
	m.ReplayMode = true
	m.ReplayRate = 0.5
	*now = now.Add(time.Second)

	lines := viewLines(m)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], "  2.0s"), lines)
}

func TestRenderAlignedLineResetsColour(t *testing.T) {
	m, _ := newTestModel()
	m.TerminalWidth = 20

	var b strings.Builder
	m.renderAlignedLine(&b, "\033[31mthis red text is far too long", "1.0s", "")
	line := strings.TrimSuffix(b.String(), "\n")

	assert.Contains(t, line, "\033[0m  1.0s", "colour is reset before the elapsed time")
	assert.Equal(t, 20, lipgloss.Width(line))
}

func TestFormatElapsedTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0.0s"},
		{0.04, "0.0s"},
		{0.26, "0.3s"},
		{12.34, "12.3s"},
		{90, "1.5m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatElapsedTime(tt.seconds), "%v", tt.seconds)
	}
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "a       b", expandTabs("a\tb", 8))
	assert.Equal(t, "ab      c\n        d", expandTabs("ab\tc\n\td", 8))
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "", truncateLine("abc", 0))
	assert.Equal(t, "abc", truncateLine("abc", 10))
	assert.Equal(t, "ab", truncateLine("abc", 2))
	assert.Equal(t, "ab", ansi.Strip(truncateLine("\033[1mabc", 2)), "escape sequences take no width")
}
