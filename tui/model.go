package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ansel1/tally/output/format"
	"github.com/ansel1/tally/results"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// EOFMsg signals that the event stream has been fully reported.
type EOFMsg struct{}

// Progress messages, sent by a Listener as the reporter sees events.
type (
	RunStartedMsg      results.RunInfo
	TestCaseStartedMsg results.TestCaseInfo
	SectionStartedMsg  results.SectionInfo
	SectionEndedMsg    results.SectionStats
	AssertionEndedMsg  results.AssertionStats
	TestCaseEndedMsg   results.TestCaseStats
	RunEndedMsg        results.RunStats
)

// Model is the live progress view shown below the console report while a test
// run is streaming.
//
// It shows the running test case, the path of sections inside it and the running
// totals. The report itself is printed above the view, so once the stream ends
// the view renders nothing.
type Model struct {
	RunName  string
	TestCase string
	// Sections is the stack of open sections, without the test case's own root section.
	Sections []string
	// Totals counts finished test cases and every assertion seen so far.
	Totals results.Totals
	// LastFailure is the source location of the most recent failed assertion.
	LastFailure string

	// Terminal state
	TerminalWidth  int
	TerminalHeight int

	// Replay state
	ReplayMode bool
	ReplayRate float64

	Finished bool
	// Interrupted is set when the user quit before the stream ended.
	Interrupted      bool
	StartTime        time.Time
	TotalElapsedTime float64

	testCaseStart time.Time
	depth         int

	passStyle    lipgloss.Style
	failStyle    lipgloss.Style
	neutralStyle lipgloss.Style
	spinner      spinner.Model
	now          func() time.Time
}

// NewModel creates a new progress model.
func NewModel(replayMode bool, replayRate float64) *Model {
	s := spinner.New()
	s.Spinner = spinner.Jump

	return &Model{
		TerminalWidth:  format.DefaultConsoleWidth, // updated by Bubbletea
		TerminalHeight: 24,
		ReplayMode:     replayMode,
		ReplayRate:     replayRate,
		StartTime:      time.Now(),
		passStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")), // green
		failStyle:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")), // red
		neutralStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")), // grey
		spinner:        s,
		now:            time.Now,
	}
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case RunStartedMsg:
		m.RunName = msg.Name

	case TestCaseStartedMsg:
		m.TestCase = msg.Name
		m.Sections = m.Sections[:0]
		m.depth = 0
		m.testCaseStart = m.now()

	case SectionStartedMsg:
		// the outermost section of a test case repeats the test case name
		if m.depth > 0 {
			m.Sections = append(m.Sections, msg.Name)
		}
		m.depth++

	case SectionEndedMsg:
		if m.depth > 1 && len(m.Sections) > 0 {
			m.Sections = m.Sections[:len(m.Sections)-1]
		}
		if m.depth > 0 {
			m.depth--
		}

	case AssertionEndedMsg:
		if msg.Totals != nil {
			m.Totals.Assertions = msg.Totals.Assertions
		}
		if !msg.Result.IsOk() {
			m.LastFailure = msg.Result.Source.String()
		}

	case TestCaseEndedMsg:
		if msg.Totals != nil {
			m.Totals.TestCases = m.Totals.TestCases.Add(msg.Totals.TestCases)
		}
		m.TestCase = ""
		m.Sections = m.Sections[:0]
		m.depth = 0

	case RunEndedMsg:
		if msg.Totals != nil {
			m.Totals = *msg.Totals
		}

	case tea.WindowSizeMsg:
		m.TerminalWidth = msg.Width
		m.TerminalHeight = msg.Height

	case EOFMsg:
		m.finish()
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.Interrupted = true
			m.finish()
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) finish() {
	m.Finished = true
	m.TotalElapsedTime = m.now().Sub(m.StartTime).Seconds()
}

// View renders the progress lines. It is empty once the stream has finished.
func (m *Model) View() string {
	if m.Finished {
		return ""
	}
	return strings.TrimRight(expandTabs(m.render(), 8), "\n")
}

// HasFailures returns true if any test case or assertion failed unexpectedly.
func (m *Model) HasFailures() bool {
	return m.Totals.TestCases.Failed > 0 || m.Totals.Assertions.Failed > 0
}

func (m *Model) render() string {
	var b strings.Builder

	if m.TestCase != "" {
		elapsed := m.scaled(m.now().Sub(m.testCaseStart).Seconds())
		m.renderAlignedLine(&b, m.TestCase, formatElapsedTime(elapsed), m.getSpinnerPrefix(m.HasFailures()))
		if len(m.Sections) > 0 {
			m.renderAlignedLine(&b, m.neutralStyle.Render(strings.Join(m.Sections, " > ")), "", "    ")
		}
	}
	if m.LastFailure != "" {
		m.renderAlignedLine(&b, m.failStyle.Render("last failure: "+m.LastFailure), "", "  ")
	}
	m.renderSummaryLine(&b)

	return b.String()
}

// scaled converts wall time into recorded time when replaying at a different rate.
func (m *Model) scaled(seconds float64) float64 {
	if m.ReplayMode && m.ReplayRate != 1.0 && m.ReplayRate != 0 {
		return seconds / m.ReplayRate
	}
	return seconds
}

// renderSummaryLine renders the running totals.
func (m *Model) renderSummaryLine(b *strings.Builder) {
	elapsed := m.TotalElapsedTime
	if !m.Finished {
		elapsed = m.now().Sub(m.StartTime).Seconds()
	}
	elapsed = m.scaled(elapsed)

	status := "RUNNING"
	if m.Finished {
		status = "PASSED"
		if m.HasFailures() {
			status = "FAILED"
		}
	}
	if m.RunName != "" {
		status += " " + m.RunName
	}

	tc, as := m.Totals.TestCases, m.Totals.Assertions
	left := fmt.Sprintf("%s: %s (%d failed) | %s (%d failed)",
		status,
		format.Pluralise(tc.Total(), "test case"), tc.Failed,
		format.Pluralise(as.Total(), "assertion"), as.Failed)

	prefix := "  "
	if !m.Finished {
		prefix = m.getSpinnerPrefix(m.HasFailures())
	}
	m.renderAlignedLine(b, left, formatElapsedTime(elapsed), prefix)
}

// getSpinnerPrefix returns the spinner string with appropriate color
func (m *Model) getSpinnerPrefix(failed bool) string {
	spinnerView := m.spinner.View()
	if failed {
		return m.failStyle.Render(spinnerView) + " "
	}
	return m.passStyle.Render(spinnerView) + " "
}

// renderAlignedLine renders a line with left-aligned and right-aligned content
func (m *Model) renderAlignedLine(b *strings.Builder, left, right, prefix string) {
	fullLeft := prefix + left

	if right == "" {
		b.WriteString(ensureReset(truncateLine(fullLeft, m.TerminalWidth)))
		b.WriteString("\n")
		return
	}

	rightWidth := lipgloss.Width(right)
	availableWidth := max(m.TerminalWidth-rightWidth-2, 0)

	fullLeft = truncateLine(fullLeft, availableWidth)
	padding := availableWidth - lipgloss.Width(fullLeft)
	b.WriteString(ensureReset(fullLeft))
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString("  ")
	b.WriteString(right)
	b.WriteString("\n")
}

// expandTabs replaces tab characters in a string with spaces.
// This is necessary because tab characters in some display environments
// do not overwrite characters but simply advance the cursor, leaving
// characters from the previous view bleeding through.
func expandTabs(s string, tabWidth int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteRune(r)
			col = 0
		case '\t':
			spaces := tabWidth - (col % tabWidth)
			b.WriteString(strings.Repeat(" ", spaces))
			col += spaces
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// formatElapsedTime formats elapsed seconds with one decimal, switching to
// minutes past 60s.
func formatElapsedTime(seconds float64) string {
	if seconds < 0.05 {
		return "0.0s"
	}
	if seconds >= 60 {
		minutes := seconds / 60
		return fmt.Sprintf("%.1fm", minutes)
	}
	return fmt.Sprintf("%.1fs", seconds)
}

// truncateLine truncates a line to fit within width cells, leaving escape
// sequences intact.
func truncateLine(line string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(line, width, "")
}
