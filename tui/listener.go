package tui

import (
	"github.com/ansel1/tally/reporter"
	"github.com/ansel1/tally/results"
	tea "github.com/charmbracelet/bubbletea"
)

// Listener is a reporter that forwards progress to a Bubbletea program. It prints
// nothing itself, so it is meant to run alongside a Console inside a reporter.Multi.
type Listener struct {
	reporter.Nop
	send func(tea.Msg)
}

// NewListener creates a listener delivering messages with send, usually a
// *tea.Program's Send method.
func NewListener(send func(tea.Msg)) *Listener {
	return &Listener{send: send}
}

func (l *Listener) TestRunStarting(info results.RunInfo) {
	l.send(RunStartedMsg(info))
}

func (l *Listener) TestCaseStarting(info results.TestCaseInfo) {
	l.send(TestCaseStartedMsg(info))
}

func (l *Listener) SectionStarting(info results.SectionInfo) {
	l.send(SectionStartedMsg(info))
}

func (l *Listener) AssertionEnded(stats results.AssertionStats) bool {
	l.send(AssertionEndedMsg(stats))
	return false
}

func (l *Listener) SectionEnded(stats results.SectionStats) {
	l.send(SectionEndedMsg(stats))
}

func (l *Listener) TestCaseEnded(stats results.TestCaseStats) {
	l.send(TestCaseEndedMsg(stats))
}

func (l *Listener) TestRunEnded(stats results.RunStats) {
	l.send(RunEndedMsg(stats))
}
