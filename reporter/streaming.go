package reporter

import "github.com/ansel1/tally/results"

// Lazy holds context that is printed at most once, the first time something inside
// it needs to be reported.
type Lazy[T any] struct {
	Value T
	Set   bool
	Used  bool
}

func lazy[T any](v T) Lazy[T] {
	return Lazy[T]{Value: v, Set: true}
}

// Streaming tracks the run, group, test case and open sections as events arrive.
// Reporters embed it and call its methods from their overrides.
type Streaming struct {
	Nop

	CurrentRun      Lazy[results.RunInfo]
	CurrentGroup    Lazy[results.GroupInfo]
	CurrentTestCase Lazy[results.TestCaseInfo]
	SectionStack    []results.SectionInfo
}

func (s *Streaming) TestRunStarting(info results.RunInfo) {
	s.CurrentRun = lazy(info)
}

func (s *Streaming) TestGroupStarting(info results.GroupInfo) {
	s.CurrentGroup = lazy(info)
}

func (s *Streaming) TestCaseStarting(info results.TestCaseInfo) {
	s.CurrentTestCase = lazy(info)
}

func (s *Streaming) SectionStarting(info results.SectionInfo) {
	s.SectionStack = append(s.SectionStack, info)
}

func (s *Streaming) SectionEnded(results.SectionStats) {
	if n := len(s.SectionStack); n > 0 {
		s.SectionStack = s.SectionStack[:n-1]
	}
}

func (s *Streaming) TestCaseEnded(results.TestCaseStats) {
	s.CurrentTestCase = Lazy[results.TestCaseInfo]{}
}

func (s *Streaming) TestGroupEnded(results.GroupStats) {
	s.CurrentGroup = Lazy[results.GroupInfo]{}
}

func (s *Streaming) TestRunEnded(results.RunStats) {
	s.CurrentTestCase = Lazy[results.TestCaseInfo]{}
	s.CurrentGroup = Lazy[results.GroupInfo]{}
	s.CurrentRun = Lazy[results.RunInfo]{}
}
