// Package reporter turns the lifecycle events of a test run into a human-readable
// report.
package reporter

import "github.com/ansel1/tally/results"

// Reporter receives the events of a test run in order:
//
//	TestRunStarting
//	  TestGroupStarting
//	    TestCaseStarting
//	      SectionStarting ... SectionEnded (nested)
//	    TestCaseEnded
//	  TestGroupEnded
//	TestRunEnded
//
// Assertions and benchmarks are reported inside a section. Implementations are not
// safe for concurrent use.
type Reporter interface {
	NoMatchingTestCases(spec string)

	TestRunStarting(results.RunInfo)
	TestGroupStarting(results.GroupInfo)
	TestCaseStarting(results.TestCaseInfo)
	SectionStarting(results.SectionInfo)

	AssertionStarting(results.AssertionInfo)
	// AssertionEnded reports whether anything was printed for the assertion.
	AssertionEnded(results.AssertionStats) bool

	BenchmarkStarting(results.BenchmarkInfo)
	BenchmarkEnded(results.BenchmarkStats)

	SectionEnded(results.SectionStats)
	TestCaseEnded(results.TestCaseStats)
	TestGroupEnded(results.GroupStats)
	TestRunEnded(results.RunStats)
}

// Nop ignores every event. Embed it to implement only some of the methods.
type Nop struct{}

func (Nop) NoMatchingTestCases(string)                 {}
func (Nop) TestRunStarting(results.RunInfo)            {}
func (Nop) TestGroupStarting(results.GroupInfo)        {}
func (Nop) TestCaseStarting(results.TestCaseInfo)      {}
func (Nop) SectionStarting(results.SectionInfo)        {}
func (Nop) AssertionStarting(results.AssertionInfo)    {}
func (Nop) AssertionEnded(results.AssertionStats) bool { return false }
func (Nop) BenchmarkStarting(results.BenchmarkInfo)    {}
func (Nop) BenchmarkEnded(results.BenchmarkStats)      {}
func (Nop) SectionEnded(results.SectionStats)          {}
func (Nop) TestCaseEnded(results.TestCaseStats)        {}
func (Nop) TestGroupEnded(results.GroupStats)          {}
func (Nop) TestRunEnded(results.RunStats)              {}

// Multi forwards every event to each reporter in order.
type Multi []Reporter

func (m Multi) NoMatchingTestCases(spec string) {
	for _, r := range m {
		r.NoMatchingTestCases(spec)
	}
}

func (m Multi) TestRunStarting(info results.RunInfo) {
	for _, r := range m {
		r.TestRunStarting(info)
	}
}

func (m Multi) TestGroupStarting(info results.GroupInfo) {
	for _, r := range m {
		r.TestGroupStarting(info)
	}
}

func (m Multi) TestCaseStarting(info results.TestCaseInfo) {
	for _, r := range m {
		r.TestCaseStarting(info)
	}
}

func (m Multi) SectionStarting(info results.SectionInfo) {
	for _, r := range m {
		r.SectionStarting(info)
	}
}

func (m Multi) AssertionStarting(info results.AssertionInfo) {
	for _, r := range m {
		r.AssertionStarting(info)
	}
}

// AssertionEnded reports whether any of the reporters printed the assertion.
func (m Multi) AssertionEnded(stats results.AssertionStats) bool {
	printed := false
	for _, r := range m {
		if r.AssertionEnded(stats) {
			printed = true
		}
	}
	return printed
}

func (m Multi) BenchmarkStarting(info results.BenchmarkInfo) {
	for _, r := range m {
		r.BenchmarkStarting(info)
	}
}

func (m Multi) BenchmarkEnded(stats results.BenchmarkStats) {
	for _, r := range m {
		r.BenchmarkEnded(stats)
	}
}

func (m Multi) SectionEnded(stats results.SectionStats) {
	for _, r := range m {
		r.SectionEnded(stats)
	}
}

func (m Multi) TestCaseEnded(stats results.TestCaseStats) {
	for _, r := range m {
		r.TestCaseEnded(stats)
	}
}

func (m Multi) TestGroupEnded(stats results.GroupStats) {
	for _, r := range m {
		r.TestGroupEnded(stats)
	}
}

func (m Multi) TestRunEnded(stats results.RunStats) {
	for _, r := range m {
		r.TestRunEnded(stats)
	}
}
