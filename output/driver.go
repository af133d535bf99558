package output

import (
	"fmt"
	"io"

	"github.com/ansel1/tally/config"
	"github.com/ansel1/tally/engine"
	"github.com/ansel1/tally/parser"
	"github.com/ansel1/tally/reporter"
	"github.com/ansel1/tally/results"
	"go.uber.org/zap"
)

// Driver feeds engine events to a reporter.
//
// It repairs what a minimal event stream leaves out: a run that never announces
// itself, test cases that report assertions without opening a section, and stats
// records without totals. Totals are computed with a results.Tally.
type Driver struct {
	reporter    reporter.Reporter
	passthrough io.Writer
	logger      *zap.Logger
	cfg         *config.Config

	tally *results.Tally

	runStarted  bool
	inTestCase  bool
	testCase    results.TestCaseInfo
	rootSection bool
	// hasChildren tracks, per open section, whether it contains other sections.
	hasChildren []bool

	reportedFailure bool
	inputErr        error
}

// Option configures a Driver.
type Option func(*Driver)

// WithPassthrough writes lines that are not reporter events to w.
func WithPassthrough(w io.Writer) Option {
	return func(d *Driver) {
		d.passthrough = w
	}
}

// WithLogger sets the logger used for diagnostics. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithConfig sets the configuration. Defaults to config.Default().
func WithConfig(cfg *config.Config) Option {
	return func(d *Driver) {
		if cfg != nil {
			d.cfg = cfg
		}
	}
}

// NewDriver creates a driver reporting to r.
func NewDriver(r reporter.Reporter, opts ...Option) *Driver {
	d := &Driver{
		reporter: r,
		logger:   zap.NewNop(),
		cfg:      config.Default(),
		tally:    results.NewTally(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ProcessEvents consumes events until the channel is closed or EventComplete
// arrives. Input errors are logged and returned once the stream is done.
func (d *Driver) ProcessEvents(events <-chan engine.Event) error {
	for evt := range events {
		switch evt.Type {
		case engine.EventRawLine:
			if d.passthrough != nil {
				if _, err := fmt.Fprintln(d.passthrough, string(evt.RawLine)); err != nil {
					return fmt.Errorf("writing passthrough output: %w", err)
				}
			}

		case engine.EventReport:
			d.Handle(evt.Report)

		case engine.EventError:
			d.logger.Error("reading events", zap.Error(evt.Error))
			if d.inputErr == nil {
				d.inputErr = fmt.Errorf("reading events: %w", evt.Error)
			}

		case engine.EventComplete:
			return d.finish()
		}
	}
	return d.finish()
}

func (d *Driver) finish() error {
	if d.inTestCase {
		d.logger.Warn("event stream ended inside a test case", zap.String("test_case", d.testCase.Name))
	}
	if errer, ok := d.reporter.(interface{ Err() error }); ok {
		if err := errer.Err(); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return d.inputErr
}

// HasFailures reports whether any test case or assertion failed unexpectedly.
func (d *Driver) HasFailures() bool {
	totals := d.tally.Totals()
	return d.reportedFailure || totals.Assertions.Failed > 0 || totals.TestCases.Failed > 0
}

// Handle forwards a single parsed event to the reporter.
func (d *Driver) Handle(e parser.Event) {
	d.logger.Debug("event", zap.String("action", string(e.Action)))

	if e.Action != parser.ActionRunStarting && e.Action != parser.ActionNoMatchingTestCases && !d.runStarted {
		d.startRun(results.RunInfo{})
	}

	switch e.Action {
	case parser.ActionNoMatchingTestCases:
		d.reporter.NoMatchingTestCases(e.Spec)

	case parser.ActionRunStarting:
		d.startRun(*e.Run)

	case parser.ActionGroupStarting:
		d.tally.StartGroup()
		d.reporter.TestGroupStarting(*e.Group)

	case parser.ActionTestCaseStarting:
		d.tally.StartTestCase(*e.TestCase)
		d.inTestCase = true
		d.testCase = *e.TestCase
		d.rootSection = false
		d.hasChildren = d.hasChildren[:0]
		d.reporter.TestCaseStarting(*e.TestCase)

	case parser.ActionSectionStarting:
		d.startSection(*e.Section)

	case parser.ActionAssertionStarting:
		d.ensureSection()
		d.reporter.AssertionStarting(*e.Assertion)

	case parser.ActionAssertionEnded:
		d.ensureSection()
		stats := *e.AssertionStats
		running := d.tally.AddAssertion(stats.Result)
		if stats.Totals == nil {
			stats.Totals = &running
		}
		d.reporter.AssertionEnded(stats)

	case parser.ActionBenchmarkStarting:
		d.ensureSection()
		d.reporter.BenchmarkStarting(*e.Benchmark)

	case parser.ActionBenchmarkEnded:
		d.ensureSection()
		d.reporter.BenchmarkEnded(*e.BenchmarkStats)

	case parser.ActionSectionEnded:
		if len(d.hasChildren) == 0 {
			d.logger.Warn("section ended without being started", zap.String("section", e.SectionStats.Section.Name))
			return
		}
		d.endSection(*e.SectionStats)

	case parser.ActionTestCaseEnded:
		d.endTestCase(*e.TestCaseStats)

	case parser.ActionGroupEnded:
		stats := *e.GroupStats
		group := d.tally.EndGroup()
		if stats.Totals == nil {
			stats.Totals = &group
		}
		d.reporter.TestGroupEnded(stats)

	case parser.ActionRunEnded:
		stats := *e.RunStats
		if stats.Totals == nil {
			run := d.tally.Totals()
			stats.Totals = &run
		} else if !stats.Totals.TestCases.AllOk() || !stats.Totals.Assertions.AllOk() {
			d.reportedFailure = true
		}
		if stats.Run.Name == "" {
			stats.Run.Name = d.cfg.Name
		}
		d.reporter.TestRunEnded(stats)
		d.runStarted = false
	}
}

func (d *Driver) startRun(info results.RunInfo) {
	if info.Name == "" {
		info.Name = d.cfg.Name
	}
	d.tally.StartRun()
	d.runStarted = true
	d.reporter.TestRunStarting(info)
}

func (d *Driver) startSection(info results.SectionInfo) {
	if n := len(d.hasChildren); n > 0 {
		d.hasChildren[n-1] = true
	}
	d.hasChildren = append(d.hasChildren, false)
	d.tally.StartSection()
	d.reporter.SectionStarting(info)
}

// ensureSection opens a section named after the test case when an assertion or
// benchmark arrives before any section.
func (d *Driver) ensureSection() {
	if !d.inTestCase || len(d.hasChildren) > 0 {
		return
	}
	d.rootSection = true
	d.startSection(results.SectionInfo{Name: d.testCase.Name, Source: d.testCase.Source})
}

func (d *Driver) endSection(stats results.SectionStats) {
	n := len(d.hasChildren)
	leaf := !d.hasChildren[n-1]
	d.hasChildren = d.hasChildren[:n-1]

	counts := d.tally.EndSection()
	if stats.Assertions == nil {
		stats.Assertions = &counts
	}
	if d.cfg.WarnNoAssertions && leaf && stats.Assertions.Total() == 0 {
		// an empty leaf section counts as a failed assertion
		stats.MissingAssertions = true
		stats.Assertions.Failed++
		d.tally.AddAssertion(results.AssertionResult{Kind: results.ResultExplicitFailure})
	}
	d.reporter.SectionEnded(stats)
}

func (d *Driver) endTestCase(stats results.TestCaseStats) {
	if d.rootSection && len(d.hasChildren) == 1 {
		d.endSection(results.SectionStats{
			Section: results.SectionInfo{Name: d.testCase.Name, Source: d.testCase.Source},
		})
	}
	if len(d.hasChildren) > 0 {
		d.logger.Warn("test case ended with open sections",
			zap.String("test_case", d.testCase.Name), zap.Int("open", len(d.hasChildren)))
		d.hasChildren = d.hasChildren[:0]
	}

	delta := d.tally.EndTestCase()
	if stats.Totals == nil {
		stats.Totals = &delta
	}
	if stats.TestCase.Name == "" {
		stats.TestCase = d.testCase
	}
	d.inTestCase = false
	d.rootSection = false
	d.reporter.TestCaseEnded(stats)
}
