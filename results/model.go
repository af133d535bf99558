package results

import (
	"fmt"
	"strconv"
)

// SourceLineInfo identifies a location in the code under test.
type SourceLineInfo struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`
}

// Empty reports whether the location is unknown.
func (s SourceLineInfo) Empty() bool {
	return s.File == ""
}

func (s SourceLineInfo) String() string {
	if s.Line <= 0 {
		return s.File
	}
	return s.File + ":" + strconv.Itoa(s.Line)
}

// RunInfo describes a whole test run.
type RunInfo struct {
	Name string `json:"name"`
}

// GroupInfo describes a group of test cases within a run.
//
// Count is the number of groups in the run, Index is 1-based.
type GroupInfo struct {
	Name  string `json:"name"`
	Index int    `json:"index,omitempty"`
	Count int    `json:"count,omitempty"`
}

// TestCaseInfo describes a single test case.
type TestCaseInfo struct {
	Name        string         `json:"name"`
	ClassName   string         `json:"class_name,omitempty"`
	Description string         `json:"description,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Source      SourceLineInfo `json:"source,omitempty"`

	// OkToFail counts failures as failed-but-ok.
	OkToFail bool `json:"ok_to_fail,omitempty"`
	// ExpectedToFail turns a passing test case into a failed one. Implies OkToFail.
	ExpectedToFail bool `json:"expected_to_fail,omitempty"`
}

// MayFail reports whether failures in this test case are tolerated.
func (tc TestCaseInfo) MayFail() bool {
	return tc.OkToFail || tc.ExpectedToFail
}

// SectionInfo describes a (possibly nested) section of a test case.
type SectionInfo struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Source      SourceLineInfo `json:"source,omitempty"`
}

// ResultKind classifies the outcome of a single assertion or message.
type ResultKind int

const (
	ResultUnknown ResultKind = iota
	ResultOk
	ResultInfo
	ResultWarning
	ResultExpressionFailed
	ResultExplicitFailure
	ResultThrewException
	ResultFatalErrorCondition
	ResultDidntThrowException
)

var resultKindNames = map[ResultKind]string{
	ResultUnknown:             "unknown",
	ResultOk:                  "ok",
	ResultInfo:                "info",
	ResultWarning:             "warning",
	ResultExpressionFailed:    "expression_failed",
	ResultExplicitFailure:     "explicit_failure",
	ResultThrewException:      "threw_exception",
	ResultFatalErrorCondition: "fatal_error_condition",
	ResultDidntThrowException: "didnt_throw_exception",
}

func (k ResultKind) String() string {
	if name, ok := resultKindNames[k]; ok {
		return name
	}
	return "ResultKind(" + strconv.Itoa(int(k)) + ")"
}

// IsOk reports whether the kind is not a failure.
func (k ResultKind) IsOk() bool {
	switch k {
	case ResultOk, ResultInfo, ResultWarning:
		return true
	}
	return false
}

// MarshalText implements encoding.TextMarshaler.
func (k ResultKind) MarshalText() ([]byte, error) {
	name, ok := resultKindNames[k]
	if !ok {
		return nil, fmt.Errorf("invalid result kind %d", int(k))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ResultKind) UnmarshalText(text []byte) error {
	s := string(text)
	for kind, name := range resultKindNames {
		if name == s && kind != ResultUnknown {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown result kind %q", s)
}

// MessageInfo is a free-form message attached to an assertion (INFO, WARN, ...).
type MessageInfo struct {
	Macro   string         `json:"macro,omitempty"`
	Source  SourceLineInfo `json:"source,omitempty"`
	Kind    ResultKind     `json:"kind"`
	Message string         `json:"message"`
}

// AssertionInfo is known before an assertion is evaluated.
type AssertionInfo struct {
	Macro      string         `json:"macro,omitempty"`
	Expression string         `json:"expression,omitempty"`
	Source     SourceLineInfo `json:"source,omitempty"`
}

// AssertionResult is the evaluated outcome of an assertion.
type AssertionResult struct {
	Kind       ResultKind     `json:"kind"`
	Macro      string         `json:"macro,omitempty"`
	Expression string         `json:"expression,omitempty"`
	Expanded   string         `json:"expanded,omitempty"`
	Message    string         `json:"message,omitempty"`
	Source     SourceLineInfo `json:"source,omitempty"`

	// SuppressFailure marks non-fatal checks (CHECK_NOFAIL) whose failure is reported as ok.
	SuppressFailure bool `json:"suppress_failure,omitempty"`
}

// IsOk reports whether the result counts as a success.
func (r AssertionResult) IsOk() bool {
	return r.Kind.IsOk() || r.SuppressFailure
}

func (r AssertionResult) HasExpression() bool {
	return r.Expression != ""
}

func (r AssertionResult) HasExpandedExpression() bool {
	return r.HasExpression() && r.Expanded != "" && r.Expanded != r.Expression
}

// ExpressionInMacro renders the expression the way it was written, e.g. "REQUIRE( a == b )".
func (r AssertionResult) ExpressionInMacro() string {
	if r.Macro == "" {
		return r.Expression
	}
	return r.Macro + "( " + r.Expression + " )"
}

// AssertionStats is reported once per evaluated assertion.
//
// Totals holds the running totals of the run, including this assertion.
type AssertionStats struct {
	Result   AssertionResult `json:"result"`
	Messages []MessageInfo   `json:"messages,omitempty"`
	Totals   *Totals         `json:"totals,omitempty"`
}

// InfoMessages returns the attached messages followed by the result's own message,
// if any, reported with the result's kind.
func (s AssertionStats) InfoMessages() []MessageInfo {
	if s.Result.Message == "" {
		return s.Messages
	}
	msgs := make([]MessageInfo, 0, len(s.Messages)+1)
	msgs = append(msgs, s.Messages...)
	return append(msgs, MessageInfo{
		Macro:   s.Result.Macro,
		Source:  s.Result.Source,
		Kind:    s.Result.Kind,
		Message: s.Result.Message,
	})
}

// BenchmarkInfo is reported when a benchmark starts.
type BenchmarkInfo struct {
	Name string `json:"name"`
}

// BenchmarkStats is reported when a benchmark finishes.
type BenchmarkStats struct {
	Name               string `json:"name"`
	Iterations         uint64 `json:"iterations"`
	ElapsedNanoseconds uint64 `json:"elapsed_ns"`
}

// Average returns the mean time per iteration in nanoseconds, or 0 without iterations.
func (b BenchmarkStats) Average() uint64 {
	if b.Iterations == 0 {
		return 0
	}
	return b.ElapsedNanoseconds / b.Iterations
}

// SectionStats is reported when a section ends.
type SectionStats struct {
	Section           SectionInfo `json:"section"`
	Assertions        *Counts     `json:"assertions,omitempty"`
	DurationSeconds   float64     `json:"duration_seconds,omitempty"`
	MissingAssertions bool        `json:"missing_assertions,omitempty"`
}

// TestCaseStats is reported when a test case ends.
type TestCaseStats struct {
	TestCase TestCaseInfo `json:"test_case"`
	Totals   *Totals      `json:"totals,omitempty"`
	Aborting bool         `json:"aborting,omitempty"`
}

// GroupStats is reported when a group ends.
type GroupStats struct {
	Group    GroupInfo `json:"group"`
	Totals   *Totals   `json:"totals,omitempty"`
	Aborting bool      `json:"aborting,omitempty"`
}

// RunStats is reported when the run ends.
type RunStats struct {
	Run      RunInfo `json:"run"`
	Totals   *Totals `json:"totals,omitempty"`
	Aborting bool    `json:"aborting,omitempty"`
}
