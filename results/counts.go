package results

// Counts splits a number of test cases or assertions by outcome.
//
// Total is always Passed + Failed + FailedButOk.
type Counts struct {
	Passed      uint64 `json:"passed"`
	Failed      uint64 `json:"failed"`
	FailedButOk uint64 `json:"failed_but_ok"`
}

func (c Counts) Total() uint64 {
	return c.Passed + c.Failed + c.FailedButOk
}

// AllPassed reports whether nothing failed, expected or not.
func (c Counts) AllPassed() bool {
	return c.Failed == 0 && c.FailedButOk == 0
}

// AllOk reports whether nothing failed unexpectedly.
func (c Counts) AllOk() bool {
	return c.Failed == 0
}

func (c Counts) Add(o Counts) Counts {
	return Counts{
		Passed:      c.Passed + o.Passed,
		Failed:      c.Failed + o.Failed,
		FailedButOk: c.FailedButOk + o.FailedButOk,
	}
}

// Sub subtracts o from c. o must be an earlier snapshot of the same counter.
func (c Counts) Sub(o Counts) Counts {
	return Counts{
		Passed:      c.Passed - o.Passed,
		Failed:      c.Failed - o.Failed,
		FailedButOk: c.FailedButOk - o.FailedButOk,
	}
}

// Totals holds counters at both test case and assertion granularity.
type Totals struct {
	Assertions Counts `json:"assertions"`
	TestCases  Counts `json:"test_cases"`
}

func (t Totals) Add(o Totals) Totals {
	return Totals{
		Assertions: t.Assertions.Add(o.Assertions),
		TestCases:  t.TestCases.Add(o.TestCases),
	}
}

func (t Totals) Sub(o Totals) Totals {
	return Totals{
		Assertions: t.Assertions.Sub(o.Assertions),
		TestCases:  t.TestCases.Sub(o.TestCases),
	}
}

// Delta returns the totals accumulated since prev, counting exactly one test case:
// failed if any assertion failed, failed-but-ok if any failure was tolerated, passed
// otherwise.
func (t Totals) Delta(prev Totals) Totals {
	diff := t.Sub(prev)
	switch {
	case diff.Assertions.Failed > 0:
		diff.TestCases.Failed++
	case diff.Assertions.FailedButOk > 0:
		diff.TestCases.FailedButOk++
	default:
		diff.TestCases.Passed++
	}
	return diff
}
