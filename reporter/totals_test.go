package reporter

import (
	"fmt"
	"testing"

	"github.com/ansel1/tally/results"
	"github.com/stretchr/testify/assert"
)

func TestPrintTotals(t *testing.T) {
	tests := []struct {
		name     string
		totals   results.Totals
		expected string
	}{
		{
			name:     "nothing ran",
			totals:   results.Totals{},
			expected: "No tests ran\n",
		},
		{
			name: "all passed",
			totals: results.Totals{
				Assertions: results.Counts{Passed: 1},
				TestCases:  results.Counts{Passed: 1},
			},
			expected: "All tests passed (1 assertion in 1 test case)\n",
		},
		{
			name: "aligned columns",
			totals: results.Totals{
				Assertions: results.Counts{Passed: 12, Failed: 3},
				TestCases:  results.Counts{Passed: 2, Failed: 1},
			},
			expected: "test cases:  3 |  2 passed | 1 failed\n" +
				"assertions: 15 | 12 passed | 3 failed\n",
		},
		{
			name: "passed test cases without assertions",
			totals: results.Totals{
				TestCases: results.Counts{Passed: 2},
			},
			expected: "test cases: 2 | 2 passed\n" +
				"assertions: - none -\n",
		},
		{
			name: "failed as expected",
			totals: results.Totals{
				Assertions: results.Counts{Passed: 4, FailedButOk: 10},
				TestCases:  results.Counts{FailedButOk: 1},
			},
			expected: "test cases:  1 |  1 failed as expected\n" +
				"assertions: 14 | 4 passed | 10 failed as expected\n",
		},
		{
			// a column is hidden by its count, even when padding widened its text
			name: "zero count padded by a wider row",
			totals: results.Totals{
				Assertions: results.Counts{Failed: 10},
				TestCases:  results.Counts{FailedButOk: 1},
			},
			expected: "test cases:  1 | 1 failed as expected\n" +
				"assertions: 10 | 10 failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, buf := newTestConsole()
			c.printTotals(tt.totals)
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestPropertyAllPassedSummary(t *testing.T) {
	for passed := uint64(1); passed <= 5; passed++ {
		for assertions := uint64(1); assertions <= 5; assertions++ {
			c, buf := newTestConsole()
			c.printTotals(results.Totals{
				Assertions: results.Counts{Passed: assertions},
				TestCases:  results.Counts{Passed: passed},
			})
			want := fmt.Sprintf("All tests passed (%s in %s)\n",
				pluralise(assertions, "assertion"), pluralise(passed, "test case"))
			assert.Equal(t, want, buf.String())
		}
	}
}

func pluralise(n uint64, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func TestDividerSegmentsTieBreak(t *testing.T) {
	// 40 + 40 overshoots by one; the later of the tied segments gives way
	failed, failedButOk, passed := DividerSegments(results.Counts{Failed: 1, Passed: 1}, 80)
	assert.Equal(t, []int{40, 0, 39}, []int{failed, failedButOk, passed})

	// 26 * 3 falls one short; the later of the tied segments grows
	failed, failedButOk, passed = DividerSegments(results.Counts{Failed: 1, FailedButOk: 1, Passed: 1}, 80)
	assert.Equal(t, []int{26, 26, 27}, []int{failed, failedButOk, passed})

	failed, failedButOk, passed = DividerSegments(results.Counts{Passed: 5}, 80)
	assert.Equal(t, []int{0, 0, 79}, []int{failed, failedButOk, passed})
}

// TestPropertyDividerSegments checks that the bar always spans width-1 characters
// and that no non-zero count disappears.
func TestPropertyDividerSegments(t *testing.T) {
	for _, width := range []int{20, 80, 133} {
		for f := uint64(0); f <= 12; f += 3 {
			for b := uint64(0); b <= 12; b += 4 {
				for p := uint64(0); p <= 200; p += 37 {
					counts := results.Counts{Failed: f, FailedButOk: b, Passed: p}
					if counts.Total() == 0 {
						continue
					}
					failed, failedButOk, passed := DividerSegments(counts, width)
					msg := fmt.Sprintf("counts %+v width %d", counts, width)

					assert.Equal(t, width-1, failed+failedButOk+passed, msg)
					assert.Equal(t, f > 0, failed > 0, msg)
					assert.Equal(t, b > 0, failedButOk > 0, msg)
					assert.Equal(t, p > 0, passed > 0, msg)
				}
			}
		}
	}
}

func TestTotalsDivider(t *testing.T) {
	c, buf := newTestConsole()
	c.printTotalsDivider(results.Totals{TestCases: results.Counts{Failed: 1, Passed: 3}})
	assert.Equal(t, equals+"\n", buf.String())

	buf.Reset()
	c.printTotalsDivider(results.Totals{})
	assert.Equal(t, equals+"\n", buf.String())
}

func TestMakeRatio(t *testing.T) {
	assert.Equal(t, 0, makeRatio(0, 10, 80))
	assert.Equal(t, 1, makeRatio(1, 1000, 80), "non-zero counts get at least one character")
	assert.Equal(t, 40, makeRatio(5, 10, 80))
	assert.Equal(t, 0, makeRatio(0, 0, 80))
	assert.Equal(t, 79, makeRatio(1<<62, 1<<62+1, 80), "huge counts do not overflow")
	assert.Equal(t, 80, makeRatio(1<<63, 1<<63, 80))
}

func TestDividerSegmentsHugeCounts(t *testing.T) {
	failed, failedButOk, passed := DividerSegments(results.Counts{Failed: 1 << 62, Passed: 1}, 80)
	assert.Equal(t, []int{78, 0, 1}, []int{failed, failedButOk, passed})
}
