package reporter

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/ansel1/tally/output/format"
	"github.com/ansel1/tally/results"
)

type summaryColumn struct {
	label  string
	colour format.Colour
	rows   []string
	counts []uint64
}

// addRow appends count, right-aligning it with the rows already in the column.
func (sc summaryColumn) addRow(count uint64) summaryColumn {
	row := strconv.FormatUint(count, 10)
	for i, old := range sc.rows {
		if len(old) < len(row) {
			sc.rows[i] = strings.Repeat(" ", len(row)-len(old)) + old
		} else if len(old) > len(row) {
			row = strings.Repeat(" ", len(old)-len(row)) + row
		}
	}
	sc.rows = append(sc.rows, row)
	sc.counts = append(sc.counts, count)
	return sc
}

func (c *Console) printTotals(totals results.Totals) {
	switch {
	case totals.TestCases.Total() == 0:
		c.print(c.paint(format.Warning, "No tests ran") + "\n")
	case totals.Assertions.Total() > 0 && totals.TestCases.AllPassed():
		c.print(c.paint(format.ResultSuccess, "All tests passed"))
		c.print(" (" + format.Pluralise(totals.Assertions.Passed, "assertion") + " in " +
			format.Pluralise(totals.TestCases.Passed, "test case") + ")\n")
	default:
		columns := []summaryColumn{
			summaryColumn{colour: format.None}.
				addRow(totals.TestCases.Total()).
				addRow(totals.Assertions.Total()),
			summaryColumn{label: "passed", colour: format.Success}.
				addRow(totals.TestCases.Passed).
				addRow(totals.Assertions.Passed),
			summaryColumn{label: "failed", colour: format.ResultError}.
				addRow(totals.TestCases.Failed).
				addRow(totals.Assertions.Failed),
			summaryColumn{label: "failed as expected", colour: format.ResultExpectedFailure}.
				addRow(totals.TestCases.FailedButOk).
				addRow(totals.Assertions.FailedButOk),
		}
		c.printSummaryRow("test cases", columns, 0)
		c.printSummaryRow("assertions", columns, 1)
	}
}

// printSummaryRow prints one row of the totals table. Columns whose count is zero
// are left out, except the total which reads "- none -".
func (c *Console) printSummaryRow(label string, columns []summaryColumn, row int) {
	var sb strings.Builder
	for _, col := range columns {
		value, count := col.rows[row], col.counts[row]
		switch {
		case col.label == "":
			sb.WriteString(label + ": ")
			if count != 0 {
				sb.WriteString(value)
			} else {
				sb.WriteString(c.paint(format.Warning, "- none -"))
			}
		case count != 0:
			sb.WriteString(c.paint(format.LightGrey, " | "))
			sb.WriteString(c.paint(col.colour, value+" "+col.label))
		}
	}
	c.print(sb.String() + "\n")
}

// printTotalsDivider prints a bar of '=' split between failed, failed-as-expected
// and passed test cases in proportion to their counts.
func (c *Console) printTotalsDivider(totals results.Totals) {
	if totals.TestCases.Total() == 0 {
		c.print(c.paint(format.Warning, strings.Repeat("=", c.width-1)) + "\n")
		return
	}
	failed, failedButOk, passed := DividerSegments(totals.TestCases, c.width)

	passedColour := format.Success
	if totals.TestCases.AllPassed() {
		passedColour = format.ResultSuccess
	}
	c.print(c.paint(format.Error, strings.Repeat("=", failed)) +
		c.paint(format.ResultExpectedFailure, strings.Repeat("=", failedButOk)) +
		c.paint(passedColour, strings.Repeat("=", passed)) + "\n")
}

// DividerSegments splits a bar of width-1 characters between the failed,
// failed-but-ok and passed counts. Every non-zero count gets at least one character.
// Rounding errors are absorbed by the largest segment; on a tie the later of the
// tied segments (in failed, failed-but-ok, passed order) is adjusted.
func DividerSegments(counts results.Counts, width int) (failed, failedButOk, passed int) {
	total := counts.Total()
	target := width - 1
	failed = makeRatio(counts.Failed, total, width)
	failedButOk = makeRatio(counts.FailedButOk, total, width)
	passed = makeRatio(counts.Passed, total, width)

	if total == 0 {
		return failed, failedButOk, passed
	}
	for failed+failedButOk+passed < target {
		*findMax(&failed, &failedButOk, &passed)++
	}
	for failed+failedButOk+passed > target {
		*findMax(&failed, &failedButOk, &passed)--
	}
	return failed, failedButOk, passed
}

func makeRatio(number, total uint64, width int) int {
	ratio := 0
	if total > 0 {
		hi, lo := bits.Mul64(uint64(width), number)
		q, _ := bits.Div64(hi, lo, total)
		ratio = int(q)
	}
	if ratio == 0 && number > 0 {
		return 1
	}
	return ratio
}

func findMax(i, j, k *int) *int {
	switch {
	case *i > *j && *i > *k:
		return i
	case *j > *k:
		return j
	}
	return k
}
