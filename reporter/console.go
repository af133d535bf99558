package reporter

import (
	"io"
	"strconv"
	"strings"

	"github.com/ansel1/tally/config"
	"github.com/ansel1/tally/output/format"
	"github.com/ansel1/tally/results"
)

// Version is announced in the run banner. Overridden at link time by release builds.
var Version = "0.1.0"

// Console writes a plain-text report meant to be read top to bottom in a terminal.
//
// Run, group and test case headers are printed lazily, only once something inside
// them is reported, so a passing run prints little more than its totals.
type Console struct {
	Streaming

	cfg     *config.Config
	out     *format.StickyWriter
	width   int
	palette *format.Palette
	table   *format.TablePrinter

	headerPrinted bool
}

var _ Reporter = (*Console)(nil)

// NewConsole creates a console reporter writing to w. Width and colour are resolved
// from cfg against w.
func NewConsole(w io.Writer, cfg *config.Config) *Console {
	if cfg == nil {
		cfg = config.Default()
	}
	out := format.NewStickyWriter(w)
	width := cfg.ConsoleWidth(w)
	return &Console{
		cfg:     cfg,
		out:     out,
		width:   width,
		palette: format.NewPalette(w, cfg.UseColour(w)),
		table: format.NewTablePrinter(out, width, []format.ColumnInfo{
			{Name: "benchmark name", Width: width - 32, Justification: format.Left},
			{Name: "iters", Width: 8, Justification: format.Right},
			{Name: "elapsed ns", Width: 14, Justification: format.Right},
			{Name: "average", Width: 14, Justification: format.Right},
		}),
	}
}

// Err returns the first error returned by the underlying writer.
func (c *Console) Err() error {
	return c.out.Err()
}

func (c *Console) print(s string) {
	c.out.Print(s)
}

func (c *Console) paint(colour format.Colour, s string) string {
	return c.palette.Paint(colour, s)
}

func (c *Console) line(ch rune) string {
	return format.LineOfChars(ch, c.width)
}

func (c *Console) NoMatchingTestCases(spec string) {
	c.print("No test cases matched '" + spec + "'\n")
}

func (c *Console) AssertionEnded(stats results.AssertionStats) bool {
	result := stats.Result
	includeResults := c.cfg.IncludeSuccessfulResults || !result.IsOk()

	if !includeResults && result.Kind != results.ResultWarning {
		return false
	}

	c.lazyPrint()
	newAssertionPrinter(c, stats, includeResults).print()
	c.print("\n")
	return true
}

func (c *Console) SectionStarting(info results.SectionInfo) {
	c.headerPrinted = false
	c.Streaming.SectionStarting(info)
}

func (c *Console) SectionEnded(stats results.SectionStats) {
	c.table.Close()
	if stats.MissingAssertions {
		c.lazyPrint()
		what := "test case"
		if len(c.SectionStack) > 1 {
			what = "section"
		}
		c.print(c.paint(format.ResultError, "\nNo assertions in "+what+" '"+stats.Section.Name+"'\n") + "\n")
	}
	if c.showDuration(stats) {
		c.print(format.FormatSeconds(stats.DurationSeconds) + " s: " + stats.Section.Name + "\n")
	}
	c.headerPrinted = false
	c.Streaming.SectionEnded(stats)
}

func (c *Console) showDuration(stats results.SectionStats) bool {
	switch c.cfg.ShowDurations {
	case config.DurationsAlways:
		return true
	case config.DurationsOnFailure:
		return stats.Assertions != nil && stats.Assertions.Failed > 0
	}
	return false
}

func (c *Console) BenchmarkStarting(info results.BenchmarkInfo) {
	c.lazyPrintWithoutClosingBenchmarkTable()

	name := format.Column{Text: info.Name, Width: c.table.Columns()[0].Width - 2}
	for i, line := range name.Lines() {
		if i > 0 {
			c.table.ColumnBreak().ColumnBreak().ColumnBreak()
		}
		c.table.Cell(line).ColumnBreak()
	}
}

func (c *Console) BenchmarkEnded(stats results.BenchmarkStats) {
	c.table.
		Cell(stats.Iterations).ColumnBreak().
		Cell(stats.ElapsedNanoseconds).ColumnBreak().
		Cell(format.Duration(stats.Average())).ColumnBreak()
}

func (c *Console) TestCaseEnded(stats results.TestCaseStats) {
	c.table.Close()
	c.Streaming.TestCaseEnded(stats)
	c.headerPrinted = false
}

func (c *Console) TestGroupEnded(stats results.GroupStats) {
	if c.CurrentGroup.Used {
		c.print(c.line('-') + "\n")
		c.print("Summary for group '" + stats.Group.Name + "':\n")
		c.printTotals(totalsOf(stats.Totals))
		c.print("\n\n")
	}
	c.Streaming.TestGroupEnded(stats)
}

func (c *Console) TestRunEnded(stats results.RunStats) {
	totals := totalsOf(stats.Totals)
	c.printTotalsDivider(totals)
	c.printTotals(totals)
	c.print("\n")
	c.Streaming.TestRunEnded(stats)
}

func totalsOf(t *results.Totals) results.Totals {
	if t == nil {
		return results.Totals{}
	}
	return *t
}

func (c *Console) lazyPrint() {
	c.table.Close()
	c.lazyPrintWithoutClosingBenchmarkTable()
}

func (c *Console) lazyPrintWithoutClosingBenchmarkTable() {
	if !c.CurrentRun.Used {
		c.lazyPrintRunInfo()
	}
	if !c.CurrentGroup.Used {
		c.lazyPrintGroupInfo()
	}
	if !c.headerPrinted {
		c.printTestCaseAndSectionHeader()
		c.headerPrinted = true
	}
}

func (c *Console) lazyPrintRunInfo() {
	c.print("\n" + c.line('~') + "\n")
	banner := c.CurrentRun.Value.Name + " is a tally v" + Version + " host application.\n" +
		"Run with --help for options\n\n"
	if seed := c.cfg.RNGSeed; seed != 0 {
		banner += "Randomness seeded to: " + strconv.FormatUint(seed, 10) + "\n\n"
	}
	c.print(c.paint(format.SecondaryText, banner))
	c.CurrentRun.Used = true
}

func (c *Console) lazyPrintGroupInfo() {
	group := c.CurrentGroup.Value
	if group.Name != "" && group.Count > 1 {
		c.printClosedHeader("Group: " + group.Name)
		c.CurrentGroup.Used = true
	}
}

func (c *Console) printTestCaseAndSectionHeader() {
	if len(c.SectionStack) == 0 {
		panic("reporter: test case header printed outside of any section")
	}
	c.printOpenHeader(c.CurrentTestCase.Value.Name)

	for _, section := range c.SectionStack[1:] {
		c.print(c.paint(format.Headers, c.headerString(section.Name, 2)))
	}

	if source := c.SectionStack[len(c.SectionStack)-1].Source; !source.Empty() {
		c.print(c.line('-') + "\n")
		c.print(c.paint(format.FileName, source.String()) + "\n")
	}
	c.print(c.line('.') + "\n\n")
}

func (c *Console) printClosedHeader(name string) {
	c.printOpenHeader(name)
	c.print(c.line('.') + "\n")
}

func (c *Console) printOpenHeader(name string) {
	c.print(c.line('-') + "\n")
	c.print(c.paint(format.Headers, c.headerString(name, 0)))
}

// headerString wraps s to the console width. If s contains ": ", continuation lines
// line up with the text that follows it.
func (c *Console) headerString(s string, indent int) string {
	hang := 0
	if i := strings.Index(s, ": "); i >= 0 {
		hang = i + 2
	}
	col := format.NewColumn(s, c.width).WithIndent(indent + hang).WithInitialIndent(indent)
	return col.String() + "\n"
}
