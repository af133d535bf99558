package format

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// DefaultConsoleWidth is used when the terminal width is unknown.
const DefaultConsoleWidth = 80

// LineOfChars returns a rule one character narrower than the console, so that it
// never triggers an automatic line wrap.
func LineOfChars(ch rune, consoleWidth int) string {
	if consoleWidth < 2 {
		return string(ch)
	}
	return strings.Repeat(string(ch), consoleWidth-1)
}

// Pluralise renders a count with its noun, adding "s" unless count is 1.
func Pluralise(count uint64, noun string) string {
	s := strconv.FormatUint(count, 10) + " " + noun
	if count != 1 {
		s += "s"
	}
	return s
}

// Column lays out text in a column of the given total width.
//
// The first line is indented by InitialIndent, every other line by Indent. Lines are
// broken at word boundaries where possible; embedded newlines start new paragraphs.
type Column struct {
	Text          string
	Width         int
	Indent        int
	InitialIndent int
}

// NewColumn creates a column as wide as the console rule.
func NewColumn(text string, consoleWidth int) Column {
	return Column{Text: text, Width: consoleWidth - 1}
}

// WithIndent sets the indent of every line, including the first.
func (c Column) WithIndent(n int) Column {
	c.Indent = n
	c.InitialIndent = n
	return c
}

// WithInitialIndent overrides the indent of the first line.
func (c Column) WithInitialIndent(n int) Column {
	c.InitialIndent = n
	return c
}

// Lines returns the laid out, indented lines.
func (c Column) Lines() []string {
	var lines []string
	first := true
	for _, para := range strings.Split(c.Text, "\n") {
		for _, line := range c.wrapParagraph(para, first) {
			indent := c.Indent
			if first {
				indent = c.InitialIndent
				first = false
			}
			lines = append(lines, strings.TrimRight(strings.Repeat(" ", indent)+line, " "))
		}
	}
	return lines
}

// String joins the lines with newlines, without a trailing newline.
func (c Column) String() string {
	return strings.Join(c.Lines(), "\n")
}

func (c Column) wrapParagraph(para string, first bool) []string {
	rest := max(c.Width-c.Indent, 1)
	limit := rest
	if first {
		limit = max(c.Width-c.InitialIndent, 1)
	}
	if runewidth.StringWidth(para) <= limit {
		return []string{para}
	}
	if limit == rest {
		return strings.Split(ansi.Wrap(para, limit, ""), "\n")
	}

	// The first line has its own width: wrap it alone, then lay out the remainder.
	head, _, _ := strings.Cut(ansi.Wrap(para, limit, ""), "\n")
	if !strings.HasPrefix(para, head) || head == "" {
		return strings.Split(ansi.Wrap(para, rest, ""), "\n")
	}
	remainder := strings.TrimLeft(para[len(head):], " ")
	if remainder == "" {
		return []string{head}
	}
	return append([]string{head}, strings.Split(ansi.Wrap(remainder, rest, ""), "\n")...)
}
