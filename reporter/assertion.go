package reporter

import (
	"github.com/ansel1/tally/output/format"
	"github.com/ansel1/tally/results"
)

type assertionPrinter struct {
	c                 *Console
	stats             results.AssertionStats
	result            results.AssertionResult
	colour            format.Colour
	passOrFail        string
	messageLabel      string
	messages          []results.MessageInfo
	printInfoMessages bool
}

func newAssertionPrinter(c *Console, stats results.AssertionStats, printInfoMessages bool) *assertionPrinter {
	p := &assertionPrinter{
		c:                 c,
		stats:             stats,
		result:            stats.Result,
		colour:            format.None,
		messages:          stats.InfoMessages(),
		printInfoMessages: printInfoMessages,
	}

	// "message" or "messages" after prefix, or nothing when there are none.
	withMessages := func(prefix string) string {
		switch len(p.messages) {
		case 0:
			return ""
		case 1:
			return prefix + "message"
		}
		return prefix + "messages"
	}

	switch p.result.Kind {
	case results.ResultOk:
		p.colour = format.Success
		p.passOrFail = "PASSED"
		p.messageLabel = withMessages("with ")
	case results.ResultExpressionFailed:
		if p.result.IsOk() {
			p.colour = format.Success
			p.passOrFail = "FAILED - but was ok"
		} else {
			p.colour = format.Error
			p.passOrFail = "FAILED"
		}
		p.messageLabel = withMessages("with ")
	case results.ResultThrewException:
		p.colour = format.Error
		p.passOrFail = "FAILED"
		p.messageLabel = "due to unexpected exception with "
		if len(p.messages) > 0 {
			p.messageLabel = withMessages(p.messageLabel)
		}
	case results.ResultFatalErrorCondition:
		p.colour = format.Error
		p.passOrFail = "FAILED"
		p.messageLabel = "due to a fatal error condition"
	case results.ResultDidntThrowException:
		p.colour = format.Error
		p.passOrFail = "FAILED"
		p.messageLabel = "because no exception was thrown where one was expected"
	case results.ResultInfo:
		p.messageLabel = "info"
	case results.ResultWarning:
		p.messageLabel = "warning"
	case results.ResultExplicitFailure:
		p.colour = format.Error
		p.passOrFail = "FAILED"
		p.messageLabel = withMessages("explicitly with ")
	default:
		p.colour = format.Error
		p.passOrFail = "** internal error **"
	}
	return p
}

func (p *assertionPrinter) print() {
	p.printSourceInfo()
	if p.hasCountedAssertions() {
		if p.result.IsOk() {
			p.c.print("\n")
		}
		p.printResultType()
		p.printOriginalExpression()
		p.printReconstructedExpression()
	} else {
		p.c.print("\n")
	}
	p.printMessage()
}

// hasCountedAssertions reports whether the running totals include any assertion.
// Streams that omit totals are assumed to count everything but info and warnings.
func (p *assertionPrinter) hasCountedAssertions() bool {
	if p.stats.Totals != nil {
		return p.stats.Totals.Assertions.Total() > 0
	}
	return p.result.Kind != results.ResultInfo && p.result.Kind != results.ResultWarning
}

func (p *assertionPrinter) printSourceInfo() {
	p.c.print(p.c.paint(format.FileName, p.result.Source.String()+": "))
}

func (p *assertionPrinter) printResultType() {
	if p.passOrFail != "" {
		p.c.print(p.c.paint(p.colour, p.passOrFail+":") + "\n")
	}
}

func (p *assertionPrinter) printOriginalExpression() {
	if p.result.HasExpression() {
		p.c.print(p.c.paint(format.OriginalExpression, "  "+p.result.ExpressionInMacro()) + "\n")
	}
}

func (p *assertionPrinter) printReconstructedExpression() {
	if p.result.HasExpandedExpression() {
		p.c.print("with expansion:\n")
		expanded := format.NewColumn(p.result.Expanded, p.c.width).WithIndent(2)
		p.c.print(p.c.paint(format.ReconstructedExpression, expanded.String()) + "\n")
	}
}

func (p *assertionPrinter) printMessage() {
	if p.messageLabel != "" {
		p.c.print(p.messageLabel + ":\n")
	}
	for _, msg := range p.messages {
		if p.printInfoMessages || msg.Kind != results.ResultInfo {
			p.c.print(format.NewColumn(msg.Message, p.c.width).WithIndent(2).String() + "\n")
		}
	}
}
