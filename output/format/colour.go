package format

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Colour names a console colour, either literally or by what it is used for.
type Colour int

const (
	None Colour = iota
	White
	Red
	Green
	Blue
	Cyan
	Yellow
	Grey
	LightGrey
	BrightRed
	BrightGreen
	BrightWhite
	BrightYellow

	FileName                = LightGrey
	Warning                 = BrightYellow
	ResultError             = BrightRed
	ResultSuccess           = BrightGreen
	ResultExpectedFailure   = Warning
	Error                   = BrightRed
	Success                 = Green
	OriginalExpression      = Cyan
	ReconstructedExpression = BrightYellow
	SecondaryText           = LightGrey
	Headers                 = White
)

// Palette paints text with lipgloss styles. A disabled palette returns text unchanged.
type Palette struct {
	enabled bool
	styles  map[Colour]lipgloss.Style
}

// NewPalette creates a palette for output written to w.
func NewPalette(w io.Writer, enabled bool) *Palette {
	r := lipgloss.NewRenderer(w)
	if enabled {
		r.SetColorProfile(termenv.ANSI)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return &Palette{
		enabled: enabled,
		styles: map[Colour]lipgloss.Style{
			White:        r.NewStyle().Bold(true),
			Red:          fg("1"),
			Green:        fg("2"),
			Yellow:       fg("3"),
			Blue:         fg("4"),
			Cyan:         fg("6"),
			LightGrey:    fg("7"),
			Grey:         fg("8"),
			BrightRed:    fg("9").Bold(true),
			BrightGreen:  fg("10").Bold(true),
			BrightYellow: fg("11").Bold(true),
			BrightWhite:  fg("15").Bold(true),
		},
	}
}

// Enabled reports whether the palette emits escape sequences.
func (p *Palette) Enabled() bool {
	return p != nil && p.enabled
}

// Paint renders s in colour c. Multi-line text is painted line by line so the
// newlines themselves stay unstyled.
func (p *Palette) Paint(c Colour, s string) string {
	if !p.Enabled() || c == None || s == "" {
		return s
	}
	style, ok := p.styles[c]
	if !ok {
		return s
	}
	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
