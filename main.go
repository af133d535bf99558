package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ansel1/tally/config"
	"github.com/ansel1/tally/engine"
	"github.com/ansel1/tally/output"
	"github.com/ansel1/tally/output/format"
	"github.com/ansel1/tally/reporter"
	"github.com/ansel1/tally/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit statuses.
const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

var (
	errTestsFailed = errors.New("tests failed")
	errInterrupted = errors.New("interrupted")
)

type options struct {
	infile     string
	outfile    string
	jsonfile   string
	configPath string
	notty      bool
	replay     bool
	rate       float64
	verbose    bool

	success          bool
	durations        config.ShowDurations
	rngSeed          uint64
	width            int
	colour           config.ColourMode
	warnNoAssertions bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and maps its outcome to an exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errTestsFailed):
		return exitFailed
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{rate: 1.0}

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Console reporter for streamed test events",
		Long: `tally reads test events, one JSON object per line, and prints a console
report of failures, benchmarks and totals.

Lines that are not events are passed through unchanged. On a terminal the
report scrolls above a live progress line; use --notty for plain output.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, opts, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.infile, "file", "f", "", "read events from a file instead of stdin")
	f.StringVar(&opts.outfile, "outfile", "", "save all input lines to the specified file")
	f.StringVar(&opts.jsonfile, "jsonfile", "", "save event lines to the specified file")
	f.BoolVar(&opts.notty, "notty", false, "don't use the TUI, write the plain report to stdout")
	f.BoolVar(&opts.replay, "replay", false, "replay events with the timing of the original run (requires --file)")
	f.Float64Var(&opts.rate, "rate", 1.0, "replay rate multiplier (0=instant, 1=original speed, 0.5=2x speed)")
	f.StringVar(&opts.configPath, "config", "", "config file (default: "+config.FileName+" in this or a parent directory)")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	f.BoolVarP(&opts.success, "success", "s", false, "include successful results in the report")
	f.VarP(&opts.durations, "durations", "d", "show section durations: never, always or on-failure")
	f.Uint64Var(&opts.rngSeed, "rng-seed", 0, "random seed to announce in the run banner")
	f.IntVar(&opts.width, "width", 0, "console width (0 detects the terminal width)")
	f.Var(&opts.colour, "colour", "colour output: auto, yes or no")
	f.BoolVarP(&opts.warnNoAssertions, "warn-no-assertions", "w", false, "report sections that ran no assertions")

	return cmd
}

func runReport(cmd *cobra.Command, opts *options, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.replay && opts.infile == "" {
		return errors.New("--replay requires --file")
	}
	if opts.rate < 0 {
		return errors.New("--rate must be >= 0")
	}
	if opts.width < 0 {
		return errors.New("--width must be >= 0")
	}

	logger := newLogger(stderr, opts.verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(cmd, opts, logger)
	if err != nil {
		return err
	}

	var input io.Reader = stdin
	if opts.infile != "" {
		f, err := os.Open(opts.infile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer f.Close()

		input = f
		if opts.replay {
			rr, err := engine.NewReplayReader(f, opts.rate)
			if err != nil {
				return fmt.Errorf("creating replay reader: %w", err)
			}
			input = rr
		}
	}

	engineOpts := []engine.Option{engine.WithLogger(logger.Named("engine"))}
	if opts.outfile != "" {
		f, err := os.Create(opts.outfile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		engineOpts = append(engineOpts, engine.WithRawOutput(f))
	}
	if opts.jsonfile != "" {
		f, err := os.Create(opts.jsonfile)
		if err != nil {
			return fmt.Errorf("creating JSON file: %w", err)
		}
		defer f.Close()
		engineOpts = append(engineOpts, engine.WithJSONOutput(f))
	}

	events := engine.NewEngine(engineOpts...).Stream(input)

	// Skip the TUI when asked to, when reading a file without replay, or when
	// stdout is not a terminal.
	skipTUI := opts.notty || (opts.infile != "" && !opts.replay) || !format.IsTerminal(stdout)
	driverLogger := logger.Named("driver")

	if skipTUI {
		d := output.NewDriver(reporter.NewConsole(stdout, cfg),
			output.WithConfig(cfg),
			output.WithPassthrough(stdout),
			output.WithLogger(driverLogger),
		)
		if err := d.ProcessEvents(events); err != nil {
			return err
		}
		if d.HasFailures() {
			return errTestsFailed
		}
		return nil
	}

	return runTUI(cfg, opts, events, stdout, driverLogger)
}

// runTUI prints the report above a live progress view.
func runTUI(cfg *config.Config, opts *options, events <-chan engine.Event, stdout io.Writer, logger *zap.Logger) error {
	// The report is redirected through the program, so resolve the terminal's
	// width and colour support up front.
	tuiCfg := *cfg
	tuiCfg.Width = cfg.ConsoleWidth(stdout)
	tuiCfg.Colour = config.ColourNo
	if cfg.UseColour(stdout) {
		tuiCfg.Colour = config.ColourYes
	}

	m := tui.NewModel(opts.replay, opts.rate)
	p := tea.NewProgram(m, tea.WithOutput(stdout))

	lw := tui.NewLineWriter(p.Println)
	d := output.NewDriver(
		reporter.Multi{reporter.NewConsole(lw, &tuiCfg), tui.NewListener(p.Send)},
		output.WithConfig(&tuiCfg),
		output.WithPassthrough(lw),
		output.WithLogger(logger),
	)

	errc := make(chan error, 1)
	go func() {
		err := d.ProcessEvents(events)
		lw.Flush()
		p.Send(tui.EOFMsg{})
		errc <- err
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("running progress display: %w", err)
	}
	if fm, ok := finalModel.(*tui.Model); ok && fm.Interrupted {
		return errInterrupted
	}

	if err := <-errc; err != nil {
		return err
	}
	if d.HasFailures() {
		return errTestsFailed
	}
	return nil
}

// loadConfig reads the config file and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, opts *options, logger *zap.Logger) (*config.Config, error) {
	var (
		cfg  *config.Config
		path = opts.configPath
		err  error
	)
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, path, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}
	if path != "" {
		logger.Debug("loaded config", zap.String("path", path))
	}

	f := cmd.Flags()
	if f.Changed("success") {
		cfg.IncludeSuccessfulResults = opts.success
	}
	if f.Changed("durations") {
		cfg.ShowDurations = opts.durations
	}
	if f.Changed("rng-seed") {
		cfg.RNGSeed = opts.rngSeed
	}
	if f.Changed("width") {
		cfg.Width = opts.width
	}
	if f.Changed("colour") {
		cfg.Colour = opts.colour
	}
	if f.Changed("warn-no-assertions") {
		cfg.WarnNoAssertions = opts.warnNoAssertions
	}
	return cfg, nil
}

// newLogger builds a production JSON logger writing to w, at warn level unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core)
}
