// Package config holds the reporter settings, loaded from a .tally.yaml file and
// overridden by command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ansel1/tally/output/format"
	"gopkg.in/yaml.v3"
)

// FileName is the project-level configuration file looked up from the working
// directory upwards.
const FileName = ".tally.yaml"

// ShowDurations controls when section durations are printed.
type ShowDurations int

const (
	DurationsNever ShowDurations = iota
	DurationsAlways
	DurationsOnFailure
)

var showDurationsNames = []string{"never", "always", "on-failure"}

func (d ShowDurations) String() string {
	if int(d) < len(showDurationsNames) && d >= 0 {
		return showDurationsNames[d]
	}
	return fmt.Sprintf("ShowDurations(%d)", int(d))
}

// Set implements pflag.Value.
func (d *ShowDurations) Set(s string) error {
	for i, name := range showDurationsNames {
		if strings.EqualFold(s, name) {
			*d = ShowDurations(i)
			return nil
		}
	}
	switch strings.ToLower(s) {
	case "yes", "true":
		*d = DurationsAlways
		return nil
	case "no", "false":
		*d = DurationsNever
		return nil
	}
	return fmt.Errorf("invalid show durations %q (want one of %s)", s, strings.Join(showDurationsNames, ", "))
}

// Type implements pflag.Value.
func (d *ShowDurations) Type() string {
	return "durations"
}

func (d ShowDurations) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *ShowDurations) UnmarshalText(text []byte) error {
	return d.Set(string(text))
}

// ColourMode controls whether output is coloured.
type ColourMode string

const (
	ColourAuto ColourMode = "auto"
	ColourYes  ColourMode = "yes"
	ColourNo   ColourMode = "no"
)

func (c ColourMode) String() string {
	if c == "" {
		return string(ColourAuto)
	}
	return string(c)
}

// Set implements pflag.Value.
func (c *ColourMode) Set(s string) error {
	switch strings.ToLower(s) {
	case "auto", "":
		*c = ColourAuto
	case "yes", "always", "true":
		*c = ColourYes
	case "no", "never", "false":
		*c = ColourNo
	default:
		return fmt.Errorf("invalid colour mode %q (want auto, yes or no)", s)
	}
	return nil
}

// Type implements pflag.Value.
func (c *ColourMode) Type() string {
	return "colour"
}

func (c *ColourMode) UnmarshalText(text []byte) error {
	return c.Set(string(text))
}

// Config is consumed by the reporters.
type Config struct {
	// Name is used for runs whose stream does not name them.
	Name string `yaml:"name"`

	IncludeSuccessfulResults bool          `yaml:"include_successful_results"`
	ShowDurations            ShowDurations `yaml:"show_durations"`
	RNGSeed                  uint64        `yaml:"rng_seed"`
	WarnNoAssertions         bool          `yaml:"warn_no_assertions"`

	// Width is the console width. Zero detects it from the output terminal.
	Width  int        `yaml:"width"`
	Colour ColourMode `yaml:"colour"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Name:          "tally",
		ShowDurations: DurationsNever,
		Colour:        ColourAuto,
	}
}

// Load reads the configuration at path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user or Find
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Width < 0 {
		return nil, fmt.Errorf("parsing config %s: width must be >= 0, got %d", path, cfg.Width)
	}
	return cfg, nil
}

// LoadDefault loads the first configuration file found by Find, or returns the
// defaults when there is none. It also returns the path that was loaded.
func LoadDefault() (*Config, string, error) {
	path := Find()
	if path == "" {
		return Default(), "", nil
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Find looks for FileName in the working directory and its parents, then for
// tally/config.yaml in the user config directory. It returns "" if neither exists.
func Find() string {
	if dir, err := os.Getwd(); err == nil {
		if path := findUpwards(dir, FileName); path != "" {
			return path
		}
	}
	if dir, err := os.UserConfigDir(); err == nil {
		path := filepath.Join(dir, "tally", "config.yaml")
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func findUpwards(dir, name string) string {
	for {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || err != nil {
		return false
	}
	return !info.IsDir()
}

// ConsoleWidth resolves the configured width for output written to w.
func (c *Config) ConsoleWidth(w io.Writer) int {
	if c.Width > 0 {
		return c.Width
	}
	return format.TerminalWidth(w, format.DefaultConsoleWidth)
}

// UseColour resolves the colour mode for output written to w.
func (c *Config) UseColour(w io.Writer) bool {
	switch c.Colour {
	case ColourYes:
		return true
	case ColourNo:
		return false
	}
	return format.IsTerminal(w)
}
