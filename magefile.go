//go:build mage

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binPath    = "bin/tally"
	versionVar = "github.com/ansel1/tally/reporter.Version"
)

// sources are the paths checked by gofmt.
var sources = []string{"main.go", "magefile.go", "config", "engine", "output", "parser", "reporter", "results", "tui"}

// Default target - build the binary
var Default = Build

// version returns the current git tag, or "dev" outside a tagged checkout.
func version() string {
	v, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || v == "" {
		return "dev"
	}
	return strings.TrimPrefix(v, "v")
}

// Build builds the tally binary with the version stamped in
func Build() error {
	ldflags := fmt.Sprintf("-s -w -X '%s=%s'", versionVar, version())
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, ".")
}

// Install installs tally into GOBIN
func Install() error {
	ldflags := fmt.Sprintf("-s -w -X '%s=%s'", versionVar, version())
	return sh.RunV("go", "install", "-ldflags", ldflags, ".")
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll("bin")
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs tests with race detector
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage runs tests with coverage
func (Test) Coverage() error {
	if err := sh.RunV("go", "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV("go", "tool", "cover", "-func=coverage.out")
}

// Lint namespace for linting commands
type Lint mg.Namespace

// All runs all linters
func (Lint) All() {
	mg.SerialDeps(Lint.Format, Lint.Vet, Lint.Golangci)
}

// Format checks code formatting
func (Lint) Format() error {
	out, err := sh.Output("gofmt", append([]string{"-l"}, sources...)...)
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need gofmt:\n%s", out)
	}
	return nil
}

// Vet runs go vet
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Golangci runs golangci-lint, if it is installed
func (Lint) Golangci() error {
	err := sh.RunV("golangci-lint", "run", "--timeout=5m", "./...")
	if err != nil && sh.CmdRan(err) {
		return err
	}
	if err != nil {
		fmt.Println("golangci-lint not found, skipping")
	}
	return nil
}
