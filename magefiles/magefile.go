//go:build mage

// Package main contains Mage build targets for markcheck developer tooling.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"

	"github.com/pdiddy/markcheck/internal/suite"
	"github.com/pdiddy/markcheck/pkg/types"
)

// harnessDirs lists the working directories a harness checkout expects.
var harnessDirs = []string{
	types.DefaultFixturesDir,
	types.DefaultExpectedDir,
	types.DefaultOutputDir,
}

// Init creates the harness directory structure.
func Init() error {
	for _, dir := range harnessDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Harness directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "markcheck"
	cmdPkg  = "./cmd/markcheck"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	cmd := exec.Command("go", "build", "-o", out, cmdPkg)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Verify checks that every fixture and golden file referenced by the suite
// exists on disk, so missing artifacts surface before a harness run.
func Verify() error {
	mg.Deps(Init)

	targets, err := suite.Load(types.DefaultSuiteFile)
	if err != nil {
		return err
	}

	missing := 0
	check := func(kind, path string) {
		if path == "" {
			return
		}
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("missing %s: %s\n", kind, path)
			missing++
		}
	}
	for _, t := range targets {
		if t.IsAggregate() {
			continue
		}
		if t.Fixture != "" {
			check("fixture", filepath.Join(types.DefaultFixturesDir, t.Fixture))
		}
		if t.Expected != "" {
			check("golden file", filepath.Join(types.DefaultExpectedDir, t.Expected))
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d suite artifact(s) missing", missing)
	}
	fmt.Printf("All artifacts present for %d target(s).\n", len(targets))
	return nil
}
