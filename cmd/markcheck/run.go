// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/markcheck/internal/container"
	"github.com/pdiddy/markcheck/internal/executor"
	"github.com/pdiddy/markcheck/internal/gate"
	"github.com/pdiddy/markcheck/internal/graph"
	"github.com/pdiddy/markcheck/internal/history"
	"github.com/pdiddy/markcheck/internal/report"
	"github.com/pdiddy/markcheck/internal/runner"
	"github.com/pdiddy/markcheck/internal/suite"
	"github.com/pdiddy/markcheck/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [target...]",
	Short: "Run suite targets against the converter image",
	Long: `Run resolves the requested targets (default: all) into dependency order
and executes each one: the converter image is invoked with the fixtures
directory mounted read-only, and output is checked against golden files
where the target defines one.

Version-gated targets probe the converter first and are skipped, not
failed, when the image is too old. A failing target blocks its dependents
but independent targets still run.

Exit codes: 0 all targets passed or skipped, 1 one or more targets failed
or were blocked, 2 configuration or environment error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := executeRun(cmd, args)
		if code != types.ExitOK {
			os.Exit(code)
		}
		return nil
	},
}

// executeRun performs a full harness run and returns the process exit code.
// All cleanup is deferred inside so the caller can os.Exit safely.
func executeRun(cmd *cobra.Command, args []string) int {
	cfg := harnessConfig(cmd)
	if err := cfg.Normalize(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return types.ExitFatal
	}

	targets, err := suite.Load(cfg.SuiteFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return types.ExitFatal
	}
	g, err := graph.New(targets)
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		return types.ExitFatal
	}

	selected := args
	if len(selected) == 0 {
		selected = []string{suite.AllTarget}
	}
	plan, err := g.ResolveAll(selected)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return types.ExitFatal
	}

	printer := report.NewPrinter(os.Stdout)

	rt, err := container.DetectRuntime()
	if err != nil {
		// The summary is printed even when nothing could run.
		printer.Print(types.Summary{Fatal: &types.EnvironmentError{Err: err}})
		return types.ExitFatal
	}
	if err := rt.ImageExists(cfg.Image); err != nil {
		printer.Print(types.Summary{Fatal: &types.EnvironmentError{Err: err}})
		return types.ExitFatal
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "environment error:", err)
		return types.ExitFatal
	}
	if !cfg.KeepOutput {
		defer os.RemoveAll(cfg.OutputDir)
	}

	fmt.Fprintf(os.Stderr, "Running %d target(s) against %s via %s\n", len(plan), cfg.Image, rt.Name())
	startedAt := time.Now()

	exec := executor.New(rt, cfg)
	vg := gate.New(rt, cfg.Image, nil, cfg.Timeout)
	sum := runner.New(exec, vg, cfg.Jobs, os.Stderr).RunAll(cmd.Context(), plan)

	printer.Print(sum)

	if !cfg.NoHistory {
		recordHistory(cfg.Image, startedAt, sum)
	}
	return sum.ExitCode()
}

// recordHistory stores the run outcome; failures only warn.
func recordHistory(image string, startedAt time.Time, sum types.Summary) {
	store, err := history.Open(history.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open run history: %v\n", err)
		return
	}
	defer store.Close()

	if _, err := store.Record(context.Background(), image, startedAt, sum); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record run history: %v\n", err)
	}
}

// harnessConfig builds the run configuration from flags, falling back to
// the harness section of the config file.
func harnessConfig(cmd *cobra.Command) types.HarnessConfig {
	str := func(flag, key string) string {
		v, _ := cmd.Flags().GetString(flag)
		if v == "" {
			return viper.GetString(key)
		}
		return v
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	if jobs == 0 {
		jobs = viper.GetInt("harness.jobs")
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		timeout = viper.GetDuration("harness.timeout")
	}
	maxDiff, _ := cmd.Flags().GetInt("max-diff-lines")
	keep, _ := cmd.Flags().GetBool("keep-output")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	return types.HarnessConfig{
		Image:        str("image", "harness.image"),
		SuiteFile:    str("suite", "harness.suite_file"),
		FixturesDir:  str("fixtures-dir", "harness.fixtures_dir"),
		ExpectedDir:  str("expected-dir", "harness.expected_dir"),
		OutputDir:    str("output-dir", "harness.output_dir"),
		Jobs:         jobs,
		Timeout:      timeout,
		MaxDiffLines: maxDiff,
		DiffTool:     str("diff-tool", "harness.diff_tool"),
		KeepOutput:   keep,
		NoHistory:    noHistory,
	}
}

func init() {
	runCmd.Flags().String("image", "", "converter container image under test (required)")
	runCmd.Flags().String("suite", "", "suite file defining targets (default markcheck.yaml)")
	runCmd.Flags().String("fixtures-dir", "", "directory of input documents (default fixtures)")
	runCmd.Flags().String("expected-dir", "", "directory of golden output files (default expected)")
	runCmd.Flags().String("output-dir", "", "directory for converter output (default output)")
	runCmd.Flags().Int("jobs", 0, "maximum concurrently running targets (default 1)")
	runCmd.Flags().Duration("timeout", 0, "wall-clock limit per converter invocation (default 2m)")
	runCmd.Flags().Int("max-diff-lines", 0, "cap on diff lines per mismatch (default 200)")
	runCmd.Flags().String("diff-tool", "", "external command for rendering mismatch diffs (default: built-in exact-text diff)")
	runCmd.Flags().Bool("keep-output", false, "keep the output directory after the run")
	runCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	rootCmd.AddCommand(runCmd)
}
