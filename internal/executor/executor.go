// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package executor runs one target against the converter container and
// checks its output.
package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/markcheck/internal/compare"
	"github.com/pdiddy/markcheck/internal/container"
	"github.com/pdiddy/markcheck/pkg/types"
)

// Container-side mount points. The fixtures directory is the read-only
// filesystem boundary for all input access; each target gets its own
// writable output mount to avoid write races between concurrent targets.
const (
	fixturesMount = "/fixtures"
	outputMount   = "/out"
)

// Executor invokes the converter image for individual targets.
type Executor struct {
	rt  container.Runtime
	cfg types.HarnessConfig
}

// New creates an executor bound to a runtime and run configuration.
func New(rt container.Runtime, cfg types.HarnessConfig) *Executor {
	return &Executor{rt: rt, cfg: cfg}
}

// Run executes one leaf target: it prepares the target's output directory,
// invokes the converter with the fixtures directory bind-mounted read-only,
// and compares output against the golden file when the target has one.
//
// A non-nil error means the environment is broken (container runtime
// unreachable) and the whole run must abort; per-target problems are
// reported through the result's status instead.
func (e *Executor) Run(ctx context.Context, target types.Target) (types.ExecutionResult, error) {
	result := types.ExecutionResult{Target: target.Name}
	start := time.Now()

	outDir := filepath.Join(e.cfg.OutputDir, target.Name)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return result, &types.EnvironmentError{Err: fmt.Errorf("creating output directory %s: %w", outDir, err)}
	}

	spec := container.RunSpec{
		Image:   e.cfg.Image,
		Args:    substituteArgs(target),
		Timeout: e.cfg.Timeout,
		Mounts: []container.Mount{
			{Host: absPath(e.cfg.FixturesDir), Container: fixturesMount, ReadOnly: true},
			{Host: absPath(outDir), Container: outputMount},
		},
	}

	res, err := e.rt.Run(ctx, spec)
	result.Duration = time.Since(start)
	result.Stdout = string(res.Stdout)
	result.Stderr = string(res.Stderr)
	result.ExitCode = res.ExitCode

	if err != nil {
		return result, &types.EnvironmentError{Err: err}
	}
	if res.TimedOut {
		result.Status = types.StatusFail
		result.Reason = fmt.Sprintf("timed out after %s", e.cfg.Timeout)
		return result, nil
	}
	if res.ExitCode != 0 {
		result.Status = types.StatusFail
		result.Reason = fmt.Sprintf("converter exited %d", res.ExitCode)
		return result, nil
	}

	if target.Expected == "" {
		result.Status = types.StatusPass
		return result, nil
	}

	actual, err := e.actualOutput(target, outDir, res.Stdout)
	if err != nil {
		result.Status = types.StatusFail
		result.Reason = err.Error()
		return result, nil
	}

	cmp, err := compare.GoldenWith(e.cfg.DiffTool, actual, filepath.Join(e.cfg.ExpectedDir, target.Expected), e.cfg.MaxDiffLines)
	if err != nil {
		result.Status = types.StatusFail
		result.Reason = err.Error()
		return result, nil
	}
	if !cmp.Match {
		result.Status = types.StatusFail
		result.Reason = "output mismatch"
		result.Diff = cmp.Diff
		return result, nil
	}

	result.Status = types.StatusPass
	return result, nil
}

// actualOutput returns the bytes to compare: the file the converter wrote
// when the target names one, stdout otherwise.
func (e *Executor) actualOutput(target types.Target, outDir string, stdout []byte) ([]byte, error) {
	if target.Output == "" {
		return stdout, nil
	}
	path := filepath.Join(outDir, target.Output)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("converter did not produce %s: %w", target.Output, err)
	}
	return data, nil
}

// substituteArgs expands the {fixture} and {output} placeholders into
// container-side paths. {style} was already expanded at suite load time.
func substituteArgs(target types.Target) []string {
	fixture := fixturesMount + "/" + target.Fixture
	args := make([]string, len(target.Args))
	for i, a := range target.Args {
		a = strings.ReplaceAll(a, "{fixture}", fixture)
		a = strings.ReplaceAll(a, "{output}", outputMount)
		args[i] = a
	}
	return args
}

// absPath resolves a path for the bind mount; container runtimes reject
// relative host paths.
func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
