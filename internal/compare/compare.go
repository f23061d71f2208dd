// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compare checks converter output against golden files. Equality is
// exact; there is no semantic comparison of the underlying document format.
package compare

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result is the outcome of comparing actual output against a golden file.
type Result struct {
	Match bool

	// Diff holds unified-diff text when Match is false, capped at the
	// configured line limit.
	Diff string

	// Truncated is set when the diff exceeded the cap.
	Truncated bool
}

// Golden compares actual bytes against the golden file at expectedPath.
// maxDiffLines caps the diff text to bound log growth; 0 means unlimited.
// A missing or unreadable golden file is an error, not a mismatch.
func Golden(actual []byte, expectedPath string, maxDiffLines int) (Result, error) {
	expected, err := os.ReadFile(expectedPath)
	if err != nil {
		return Result{}, fmt.Errorf("reading golden file %s: %w", expectedPath, err)
	}

	if bytes.Equal(actual, expected) {
		return Result{Match: true}, nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(expected)),
		B:        difflib.SplitLines(string(actual)),
		FromFile: expectedPath,
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return Result{}, fmt.Errorf("computing diff against %s: %w", expectedPath, err)
	}

	result := Result{Diff: diff}
	if maxDiffLines > 0 {
		result.Diff, result.Truncated = capLines(diff, maxDiffLines)
	}
	return result, nil
}

// GoldenWith compares using an external diff tool instead of the built-in
// unified diff. The actual bytes are written to a temporary file and the
// tool is invoked as "tool expectedPath actualPath"; exit 0 is a match,
// exit 1 a mismatch with the tool's output as diff text, anything else an
// error. Equality stays exact either way: the tool only renders the diff.
func GoldenWith(tool string, actual []byte, expectedPath string, maxDiffLines int) (Result, error) {
	if tool == "" {
		return Golden(actual, expectedPath, maxDiffLines)
	}
	if _, err := os.Stat(expectedPath); err != nil {
		return Result{}, fmt.Errorf("reading golden file %s: %w", expectedPath, err)
	}

	tmp, err := os.CreateTemp("", "markcheck-actual-*")
	if err != nil {
		return Result{}, fmt.Errorf("staging actual output: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(actual); err != nil {
		tmp.Close()
		return Result{}, fmt.Errorf("staging actual output: %w", err)
	}
	tmp.Close()

	out, err := exec.Command(tool, expectedPath, tmp.Name()).CombinedOutput()
	if err == nil {
		return Result{Match: true}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		result := Result{Diff: string(out)}
		if maxDiffLines > 0 {
			result.Diff, result.Truncated = capLines(result.Diff, maxDiffLines)
		}
		return result, nil
	}
	return Result{}, fmt.Errorf("diff tool %s failed on %s: %w", filepath.Base(tool), expectedPath, err)
}

// capLines truncates text to at most n lines, appending a marker when
// anything was dropped.
func capLines(text string, n int) (string, bool) {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) <= n {
		return text, false
	}
	var b strings.Builder
	for _, line := range lines[:n] {
		b.WriteString(line)
	}
	fmt.Fprintf(&b, "... diff truncated after %d lines (%d omitted)\n", n, len(lines)-n)
	return b.String(), true
}
