// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/markcheck/pkg/types"
)

func sampleSummary() types.Summary {
	var s types.Summary
	s.Add(types.ExecutionResult{Target: "smoke", Status: types.StatusPass})
	s.Add(types.ExecutionResult{
		Target: "tables",
		Status: types.StatusFail,
		Reason: "output mismatch",
		Diff:   "--- expected\n+++ actual\n-<td>1</td>\n+<td>2</td>\n",
	})
	s.Add(types.ExecutionResult{
		Target: "highlight-kate",
		Status: types.StatusSkip,
		Reason: "requires converter >= 2.16, image reports 2.10",
	})
	s.Add(types.ExecutionResult{
		Target: "full-doc",
		Status: types.StatusBlocked,
		Reason: "prerequisite tables did not pass",
	})
	return s
}

func TestPrintTable(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(sampleSummary())
	out := buf.String()

	// One row per target with its status.
	assert.Contains(t, out, "smoke")
	assert.Contains(t, out, "pass")
	assert.Contains(t, out, "tables")
	assert.Contains(t, out, "fail")
	assert.Contains(t, out, "highlight-kate")
	assert.Contains(t, out, "skip")
	assert.Contains(t, out, "full-doc")
	assert.Contains(t, out, "blocked")

	// Failure diff is shown inline.
	assert.Contains(t, out, "tables: output mismatch")
	assert.Contains(t, out, "+<td>2</td>")

	// Totals line.
	assert.Contains(t, out, "1 passed, 1 failed, 1 skipped, 1 blocked (total: 4)")
}

func TestPrintNoColorWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(sampleSummary())
	assert.NotContains(t, buf.String(), "\x1b[", "piped output must not contain ANSI escapes")
}

func TestPrintFatalAbort(t *testing.T) {
	s := sampleSummary()
	s.Fatal = errors.New("environment error: docker daemon unreachable")

	var buf bytes.Buffer
	NewPrinter(&buf).Print(s)
	out := buf.String()

	// Partial results still printed before the abort notice.
	assert.Contains(t, out, "smoke")
	assert.Contains(t, out, "Run aborted: environment error: docker daemon unreachable")
}

func TestPrintSkipReasonVisible(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Print(sampleSummary())

	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "highlight-kate") {
			assert.Contains(t, line, "image reports 2.10")
			return
		}
	}
	t.Fatal("no table row for highlight-kate")
}
