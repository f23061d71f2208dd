// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders run summaries for humans: a per-target status
// table, inline diffs for failures, and totals. Colors are enabled only
// when writing to a terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/pdiddy/markcheck/pkg/types"
)

// statusScheme maps each status to a consistent color.
type statusScheme struct {
	pass    *color.Color
	fail    *color.Color
	skip    *color.Color
	blocked *color.Color
}

// Printer renders summaries to a writer.
type Printer struct {
	w      io.Writer
	scheme *statusScheme
}

// NewPrinter creates a printer for w. Color is enabled when w is a
// terminal and disabled otherwise, so piped output stays plain.
func NewPrinter(w io.Writer) *Printer {
	scheme := &statusScheme{
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		skip:    color.New(color.FgYellow),
		blocked: color.New(color.FgRed),
	}
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		for _, c := range []*color.Color{scheme.pass, scheme.fail, scheme.skip, scheme.blocked} {
			c.DisableColor()
		}
	}
	return &Printer{w: w, scheme: scheme}
}

// Print writes the summary table, failure diffs, and totals. It is called
// even after a fatal abort so partial results are always visible.
func (p *Printer) Print(s types.Summary) {
	fmt.Fprintf(p.w, "\n%-30s  %-8s  %s\n", "Target", "Status", "Detail")
	fmt.Fprintln(p.w, strings.Repeat("-", 72))

	for _, r := range s.Results {
		fmt.Fprintf(p.w, "%-30s  %-8s  %s\n", r.Target, p.colored(r.Status), r.Reason)
	}

	for _, r := range s.Results {
		if r.Status == types.StatusFail && r.Diff != "" {
			fmt.Fprintf(p.w, "\n--- %s: output mismatch ---\n%s", r.Target, r.Diff)
		}
	}

	fmt.Fprintf(p.w, "\nSummary: %d passed, %d failed, %d skipped, %d blocked (total: %d)\n",
		s.Count(types.StatusPass), s.Count(types.StatusFail),
		s.Count(types.StatusSkip), s.Count(types.StatusBlocked), len(s.Results))

	if s.Fatal != nil {
		fmt.Fprintf(p.w, "Run aborted: %v\n", s.Fatal)
	}
}

// colored renders a status label padded to the table column width before
// coloring, so ANSI codes do not break the alignment.
func (p *Printer) colored(s types.Status) string {
	label := fmt.Sprintf("%-8s", string(s))
	switch s {
	case types.StatusPass:
		return p.scheme.pass.Sprint(label)
	case types.StatusFail:
		return p.scheme.fail.Sprint(label)
	case types.StatusSkip:
		return p.scheme.skip.Sprint(label)
	case types.StatusBlocked:
		return p.scheme.blocked.Sprint(label)
	default:
		return label
	}
}
