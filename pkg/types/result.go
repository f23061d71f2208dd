package types

import "time"

// Status is the terminal state of a target execution.
type Status string

const (
	// StatusPass means the target ran and its output checks succeeded.
	StatusPass Status = "pass"

	// StatusFail means the converter exited non-zero, timed out, or its
	// output diverged from the golden file.
	StatusFail Status = "fail"

	// StatusSkip means a version probe determined the target does not
	// apply to this converter build. Skips are not failures.
	StatusSkip Status = "skip"

	// StatusBlocked means a prerequisite failed (or the run aborted) so
	// the target was never attempted.
	StatusBlocked Status = "blocked"
)

// Terminal reports whether the status allows dependents to proceed.
func (s Status) Terminal() bool {
	return s == StatusPass || s == StatusSkip
}

// ExecutionResult records the outcome of one target.
type ExecutionResult struct {
	Target   string        `json:"target"`
	Status   Status        `json:"status"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Diff     string        `json:"diff,omitempty"`
	Duration time.Duration `json:"-"`
}

// Summary aggregates per-target results for a run. Results preserve
// completion order.
type Summary struct {
	Results []ExecutionResult `json:"results"`

	// Fatal is set when the run aborted on an environment error before all
	// targets could be attempted.
	Fatal error `json:"-"`
}

// Add appends a result to the summary.
func (s *Summary) Add(r ExecutionResult) {
	s.Results = append(s.Results, r)
}

// Count returns the number of results with the given status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any target failed or was blocked.
func (s *Summary) HasFailures() bool {
	return s.Count(StatusFail) > 0 || s.Count(StatusBlocked) > 0
}

// Process exit codes for the markcheck CLI.
const (
	ExitOK       = 0 // all targets passed or skipped
	ExitFailures = 1 // one or more targets failed or were blocked
	ExitFatal    = 2 // configuration or environment error
)

// ExitCode derives the process exit code from the summary.
func (s *Summary) ExitCode() int {
	if s.Fatal != nil {
		return ExitFatal
	}
	if s.HasFailures() {
		return ExitFailures
	}
	return ExitOK
}
