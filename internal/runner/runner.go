// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes a resolved target plan in dependency order.
// Independent targets run concurrently on a bounded worker pool; a target
// never starts before all of its prerequisites have reached a terminal
// state. Failed or blocked prerequisites block dependents transitively, and
// an environment error aborts everything not yet started.
package runner

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/pdiddy/markcheck/internal/gate"
	"github.com/pdiddy/markcheck/pkg/types"
)

// TargetRunner executes one leaf target. A returned error is an
// environment failure and aborts the run; per-target failures come back
// in the result.
type TargetRunner interface {
	Run(ctx context.Context, target types.Target) (types.ExecutionResult, error)
}

// VersionGate resolves version-conditional targets.
type VersionGate interface {
	Check(ctx context.Context, minVersion string) gate.Decision
}

// Runner schedules a plan.
type Runner struct {
	exec TargetRunner
	gate VersionGate
	jobs int
	log  io.Writer
}

// New creates a runner. jobs below 1 is treated as 1.
func New(exec TargetRunner, g VersionGate, jobs int, log io.Writer) *Runner {
	if jobs < 1 {
		jobs = 1
	}
	if log == nil {
		log = io.Discard
	}
	return &Runner{exec: exec, gate: g, jobs: jobs, log: log}
}

// RunAll executes the plan and returns the aggregated summary. Execution is
// best-effort: a failing target only blocks its own dependents, and the
// remaining independent targets still run. On an environment error all
// not-yet-started targets are reported blocked and Summary.Fatal is set.
func (r *Runner) RunAll(ctx context.Context, plan []types.Target) types.Summary {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var summary types.Summary
	status := make(map[string]types.Status, len(plan))
	pending := plan
	var fatal error

	record := func(res types.ExecutionResult) {
		status[res.Target] = res.Status
		summary.Add(res)
		switch res.Status {
		case types.StatusPass:
			fmt.Fprintf(r.log, "pass:    %s\n", res.Target)
		case types.StatusSkip:
			fmt.Fprintf(r.log, "skip:    %s (%s)\n", res.Target, res.Reason)
		case types.StatusBlocked:
			fmt.Fprintf(r.log, "blocked: %s (%s)\n", res.Target, res.Reason)
		default:
			fmt.Fprintf(r.log, "fail:    %s (%s)\n", res.Target, res.Reason)
		}
	}

	for len(pending) > 0 {
		if fatal != nil {
			for _, t := range pending {
				record(types.ExecutionResult{
					Target: t.Name,
					Status: types.StatusBlocked,
					Reason: "run aborted: " + fatal.Error(),
				})
			}
			break
		}

		ready, waiting := r.partition(pending, status, record)
		if len(ready) == 0 {
			// Plans out of graph.Resolve only name other plan members in
			// Needs; guard against hand-built plans with dangling
			// prerequisites.
			for _, t := range waiting {
				record(types.ExecutionResult{
					Target: t.Name,
					Status: types.StatusBlocked,
					Reason: "unresolvable prerequisites",
				})
			}
			break
		}

		results := r.runWave(ctx, ready)
		for _, res := range results {
			if res.envErr != nil && fatal == nil {
				fatal = res.envErr
				cancel()
			}
			record(res.result)
		}
		pending = waiting
	}

	summary.Fatal = fatal
	return summary
}

// partition splits pending targets into those ready to run and those still
// waiting. Targets with a failed or blocked prerequisite are recorded as
// blocked immediately.
func (r *Runner) partition(pending []types.Target, status map[string]types.Status, record func(types.ExecutionResult)) (ready, waiting []types.Target) {
	for _, t := range pending {
		blockedBy := ""
		incomplete := false
		for _, need := range t.Needs {
			st, done := status[need]
			if !done {
				incomplete = true
				continue
			}
			if !st.Terminal() {
				blockedBy = need
				break
			}
		}
		switch {
		case blockedBy != "":
			record(types.ExecutionResult{
				Target: t.Name,
				Status: types.StatusBlocked,
				Reason: fmt.Sprintf("prerequisite %s did not pass", blockedBy),
			})
		case incomplete:
			waiting = append(waiting, t)
		default:
			ready = append(ready, t)
		}
	}
	return ready, waiting
}

type waveResult struct {
	result types.ExecutionResult
	envErr error
}

// runWave executes ready targets with at most r.jobs in flight, preserving
// the wave's target order in the returned results.
func (r *Runner) runWave(ctx context.Context, wave []types.Target) []waveResult {
	results := make([]waveResult, len(wave))
	sem := make(chan struct{}, r.jobs)
	var wg sync.WaitGroup

	for i, t := range wave {
		wg.Add(1)
		go func(i int, t types.Target) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = r.runOne(ctx, t)
		}(i, t)
	}
	wg.Wait()
	return results
}

func (r *Runner) runOne(ctx context.Context, t types.Target) waveResult {
	if err := ctx.Err(); err != nil {
		return waveResult{result: types.ExecutionResult{
			Target: t.Name,
			Status: types.StatusBlocked,
			Reason: "run cancelled",
		}}
	}

	if t.MinVersion != "" {
		d := r.gate.Check(ctx, t.MinVersion)
		if !d.Applicable {
			return waveResult{result: types.ExecutionResult{
				Target: t.Name,
				Status: types.StatusSkip,
				Reason: d.Reason,
			}}
		}
	}

	res, err := r.exec.Run(ctx, t)
	if err != nil {
		return waveResult{
			result: types.ExecutionResult{
				Target: t.Name,
				Status: types.StatusBlocked,
				Reason: err.Error(),
			},
			envErr: err,
		}
	}
	return waveResult{result: res}
}
