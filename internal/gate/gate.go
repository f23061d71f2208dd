// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gate decides whether version-conditional targets apply to the
// converter build under test. A gate starts in a probing state, runs the
// converter's version command once, and resolves to applicable or skipped
// for every requirement checked against it. Probe failure resolves to
// skipped, never to a target failure: version drift in the environment must
// degrade gracefully.
package gate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/markcheck/internal/container"
)

// Decision is a gate's resolution for one version requirement.
type Decision struct {
	Applicable bool
	Reason     string // user-visible skip reason when not applicable
}

// versionPattern matches the first version number in probe output, dotted
// or single-segment, e.g. "markitdown 2.10.1", "v2.16", "markitdown 3".
var versionPattern = regexp.MustCompile(`\d+(?:\.\d+)*`)

// Gate probes one converter image for its version. The probe runs at most
// once; its outcome is shared by every requirement checked through the gate.
type Gate struct {
	rt      container.Runtime
	image   string
	args    []string // version command, e.g. ["--version"]
	timeout time.Duration

	once     sync.Once
	version  string
	probeErr error
}

// New creates a gate for the given image. versionArgs defaults to
// ["--version"] when empty.
func New(rt container.Runtime, image string, versionArgs []string, timeout time.Duration) *Gate {
	if len(versionArgs) == 0 {
		versionArgs = []string{"--version"}
	}
	return &Gate{rt: rt, image: image, args: versionArgs, timeout: timeout}
}

// Check resolves whether the converter satisfies minVersion. The first call
// probes the image; later calls reuse the probed version.
func (g *Gate) Check(ctx context.Context, minVersion string) Decision {
	g.once.Do(func() { g.probe(ctx) })

	if g.probeErr != nil {
		return Decision{Reason: fmt.Sprintf("version probe failed: %v", g.probeErr)}
	}
	ok, err := atLeast(g.version, minVersion)
	if err != nil {
		return Decision{Reason: fmt.Sprintf("cannot compare versions: %v", err)}
	}
	if !ok {
		return Decision{Reason: fmt.Sprintf("requires converter >= %s, image reports %s", minVersion, g.version)}
	}
	return Decision{Applicable: true}
}

// Version returns the probed converter version, or an error if the probe
// failed. Probes lazily like Check.
func (g *Gate) Version(ctx context.Context) (string, error) {
	g.once.Do(func() { g.probe(ctx) })
	return g.version, g.probeErr
}

func (g *Gate) probe(ctx context.Context) {
	res, err := g.rt.Run(ctx, container.RunSpec{
		Image:   g.image,
		Args:    g.args,
		Timeout: g.timeout,
	})
	if err != nil {
		g.probeErr = err
		return
	}
	if res.TimedOut {
		g.probeErr = fmt.Errorf("probe %s timed out", strings.Join(g.args, " "))
		return
	}
	if res.ExitCode != 0 {
		g.probeErr = fmt.Errorf("probe %s exited %d: %s",
			strings.Join(g.args, " "), res.ExitCode, strings.TrimSpace(string(res.Stderr)))
		return
	}

	v := versionPattern.FindString(string(res.Stdout))
	if v == "" {
		// Some converters print the version banner on stderr.
		v = versionPattern.FindString(string(res.Stderr))
	}
	if v == "" {
		g.probeErr = fmt.Errorf("no version number in probe output")
		return
	}
	g.version = v
}

// atLeast compares dotted numeric versions segment-wise; missing segments
// count as zero, so 2.16 >= 2.16.0.
func atLeast(got, min string) (bool, error) {
	gotSegs, err := segments(got)
	if err != nil {
		return false, err
	}
	minSegs, err := segments(min)
	if err != nil {
		return false, err
	}

	n := len(gotSegs)
	if len(minSegs) > n {
		n = len(minSegs)
	}
	for i := 0; i < n; i++ {
		g, m := 0, 0
		if i < len(gotSegs) {
			g = gotSegs[i]
		}
		if i < len(minSegs) {
			m = minSegs[i]
		}
		if g != m {
			return g > m, nil
		}
	}
	return true, nil
}

func segments(v string) ([]int, error) {
	parts := strings.Split(strings.TrimPrefix(v, "v"), ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid version %q", v)
		}
		out[i] = n
	}
	return out, nil
}
