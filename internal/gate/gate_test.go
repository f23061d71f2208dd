// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/markcheck/internal/container"
)

// fakeRuntime returns canned probe output and counts invocations.
type fakeRuntime struct {
	result container.RunResult
	err    error
	runs   int
}

func (f *fakeRuntime) Name() string { return "fake" }

func (f *fakeRuntime) Available() bool { return true }

func (f *fakeRuntime) ImageExists(image string) error { return nil }

func (f *fakeRuntime) Run(ctx context.Context, spec container.RunSpec) (container.RunResult, error) {
	f.runs++
	return f.result, f.err
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name           string
		stdout         string
		stderr         string
		exitCode       int
		runErr         error
		minVersion     string
		wantApplicable bool
		wantReason     string
	}{
		{
			name:           "version above minimum",
			stdout:         "markitdown 2.17.1\n",
			minVersion:     "2.16",
			wantApplicable: true,
		},
		{
			name:           "version equals minimum",
			stdout:         "markitdown 2.16\n",
			minVersion:     "2.16.0",
			wantApplicable: true,
		},
		{
			name:       "version below minimum skips",
			stdout:     "markitdown 2.10\n",
			minVersion: "2.16",
			wantReason: "requires converter >= 2.16, image reports 2.10",
		},
		{
			name:           "single-segment version",
			stdout:         "markitdown 3\n",
			minVersion:     "2.16",
			wantApplicable: true,
		},
		{
			name:           "version banner on stderr",
			stderr:         "markitdown v3.0.2 (build abc)\n",
			minVersion:     "2.16",
			wantApplicable: true,
		},
		{
			name:       "probe command fails skips",
			exitCode:   127,
			stderr:     "unknown flag: --version",
			minVersion: "2.16",
			wantReason: "version probe failed",
		},
		{
			name:       "runtime error skips",
			runErr:     errors.New("daemon not running"),
			minVersion: "2.16",
			wantReason: "version probe failed",
		},
		{
			name:       "no version in output skips",
			stdout:     "hello world\n",
			minVersion: "2.16",
			wantReason: "version probe failed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{
				result: container.RunResult{
					Stdout:   []byte(tt.stdout),
					Stderr:   []byte(tt.stderr),
					ExitCode: tt.exitCode,
				},
				err: tt.runErr,
			}
			g := New(rt, "markitdown:latest", nil, 0)
			d := g.Check(context.Background(), tt.minVersion)
			assert.Equal(t, tt.wantApplicable, d.Applicable)
			if tt.wantReason != "" {
				assert.Contains(t, d.Reason, tt.wantReason)
			}
		})
	}
}

func TestProbeRunsOnce(t *testing.T) {
	rt := &fakeRuntime{
		result: container.RunResult{Stdout: []byte("markitdown 2.16.2\n")},
	}
	g := New(rt, "markitdown:latest", nil, 0)

	// Several requirements against the same gate reuse one probe.
	assert.True(t, g.Check(context.Background(), "2.10").Applicable)
	assert.True(t, g.Check(context.Background(), "2.16").Applicable)
	assert.False(t, g.Check(context.Background(), "3.0").Applicable)
	assert.Equal(t, 1, rt.runs)
}

func TestProbeTimeoutSkips(t *testing.T) {
	rt := &fakeRuntime{result: container.RunResult{TimedOut: true, ExitCode: -1}}
	g := New(rt, "markitdown:latest", nil, 0)

	d := g.Check(context.Background(), "2.16")
	assert.False(t, d.Applicable)
	assert.Contains(t, d.Reason, "timed out")
}

func TestVersion(t *testing.T) {
	rt := &fakeRuntime{result: container.RunResult{Stdout: []byte("markitdown 2.10.3\n")}}
	g := New(rt, "markitdown:latest", nil, 0)

	v, err := g.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2.10.3", v)
}

func TestAtLeast(t *testing.T) {
	tests := []struct {
		got, min string
		want     bool
	}{
		{"2.16", "2.16", true},
		{"2.16.0", "2.16", true},
		{"2.16", "2.16.1", false},
		{"2.10", "2.16", false},
		{"3.0", "2.16", true},
		{"2.9.9", "2.10", false},
		{"v2.16", "2.16", true},
	}
	for _, tt := range tests {
		got, err := atLeast(tt.got, tt.min)
		require.NoError(t, err)
		assert.Equalf(t, tt.want, got, "atLeast(%q, %q)", tt.got, tt.min)
	}
}
