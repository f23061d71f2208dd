package types

import (
	"fmt"
	"time"
)

// HarnessConfig holds settings for a harness run.
type HarnessConfig struct {
	// Image is the container image packaging the converter under test.
	// Required; a run cannot start without it.
	Image string `json:"image" yaml:"image"`

	// SuiteFile is the YAML file defining targets (default "markcheck.yaml").
	SuiteFile string `json:"suite_file" yaml:"suite_file"`

	// FixturesDir holds input documents, mounted read-only into the
	// converter container.
	FixturesDir string `json:"fixtures_dir" yaml:"fixtures_dir"`

	// ExpectedDir holds golden files for exact-output targets.
	ExpectedDir string `json:"expected_dir" yaml:"expected_dir"`

	// OutputDir receives converter output, partitioned per target.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Jobs bounds the number of concurrently running targets (default 1).
	Jobs int `json:"jobs" yaml:"jobs"`

	// Timeout is the wall-clock limit for one converter invocation
	// (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxDiffLines caps diff output per mismatch to bound log growth
	// (default 200).
	MaxDiffLines int `json:"max_diff_lines" yaml:"max_diff_lines"`

	// DiffTool optionally names an external command used to render
	// mismatch diffs. Empty selects the built-in exact-text diff.
	DiffTool string `json:"diff_tool,omitempty" yaml:"diff_tool,omitempty"`

	// KeepOutput skips removal of the output directory after the run.
	KeepOutput bool `json:"keep_output" yaml:"keep_output"`

	// NoHistory disables recording the run in the history database.
	NoHistory bool `json:"no_history" yaml:"no_history"`
}

// Defaults used when a HarnessConfig field is unset.
const (
	DefaultSuiteFile    = "markcheck.yaml"
	DefaultFixturesDir  = "fixtures"
	DefaultExpectedDir  = "expected"
	DefaultOutputDir    = "output"
	DefaultTimeout      = 2 * time.Minute
	DefaultMaxDiffLines = 200
)

// ConfigurationError reports a missing or invalid required setting. It is
// fatal and aborts before any target runs.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

// EnvironmentError reports an unreachable container runtime or a missing
// converter image. It is fatal for the whole run.
type EnvironmentError struct {
	Err error
}

func (e *EnvironmentError) Error() string {
	return "environment error: " + e.Err.Error()
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// Normalize fills unset fields with defaults and validates required ones.
func (c *HarnessConfig) Normalize() error {
	if c.Image == "" {
		return &ConfigurationError{Msg: "--image is required: name the converter image under test"}
	}
	if c.SuiteFile == "" {
		c.SuiteFile = DefaultSuiteFile
	}
	if c.FixturesDir == "" {
		c.FixturesDir = DefaultFixturesDir
	}
	if c.ExpectedDir == "" {
		c.ExpectedDir = DefaultExpectedDir
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Jobs <= 0 {
		c.Jobs = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxDiffLines < 0 {
		return &ConfigurationError{Msg: fmt.Sprintf("max-diff-lines must be >= 0, got %d", c.MaxDiffLines)}
	}
	if c.MaxDiffLines == 0 {
		c.MaxDiffLines = DefaultMaxDiffLines
	}
	return nil
}
