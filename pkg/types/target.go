package types

// Target is a named unit of test work. Targets are defined at startup from
// the suite file and are immutable for the duration of a run.
type Target struct {
	// Name uniquely identifies the target within a suite.
	Name string `json:"name" yaml:"name"`

	// Needs lists prerequisite target names. All prerequisites must reach a
	// terminal Pass or Skip state before this target runs.
	Needs []string `json:"needs,omitempty" yaml:"needs,omitempty"`

	// Fixture is the input document, relative to the fixtures directory.
	Fixture string `json:"fixture,omitempty" yaml:"fixture,omitempty"`

	// Args is the converter argument template. The placeholders {fixture},
	// {output}, and {style} are substituted at execution time.
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Output is the file the converter writes, relative to the target's
	// output directory. Empty means the converter writes to stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Expected is the golden file to compare against, relative to the
	// expected directory. Empty means the target only checks for
	// conversion success.
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`

	// MinVersion gates the target on the converter reporting at least this
	// version. Empty means the target is unconditional.
	MinVersion string `json:"min_version,omitempty" yaml:"min_version,omitempty"`

	// Style is the style name for targets expanded from a style family.
	Style string `json:"style,omitempty" yaml:"style,omitempty"`

	// Children lists sub-targets of an aggregate. Aggregates run nothing
	// themselves; they fan out to their children during resolution.
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
}

// IsAggregate reports whether the target is a pure fan-out aggregate.
func (t Target) IsAggregate() bool {
	return len(t.Children) > 0
}
