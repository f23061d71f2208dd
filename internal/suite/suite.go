// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package suite loads target definitions from a YAML suite file. A suite
// file defines plain targets, style families (expanded data-driven into one
// target per style), and aggregates that fan out to other targets.
package suite

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/markcheck/pkg/types"
)

// AllTarget is the implicit aggregate covering every non-aggregate target.
// A suite may define its own "all" to override the implicit one.
const AllTarget = "all"

// fileSuite mirrors the suite file layout. Harness settings live under a
// separate "harness" key in the same file and are handled by viper.
type fileSuite struct {
	Targets    []targetDef    `yaml:"targets"`
	Families   []familyDef    `yaml:"families"`
	Aggregates []aggregateDef `yaml:"aggregates"`
}

type targetDef struct {
	Name       string   `yaml:"name"`
	Needs      []string `yaml:"needs"`
	Fixture    string   `yaml:"fixture"`
	Args       []string `yaml:"args"`
	Output     string   `yaml:"output"`
	Expected   string   `yaml:"expected"`
	MinVersion string   `yaml:"min_version"`
}

// familyDef expands into one target per style, named "<name>-<style>".
// The {style} placeholder in args, output, and expected is substituted
// per target.
type familyDef struct {
	targetDef `yaml:",inline"`
	Styles    []string `yaml:"styles"`
}

type aggregateDef struct {
	Name     string   `yaml:"name"`
	Children []string `yaml:"children"`
}

// Load reads the suite file at path and returns its targets. If the file
// does not exist, the built-in default suite is returned.
func Load(path string) ([]types.Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("reading suite file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes suite YAML and expands families and the implicit "all"
// aggregate.
func Parse(data []byte) ([]types.Target, error) {
	var fs fileSuite
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parsing suite file: %w", err)
	}

	var targets []types.Target
	for _, d := range fs.Targets {
		targets = append(targets, types.Target{
			Name:       d.Name,
			Needs:      d.Needs,
			Fixture:    d.Fixture,
			Args:       d.Args,
			Output:     d.Output,
			Expected:   d.Expected,
			MinVersion: d.MinVersion,
		})
	}

	for _, f := range fs.Families {
		if len(f.Styles) == 0 {
			return nil, fmt.Errorf("family %q has no styles", f.Name)
		}
		for _, style := range f.Styles {
			targets = append(targets, expandFamilyMember(f, style))
		}
	}

	for _, a := range fs.Aggregates {
		targets = append(targets, types.Target{Name: a.Name, Children: a.Children})
	}

	return withImplicitAll(targets), nil
}

// expandFamilyMember instantiates one family target for a style. Only the
// {style} placeholder is substituted here; {fixture} and {output} stay for
// the executor.
func expandFamilyMember(f familyDef, style string) types.Target {
	sub := func(s string) string { return strings.ReplaceAll(s, "{style}", style) }

	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = sub(a)
	}
	return types.Target{
		Name:       f.Name + "-" + style,
		Needs:      f.Needs,
		Fixture:    f.Fixture,
		Args:       args,
		Output:     sub(f.Output),
		Expected:   sub(f.Expected),
		MinVersion: f.MinVersion,
		Style:      style,
	}
}

// withImplicitAll appends an "all" aggregate over every non-aggregate
// target unless the suite defines its own.
func withImplicitAll(targets []types.Target) []types.Target {
	for _, t := range targets {
		if t.Name == AllTarget {
			return targets
		}
	}
	var children []string
	for _, t := range targets {
		if !t.IsAggregate() {
			children = append(children, t.Name)
		}
	}
	return append(targets, types.Target{Name: AllTarget, Children: children})
}

// Default returns the built-in suite used when no suite file exists. It
// exercises the converter's basic formats plus a version-gated style family.
func Default() []types.Target {
	targets := []types.Target{
		{
			Name:     "smoke",
			Fixture:  "sample.md",
			Args:     []string{"{fixture}"},
			Expected: "",
		},
		{
			Name:     "basic-html",
			Needs:    []string{"smoke"},
			Fixture:  "sample.md",
			Args:     []string{"{fixture}", "-o", "{output}/sample.html"},
			Output:   "sample.html",
			Expected: "sample.html",
		},
		{
			Name:     "tables",
			Needs:    []string{"smoke"},
			Fixture:  "tables.md",
			Args:     []string{"{fixture}", "-o", "{output}/tables.html"},
			Output:   "tables.html",
			Expected: "tables.html",
		},
	}
	family := familyDef{
		targetDef: targetDef{
			Name:       "highlight",
			Needs:      []string{"smoke"},
			Fixture:    "code.md",
			Args:       []string{"{fixture}", "--highlight-style", "{style}", "-o", "{output}/code-{style}.html"},
			Output:     "code-{style}.html",
			Expected:   "highlight-{style}.html",
			MinVersion: "2.16",
		},
		Styles: []string{"pygments", "kate", "monochrome"},
	}
	for _, style := range family.Styles {
		targets = append(targets, expandFamilyMember(family, style))
	}
	return withImplicitAll(targets)
}
