// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph resolves target names into dependency-ordered execution
// plans over the suite's target definitions.
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/markcheck/pkg/types"
)

// ErrUnknownTarget is returned when a requested or referenced target name
// is not defined in the suite.
var ErrUnknownTarget = errors.New("unknown target")

// ErrCyclicDependency is returned when a target transitively depends on
// itself. Detection happens during resolution, before any subprocess runs.
var ErrCyclicDependency = errors.New("cyclic dependency")

// Graph holds the suite's targets indexed by name.
type Graph struct {
	targets map[string]types.Target
	order   []string // definition order, for stable listings
}

// New builds a Graph from suite targets. Duplicate names are rejected.
func New(targets []types.Target) (*Graph, error) {
	g := &Graph{targets: make(map[string]types.Target, len(targets))}
	for _, t := range targets {
		if t.Name == "" {
			return nil, fmt.Errorf("target with empty name")
		}
		if _, dup := g.targets[t.Name]; dup {
			return nil, fmt.Errorf("duplicate target %q", t.Name)
		}
		g.targets[t.Name] = t
		g.order = append(g.order, t.Name)
	}
	return g, nil
}

// Names returns all target names in definition order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Lookup returns the named target.
func (g *Graph) Lookup(name string) (types.Target, error) {
	t, ok := g.targets[name]
	if !ok {
		return types.Target{}, fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}
	return t, nil
}

// Resolve returns the leaf targets needed to run name, in dependency order
// (prerequisites before dependents), de-duplicated with first-seen order
// preserved. Aggregates expand to the union of their children's resolved
// order and never appear in the result themselves; a prerequisite naming an
// aggregate is rewritten to the aggregate's leaf targets, so plan entries
// only ever reference other plan entries.
func (g *Graph) Resolve(name string) ([]types.Target, error) {
	r := &resolver{graph: g, state: make(map[string]int)}
	if err := r.visit(name, nil); err != nil {
		return nil, err
	}
	return r.plan, nil
}

// ResolveAll resolves several requested names into one de-duplicated plan.
func (g *Graph) ResolveAll(names []string) ([]types.Target, error) {
	r := &resolver{graph: g, state: make(map[string]int)}
	for _, name := range names {
		if err := r.visit(name, nil); err != nil {
			return nil, err
		}
	}
	return r.plan, nil
}

const (
	stateVisiting = 1
	stateDone     = 2
)

type resolver struct {
	graph *Graph
	state map[string]int
	plan  []types.Target
}

func (r *resolver) visit(name string, path []string) error {
	switch r.state[name] {
	case stateDone:
		return nil
	case stateVisiting:
		cycle := append(path, name)
		return fmt.Errorf("%w: %s", ErrCyclicDependency, strings.Join(cycle, " -> "))
	}

	t, ok := r.graph.targets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, name)
	}

	r.state[name] = stateVisiting
	path = append(path, name)

	if t.IsAggregate() {
		for _, child := range t.Children {
			if err := r.visit(child, path); err != nil {
				return err
			}
		}
	} else {
		seen := make(map[string]bool, len(t.Needs))
		var needs []string
		for _, need := range t.Needs {
			if err := r.visit(need, path); err != nil {
				return err
			}
			needs = r.leafNeeds(need, seen, needs)
		}
		t.Needs = needs
		r.plan = append(r.plan, t)
	}

	r.state[name] = stateDone
	return nil
}

// leafNeeds rewrites a prerequisite name into the leaf targets it stands
// for: a leaf maps to itself, an aggregate to its transitive children. The
// name is already visited, so it exists and is acyclic.
func (r *resolver) leafNeeds(name string, seen map[string]bool, out []string) []string {
	t := r.graph.targets[name]
	if !t.IsAggregate() {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		return out
	}
	for _, child := range t.Children {
		out = r.leafNeeds(child, seen, out)
	}
	return out
}
