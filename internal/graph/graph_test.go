// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pdiddy/markcheck/pkg/types"
)

func names(targets []types.Target) []string {
	out := make([]string, len(targets))
	for i, t := range targets {
		out[i] = t.Name
	}
	return out
}

func TestResolve(t *testing.T) {
	suite := []types.Target{
		{Name: "basic", Fixture: "sample.md"},
		{Name: "tables", Needs: []string{"basic"}, Fixture: "tables.md"},
		{Name: "footnotes", Needs: []string{"basic"}, Fixture: "footnotes.md"},
		{Name: "full-doc", Needs: []string{"tables", "footnotes"}, Fixture: "thesis.md"},
		{Name: "all", Children: []string{"full-doc", "tables"}},
	}

	tests := []struct {
		name    string
		resolve string
		want    []string
	}{
		{
			name:    "leaf with no prerequisites",
			resolve: "basic",
			want:    []string{"basic"},
		},
		{
			name:    "prerequisites come first",
			resolve: "tables",
			want:    []string{"basic", "tables"},
		},
		{
			name:    "diamond resolves each target once",
			resolve: "full-doc",
			want:    []string{"basic", "tables", "footnotes", "full-doc"},
		},
		{
			name:    "aggregate expands children, deduplicated first-seen",
			resolve: "all",
			want:    []string{"basic", "tables", "footnotes", "full-doc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(suite)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			plan, err := g.Resolve(tt.resolve)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.resolve, err)
			}
			if diff := cmp.Diff(tt.want, names(plan)); diff != "" {
				t.Errorf("plan mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveAllMergesPlans(t *testing.T) {
	g, err := New([]types.Target{
		{Name: "basic"},
		{Name: "tables", Needs: []string{"basic"}},
		{Name: "footnotes", Needs: []string{"basic"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plan, err := g.ResolveAll([]string{"tables", "footnotes"})
	if err != nil {
		t.Fatalf("ResolveAll: %v", err)
	}
	want := []string{"basic", "tables", "footnotes"}
	if diff := cmp.Diff(want, names(plan)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveUnknownTarget(t *testing.T) {
	g, err := New([]types.Target{{Name: "basic"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = g.Resolve("nope")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("got %v, want ErrUnknownTarget", err)
	}

	// A dangling prerequisite is caught during resolution too.
	g, err = New([]types.Target{{Name: "tables", Needs: []string{"missing"}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = g.Resolve("tables")
	if !errors.Is(err, ErrUnknownTarget) {
		t.Fatalf("got %v, want ErrUnknownTarget", err)
	}
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name    string
		targets []types.Target
		resolve string
	}{
		{
			name:    "self cycle",
			targets: []types.Target{{Name: "a", Needs: []string{"a"}}},
			resolve: "a",
		},
		{
			name: "two-target cycle",
			targets: []types.Target{
				{Name: "a", Needs: []string{"b"}},
				{Name: "b", Needs: []string{"a"}},
			},
			resolve: "a",
		},
		{
			name: "cycle through aggregate",
			targets: []types.Target{
				{Name: "agg", Children: []string{"leaf"}},
				{Name: "leaf", Needs: []string{"agg"}},
			},
			resolve: "agg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.targets)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			_, err = g.Resolve(tt.resolve)
			if !errors.Is(err, ErrCyclicDependency) {
				t.Fatalf("got %v, want ErrCyclicDependency", err)
			}
		})
	}
}

func TestAggregateAsPrerequisite(t *testing.T) {
	g, err := New([]types.Target{
		{Name: "x"},
		{Name: "y"},
		{Name: "inner", Children: []string{"x"}},
		{Name: "group", Children: []string{"inner", "y"}},
		{Name: "combined", Needs: []string{"group"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	plan, err := g.Resolve("combined")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y", "combined"}, names(plan)); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	// The aggregate prerequisite is rewritten to its leaf targets, so the
	// planned entry only references other plan entries.
	combined := plan[len(plan)-1]
	if diff := cmp.Diff([]string{"x", "y"}, combined.Needs); diff != "" {
		t.Errorf("needs mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsDuplicates(t *testing.T) {
	_, err := New([]types.Target{{Name: "basic"}, {Name: "basic"}})
	if err == nil {
		t.Fatal("expected error for duplicate target name")
	}
}

func TestSharedPrerequisiteNotDuplicated(t *testing.T) {
	g, err := New([]types.Target{
		{Name: "basic"},
		{Name: "a", Needs: []string{"basic"}},
		{Name: "b", Needs: []string{"basic"}},
		{Name: "all", Children: []string{"a", "b"}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan, err := g.Resolve("all")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	seen := map[string]int{}
	for _, tgt := range plan {
		seen[tgt.Name]++
	}
	if seen["basic"] != 1 {
		t.Errorf("basic appears %d times, want 1", seen["basic"])
	}
}
