package graph

import (
	"slices"
	"testing"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/model"
)

func fixtureResolve() *cargo.Resolve {
	// app -> serde -> serde_derive
	//     -> rand
	return &cargo.Resolve{
		Root: "app 0.1.0",
		Nodes: []cargo.Node{
			{ID: "app 0.1.0", Dependencies: []string{"serde 1.0.100", "rand 0.6.5"}},
			{ID: "rand 0.6.5"},
			{ID: "serde 1.0.100", Dependencies: []string{"serde_derive 1.0.100"}},
			{ID: "serde_derive 1.0.100"},
		},
	}
}

func TestFromResolve(t *testing.T) {
	cg := FromResolve(fixtureResolve())

	if cg.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", cg.Len())
	}
	if !cg.Has("serde 1.0.100") || cg.Has("tokio 1.0.0") {
		t.Error("Has() membership is wrong")
	}

	deps := cg.DirectDeps("app 0.1.0")
	want := []model.CrateID{"rand 0.6.5", "serde 1.0.100"}
	if !slices.Equal(deps, want) {
		t.Errorf("DirectDeps(app) = %v, want %v", deps, want)
	}

	if deps := cg.DirectDeps("rand 0.6.5"); len(deps) != 0 {
		t.Errorf("DirectDeps(rand) = %v, want none", deps)
	}
}

func TestDependents(t *testing.T) {
	cg := FromResolve(fixtureResolve())

	got := cg.Dependents("serde_derive 1.0.100")
	want := []model.CrateID{"serde 1.0.100"}
	if !slices.Equal(got, want) {
		t.Errorf("Dependents(serde_derive) = %v, want %v", got, want)
	}

	if got := cg.Dependents("app 0.1.0"); len(got) != 0 {
		t.Errorf("Dependents(app) = %v, want none", got)
	}
}

func TestTransitiveDeps(t *testing.T) {
	cg := FromResolve(fixtureResolve())

	got := cg.TransitiveDeps("app 0.1.0")
	want := []model.CrateID{"rand 0.6.5", "serde 1.0.100", "serde_derive 1.0.100"}
	if !slices.Equal(got, want) {
		t.Errorf("TransitiveDeps(app) = %v, want %v", got, want)
	}

	if got := cg.TransitiveDeps("missing 0.0.0"); got != nil {
		t.Errorf("TransitiveDeps of unknown crate = %v, want nil", got)
	}
}

func TestFromResolveNil(t *testing.T) {
	cg := FromResolve(nil)
	if cg.Len() != 0 {
		t.Errorf("Len() = %d, want 0", cg.Len())
	}
}
