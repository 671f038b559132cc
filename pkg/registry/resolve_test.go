package registry

import (
	"encoding/json"
	"testing"

	"github.com/cratewatch/cratewatch/pkg/cargo"
)

func TestNormalizeResolveDeterminism(t *testing.T) {
	a := &cargo.Resolve{
		Root: "app 0.1.0",
		Nodes: []cargo.Node{
			{
				ID:           "serde 1.0.100",
				Dependencies: []string{"serde_derive 1.0.100"},
				Deps:         []cargo.NodeDep{{Name: "serde_derive", Pkg: "serde_derive 1.0.100"}},
				Features:     []string{"std", "derive", "alloc"},
			},
			{
				ID:           "app 0.1.0",
				Dependencies: []string{"serde 1.0.100", "rand 0.6.5"},
				Deps: []cargo.NodeDep{
					{Name: "serde", Pkg: "serde 1.0.100"},
					{Name: "rand", Pkg: "rand 0.6.5"},
				},
			},
			{ID: "rand 0.6.5"},
		},
	}

	// Same graph, nodes and edge lists permuted.
	b := &cargo.Resolve{
		Root: "app 0.1.0",
		Nodes: []cargo.Node{
			{ID: "rand 0.6.5"},
			{
				ID:           "app 0.1.0",
				Dependencies: []string{"rand 0.6.5", "serde 1.0.100"},
				Deps: []cargo.NodeDep{
					{Name: "rand", Pkg: "rand 0.6.5"},
					{Name: "serde", Pkg: "serde 1.0.100"},
				},
			},
			{
				ID:           "serde 1.0.100",
				Dependencies: []string{"serde_derive 1.0.100"},
				Deps:         []cargo.NodeDep{{Name: "serde_derive", Pkg: "serde_derive 1.0.100"}},
				Features:     []string{"alloc", "derive", "std"},
			},
		},
	}

	NormalizeResolve(a)
	NormalizeResolve(b)

	ja, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	jb, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(ja) != string(jb) {
		t.Errorf("permuted inputs did not normalize identically:\n%s\n%s", ja, jb)
	}

	// Nodes sorted by ID
	for i := 1; i < len(a.Nodes); i++ {
		if a.Nodes[i-1].ID > a.Nodes[i].ID {
			t.Errorf("nodes out of order: %q > %q", a.Nodes[i-1].ID, a.Nodes[i].ID)
		}
	}
}

func TestNormalizeResolveNil(t *testing.T) {
	NormalizeResolve(nil) // must not panic
}
