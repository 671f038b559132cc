package registry

import (
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cratewatch/cratewatch/pkg/cargo"
)

// NormalizeResolve sorts the resolution graph in place into its canonical
// form: nodes ordered by ID, each node's edge lists and feature set ordered
// by their natural string order. Two semantically identical graphs that
// arrived in different orders normalize to byte-identical output, which
// keeps downstream fingerprints stable across runs and machines.
//
// Per-node sorting is independent, so nodes are partitioned across workers
// the same way Build partitions packages.
func NormalizeResolve(res *cargo.Resolve) {
	if res == nil {
		return
	}

	slices.SortFunc(res.Nodes, func(a, b cargo.Node) int {
		return strings.Compare(a.ID, b.ID)
	})

	var g errgroup.Group
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(res.Nodes) + workers - 1) / workers
	if chunk < 1 {
		chunk = 1
	}
	for start := 0; start < len(res.Nodes); start += chunk {
		end := min(start+chunk, len(res.Nodes))
		g.Go(func() error {
			for i := start; i < end; i++ {
				normalizeNode(&res.Nodes[i])
			}
			return nil
		})
	}
	// Workers never fail; Wait only synchronizes.
	_ = g.Wait()
}

func normalizeNode(n *cargo.Node) {
	slices.Sort(n.Dependencies)
	slices.Sort(n.Features)
	slices.SortFunc(n.Deps, func(a, b cargo.NodeDep) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Pkg, b.Pkg)
	})
}
