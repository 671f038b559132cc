package graph

import (
	"slices"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/cratewatch/cratewatch/pkg/cargo"
	"github.com/cratewatch/cratewatch/pkg/model"
)

// CrateGraph is the resolution graph in traversable form, for policy
// consumers that need reachability questions answered (who depends on a
// banned crate, what a crate pulls in transitively). Built from an already
// normalized resolve, so traversal output is deterministic.
type CrateGraph struct {
	graph  *simple.DirectedGraph
	ids    map[model.CrateID]int64 // crate ID -> gonum node ID
	crates map[int64]model.CrateID // gonum node ID -> crate ID
	nextID int64
}

// FromResolve builds the traversable graph from a normalized resolution
// graph. Edges point from dependent to dependency.
func FromResolve(res *cargo.Resolve) *CrateGraph {
	cg := &CrateGraph{
		graph:  simple.NewDirectedGraph(),
		ids:    make(map[model.CrateID]int64),
		crates: make(map[int64]model.CrateID),
	}
	if res == nil {
		return cg
	}

	for _, node := range res.Nodes {
		cg.add(model.CrateID(node.ID))
	}
	for _, node := range res.Nodes {
		for _, dep := range node.Dependencies {
			cg.addEdge(model.CrateID(node.ID), model.CrateID(dep))
		}
	}
	return cg
}

func (cg *CrateGraph) add(id model.CrateID) {
	if _, exists := cg.ids[id]; exists {
		return
	}
	cg.ids[id] = cg.nextID
	cg.crates[cg.nextID] = id
	cg.graph.AddNode(simple.Node(cg.nextID))
	cg.nextID++
}

func (cg *CrateGraph) addEdge(from, to model.CrateID) {
	if from == to {
		return
	}
	cg.add(from)
	cg.add(to)

	fromID, toID := cg.ids[from], cg.ids[to]
	if !cg.graph.HasEdgeFromTo(fromID, toID) {
		cg.graph.SetEdge(cg.graph.NewEdge(cg.graph.Node(fromID), cg.graph.Node(toID)))
	}
}

// Len returns the number of crates in the graph.
func (cg *CrateGraph) Len() int {
	return len(cg.ids)
}

// Has reports whether the crate is present in the graph.
func (cg *CrateGraph) Has(id model.CrateID) bool {
	_, ok := cg.ids[id]
	return ok
}

// DirectDeps returns the crates id depends on directly, sorted.
func (cg *CrateGraph) DirectDeps(id model.CrateID) []model.CrateID {
	nodeID, ok := cg.ids[id]
	if !ok {
		return nil
	}
	return cg.collect(cg.graph.From(nodeID))
}

// Dependents returns the crates that directly depend on id, sorted.
func (cg *CrateGraph) Dependents(id model.CrateID) []model.CrateID {
	nodeID, ok := cg.ids[id]
	if !ok {
		return nil
	}
	return cg.collect(cg.graph.To(nodeID))
}

// TransitiveDeps returns every crate reachable from id, sorted, excluding
// id itself.
func (cg *CrateGraph) TransitiveDeps(id model.CrateID) []model.CrateID {
	start, ok := cg.ids[id]
	if !ok {
		return nil
	}

	seen := map[int64]bool{start: true}
	queue := []int64{start}
	var out []model.CrateID
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		next := cg.graph.From(cur)
		for next.Next() {
			n := next.Node().ID()
			if seen[n] {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
			out = append(out, cg.crates[n])
		}
	}
	slices.Sort(out)
	return out
}

func (cg *CrateGraph) collect(nodes gonumgraph.Nodes) []model.CrateID {
	var out []model.CrateID
	for nodes.Next() {
		out = append(out, cg.crates[nodes.Node().ID()])
	}
	slices.Sort(out)
	return out
}
