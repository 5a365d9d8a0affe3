package safety

import (
	"slices"

	"github.com/matzehuels/pathcover/pkg/digraph"
)

// Adjacency maps every node to a stack of its neighbors. The slice is
// treated as a multiset: bridge discovery pops and re-appends entries,
// so their order carries no meaning between calls.
type Adjacency map[string][]string

// NewAdjacency builds forward adjacency stacks for all nodes of g,
// including nodes without successors.
func NewAdjacency(g *digraph.Graph) Adjacency {
	adj := make(Adjacency, g.NodeCount())
	for _, u := range g.Nodes() {
		adj[u] = slices.Clone(g.Successors(u))
	}
	return adj
}

// NewReverseAdjacency builds predecessor stacks for all nodes of g.
func NewReverseAdjacency(g *digraph.Graph) Adjacency {
	adj := make(Adjacency, g.NodeCount())
	for _, u := range g.Nodes() {
		adj[u] = slices.Clone(g.Predecessors(u))
	}
	return adj
}

// Clone deep-copies the adjacency stacks. Workers operating
// concurrently each take their own clone.
func (a Adjacency) Clone() Adjacency {
	out := make(Adjacency, len(a))
	for u, vs := range a {
		out[u] = slices.Clone(vs)
	}
	return out
}

// removeLast deletes the last occurrence of v from a[u]. Reports
// whether an occurrence existed.
func (a Adjacency) removeLast(u, v string) bool {
	s := a[u]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == v {
			a[u] = append(s[:i], s[i+1:]...)
			return true
		}
	}
	return false
}
