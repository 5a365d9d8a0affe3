// Package digraph provides the directed multigraph substrate shared by all
// path-decomposition algorithms.
//
// # Overview
//
// Pathcover's algorithms (augmented graph construction, width and antichain
// computation, SCC condensation, safety certificates) all operate on the same
// minimal structure: string node identifiers, directed edges with named
// integer attributes, and fast degree/adjacency queries. This package
// provides that structure and nothing else; domain semantics live in the
// packages built on top of it.
//
// Unlike a simple digraph, this is a multigraph: parallel edges between the
// same node pair are distinct edges with stable integer IDs. Condensation
// expansion depends on this - two different original edges entering the same
// strongly connected component must stay distinguishable after contraction,
// or antichain weights computed on the expanded graph would be wrong.
//
// # Basic Usage
//
// Create a graph with [New] and grow it with [Graph.AddEdge], which creates
// missing endpoint nodes on the fly:
//
//	g := digraph.New()
//	g.AddEdge("a", "b", digraph.Attrs{"flow": 3})
//	g.AddEdge("b", "c", digraph.Attrs{"flow": 3})
//	g.AddNode("isolated")
//
// Query structure with [Graph.Successors], [Graph.Predecessors],
// [Graph.OutEdges], [Graph.InEdges], and the degree methods. Edges are
// addressed either by endpoint [Key] (treating the graph as simple) or by
// integer ID (distinguishing parallel edges).
//
// # Determinism
//
// Nodes and edges iterate in insertion order everywhere. All algorithms
// downstream inherit this, so repeated runs over the same input produce
// identical antichains, components, and safety certificates.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Once built it is effectively
// immutable by convention (no removal API exists), and concurrent readers
// need no synchronization.
package digraph
