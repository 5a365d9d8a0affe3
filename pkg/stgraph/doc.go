// Package stgraph implements the graph substrate shared by all path
// decomposition models: a source/sink-augmented wrapper around a directed
// multigraph, a min-cost-flow based width and maximum edge antichain
// engine, an SCC condensation-expansion that extends width computation to
// cyclic graphs, incompatible-sequence extraction, and a greedy
// max-bottleneck flow decomposition.
//
// # Augmented graphs
//
// [Build] wraps a base graph with one synthetic source and one synthetic
// sink. Every node without incoming edges (or listed as an additional
// start) receives an edge from the source; symmetrically for sinks. The
// resulting working graph is frozen: all downstream algorithms treat it
// as immutable.
//
//	base := digraph.New()
//	base.AddEdge("a", "b", digraph.Attrs{"flow": 3})
//	g, err := stgraph.Build(base, stgraph.Options{})
//
// # Width and antichains
//
// Width is the minimum number of source-to-sink walks needed to cover
// every non-boundary edge; by LP duality it equals the weight of a
// maximum edge antichain. [Graph.Width] and [Graph.MaxEdgeAntichain]
// require an acyclic working graph; for cyclic inputs, build a
// [Condensed] view first and use its methods, which translate between
// original and expanded edges.
package stgraph
