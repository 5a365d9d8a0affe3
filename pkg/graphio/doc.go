// Package graphio reads and writes flow graphs in the exchange formats
// used by the pathcover tools.
//
// # Text format
//
// The plain-text benchmark format stores one or more graphs per file.
// Each graph is a block of lines:
//
//	# <id>
//	<n>
//	<u> <v> <w>
//	...
//
// The first line carries the graph id after the '#' marker, the second
// line the node count (informational only), and every following line one
// edge with an integer weight. The weight is stored under the "flow"
// edge attribute. A new block starts at every line beginning with '#'.
//
// Use [ReadGraphs] or [ReadFile] to parse files in this format and
// [WriteGraphs] to produce them.
//
// # JSON format
//
// [ReadJSON] and [WriteJSON] handle a node/edge JSON representation:
//
//	{
//	  "id": "example",
//	  "nodes": ["a", "b"],
//	  "edges": [{"from": "a", "to": "b", "attrs": {"flow": 3}}]
//	}
//
// The JSON format round-trips attribute maps and parallel edges; the
// text format stores only the "flow" attribute and collapses nothing.
package graphio
