package stgraph

import (
	"math"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// DecomposeMaxBottleneck greedily peels source-to-sink paths of maximum
// bottleneck value off the base graph's attr flow: a topological DP
// finds the path whose minimum edge value is largest, the bottleneck is
// subtracted along it, and the loop repeats until no flow remains.
//
// Returns the node paths and their bottleneck weights. The base graph
// must be acyclic (STRUCTURAL_ERROR otherwise) and is not mutated; flow
// values are copied before peeling. Edges missing attr count as zero.
func (g *Graph) DecomposeMaxBottleneck(attr string) ([][]string, []int64, error) {
	base := g.base
	order, ok := base.TopologicalOrder()
	if !ok {
		return nil, nil, errors.New(errors.ErrCodeStructural, "graph %s is cyclic: max-bottleneck decomposition needs a DAG", g.id)
	}

	residual := make([]int64, base.EdgeCount())
	for _, e := range base.Edges() {
		v, _ := e.Attr(attr)
		if v < 0 {
			return nil, nil, errors.New(errors.ErrCodeStructural, "edge %s -> %s has negative %s value %d", e.From, e.To, attr, v)
		}
		residual[e.ID] = v
	}

	var (
		paths   [][]string
		weights []int64
	)
	for {
		bottleneck, path := maxBottleneckPath(base, order, residual)
		if path == nil {
			break
		}
		for _, e := range path {
			residual[e.ID] -= bottleneck
		}
		paths = append(paths, edgePathNodes(path))
		weights = append(weights, bottleneck)
	}
	return paths, weights, nil
}

// maxBottleneckPath runs the bottleneck DP over a fixed topological
// order. best[v] is the largest min-edge value over all paths from any
// in-degree-0 node to v; bestIn[v] remembers the incoming edge that
// achieves it. Returns nil when no positive-bottleneck path remains.
func maxBottleneckPath(g *digraph.Graph, order []string, residual []int64) (int64, []*digraph.Edge) {
	best := make(map[string]int64, len(order))
	bestIn := make(map[string]*digraph.Edge, len(order))

	var sink string
	haveSink := false
	for _, v := range order {
		if g.InDegree(v) == 0 {
			if g.OutDegree(v) == 0 {
				continue // isolated node, nothing to peel
			}
			best[v] = math.MaxInt64
			continue
		}
		best[v] = math.MinInt64
		for _, e := range g.InEdges(v) {
			b := min(best[e.From], residual[e.ID])
			if b > best[v] {
				best[v] = b
				bestIn[v] = e
			}
		}
		if g.OutDegree(v) == 0 && (!haveSink || best[v] > best[sink]) {
			sink, haveSink = v, true
		}
	}

	if !haveSink || best[sink] <= 0 {
		return 0, nil
	}

	var reversed []*digraph.Edge
	for v := sink; g.InDegree(v) > 0; v = bestIn[v].From {
		reversed = append(reversed, bestIn[v])
	}
	path := make([]*digraph.Edge, len(reversed))
	for i, e := range reversed {
		path[len(path)-1-i] = e
	}
	return best[sink], path
}

func edgePathNodes(path []*digraph.Edge) []string {
	nodes := make([]string, 0, len(path)+1)
	nodes = append(nodes, path[0].From)
	for _, e := range path {
		nodes = append(nodes, e.To)
	}
	return nodes
}

// MaxOccurrence returns the largest total length of sequence edges that
// appear together in a single candidate path. Paths are node lists;
// edgeLengths supplies per-edge lengths, defaulting to 1.
func MaxOccurrence(seq Sequence, paths [][]string, edgeLengths map[digraph.Key]int64) int64 {
	var best int64
	for _, path := range paths {
		edges := make(map[digraph.Key]bool, len(path))
		for i := 0; i+1 < len(path); i++ {
			edges[digraph.Key{From: path[i], To: path[i+1]}] = true
		}
		var occ int64
		for _, k := range seq {
			if edges[k] {
				if l, ok := edgeLengths[k]; ok {
					occ += l
				} else {
					occ++
				}
			}
		}
		if occ > best {
			best = occ
		}
	}
	return best
}
