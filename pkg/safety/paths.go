package safety

import (
	"sync"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// Options tunes the per-edge worker pool used by SafePaths and
// SafeSequences.
type Options struct {
	// Workers is the pool size. Zero or negative selects the default.
	Workers int
}

const defaultWorkers = 4

func (o Options) workers() int {
	if o.Workers <= 0 {
		return defaultWorkers
	}
	return o.Workers
}

// SafePaths returns, per target edge, the maximal contiguous path that
// every source-to-sink walk covering the edge must contain: the edge is
// extended left while its tail has in-degree 1 (the sole predecessor is
// forced) and right while its head has out-degree 1. Degrees are taken
// on the augmented graph, so the extension may run onto boundary edges.
// A visited guard stops extensions that wrap around a cycle.
//
// Target edges are addressed by endpoints and must exist in the
// augmented graph. Results follow the input order.
func SafePaths(g *stgraph.Graph, edgesToCover []digraph.Key, opts Options) ([]stgraph.Sequence, error) {
	work := g.Working()
	for _, k := range edgesToCover {
		if len(work.EdgesBetween(k.From, k.To)) == 0 {
			return nil, errors.New(errors.ErrCodeEdgeNotFound, "edge %s -> %s not in graph %s", k.From, k.To, g.ID())
		}
	}

	results := make([]stgraph.Sequence, len(edgesToCover))
	workers := opts.workers()

	var wg sync.WaitGroup
	for slot := 0; slot < workers; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for i := slot; i < len(edgesToCover); i += workers {
				results[i] = safePath(work, edgesToCover[i])
			}
		}(slot)
	}
	wg.Wait()
	return results, nil
}

func safePath(work *digraph.Graph, target digraph.Key) stgraph.Sequence {
	u, v := target.From, target.To
	seen := map[string]bool{u: true, v: true}

	var left stgraph.Sequence
	for work.InDegree(u) == 1 {
		x := work.Predecessors(u)[0]
		left = append(left, digraph.Key{From: x, To: u})
		if seen[x] {
			break
		}
		seen[x] = true
		u = x
	}

	seq := make(stgraph.Sequence, 0, len(left)+1)
	for i := len(left) - 1; i >= 0; i-- {
		seq = append(seq, left[i])
	}
	seq = append(seq, target)

	for work.OutDegree(v) == 1 {
		x := work.Successors(v)[0]
		seq = append(seq, digraph.Key{From: v, To: x})
		if seen[x] {
			break
		}
		seen[x] = true
		v = x
	}
	return seq
}

// SafePathsOfBaseEdges runs SafePaths over every base edge of g.
func SafePathsOfBaseEdges(g *stgraph.Graph, opts Options) ([]stgraph.Sequence, error) {
	return SafePaths(g, baseEdgeKeys(g), opts)
}

func baseEdgeKeys(g *stgraph.Graph) []digraph.Key {
	edges := g.Base().Edges()
	keys := make([]digraph.Key, len(edges))
	for i, e := range edges {
		keys[i] = e.Key()
	}
	return keys
}

// LongestSafePathEndpoints returns the first and last node of the
// longest contiguous edge run inside seq. Sequences interleave
// contiguous stretches with jumps; the longest stretch is the best
// plain path certificate the sequence contains.
func LongestSafePathEndpoints(seq stgraph.Sequence) (string, string, error) {
	if len(seq) == 0 {
		return "", "", errors.New(errors.ErrCodeInvalidArgument, "empty sequence has no path endpoints")
	}

	left, right := seq[0].From, seq[0].To
	bestLeft, bestRight := left, right
	length, bestLength := 1, 1

	for i := 0; i+1 < len(seq); i++ {
		if seq[i].To == seq[i+1].From {
			right = seq[i+1].To
			length++
			continue
		}
		if length > bestLength {
			bestLength = length
			bestLeft, bestRight = left, right
		}
		left, right = seq[i+1].From, seq[i+1].To
		length = 1
	}
	if length > bestLength {
		bestLeft, bestRight = left, right
	}
	return bestLeft, bestRight, nil
}
