package safety

import (
	"sync"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// SafeSequences returns, per target edge (u,v) of an acyclic graph, the
// bridge chain every source-to-sink walk covering the edge must cross:
// the bridges between the source and u (found on the reverse graph and
// flipped back), then (u,v), then the bridges between v and the sink.
//
// Per-edge tasks run on a fixed worker pool; every slot owns private
// forward and reverse adjacency clones, so the consume-and-restore
// bridge discovery needs no locking. Results follow the input order.
func SafeSequences(g *stgraph.Graph, edgesToCover []digraph.Key, opts Options) ([]stgraph.Sequence, error) {
	work := g.Working()
	if !work.IsAcyclic() {
		return nil, errors.New(errors.ErrCodeStructural, "graph %s is cyclic: use the dominator-based safe sequences", g.ID())
	}
	for _, k := range edgesToCover {
		if len(work.EdgesBetween(k.From, k.To)) == 0 {
			return nil, errors.New(errors.ErrCodeEdgeNotFound, "edge %s -> %s not in graph %s", k.From, k.To, g.ID())
		}
	}

	fwd := NewAdjacency(work)
	rev := NewReverseAdjacency(work)
	workers := opts.workers()

	results := make([]stgraph.Sequence, len(edgesToCover))
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for slot := 0; slot < workers; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			slotFwd, slotRev := fwd.Clone(), rev.Clone()
			for i := slot; i < len(edgesToCover); i += workers {
				seq, err := safeSequence(slotFwd, slotRev, edgesToCover[i], g.Source(), g.Sink())
				if err != nil {
					errs[slot] = err
					return
				}
				results[i] = seq
			}
		}(slot)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func safeSequence(fwd, rev Adjacency, target digraph.Key, source, sink string) (stgraph.Sequence, error) {
	left, err := FindAllBridges(rev, target.From, source)
	if err != nil {
		return nil, err
	}
	right, err := FindAllBridges(fwd, target.To, sink)
	if err != nil {
		return nil, err
	}

	// Left bridges were found on the reverse graph walking away from
	// the target: flip each edge and reverse the order.
	seq := make(stgraph.Sequence, 0, len(left)+1+len(right))
	for i := len(left) - 1; i >= 0; i-- {
		seq = append(seq, digraph.Key{From: left[i].To, To: left[i].From})
	}
	seq = append(seq, target)
	seq = append(seq, right...)
	return seq, nil
}

// SafeSequencesOfBaseEdges runs SafeSequences over every base edge of g.
func SafeSequencesOfBaseEdges(g *stgraph.Graph, opts Options) ([]stgraph.Sequence, error) {
	return SafeSequences(g, baseEdgeKeys(g), opts)
}
