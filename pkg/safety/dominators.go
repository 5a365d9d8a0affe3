package safety

import (
	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/stgraph"
)

// SafeSequencesViaDominators returns the maximal safe sequences of the
// target edge set, working on cyclic graphs. Every walk covering a
// target edge must also cross all of the edge's dominators toward the
// source and toward the sink; two arc dominator trees capture those
// relations and their leaf/unitary-chain structure yields each maximal
// sequence exactly once.
//
// The immediate dominators are computed over the full augmented graph;
// restriction to X happens only in the tree queries, so shrinking X
// never requires recomputing the trees' raw parents.
func SafeSequencesViaDominators(g *stgraph.Graph, x []digraph.Key) ([]stgraph.Sequence, error) {
	work := g.Working()
	inX := make(map[digraph.Key]bool, len(x))
	for _, k := range x {
		if len(work.EdgesBetween(k.From, k.To)) == 0 {
			return nil, errors.New(errors.ErrCodeEdgeNotFound, "edge %s -> %s not in graph %s", k.From, k.To, g.ID())
		}
		inX[k] = true
	}

	fwd := NewAdjacency(work)
	rev := NewReverseAdjacency(work)

	arcs := make([]digraph.Key, 0, work.EdgeCount())
	sParent := make(map[digraph.Key]*digraph.Key, work.EdgeCount())
	tParent := make(map[digraph.Key]*digraph.Key, work.EdgeCount())
	seen := make(map[digraph.Key]bool, work.EdgeCount())
	for _, e := range work.Edges() {
		k := e.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		arcs = append(arcs, k)

		// Nearest edge every source-to-tail path crosses. Found on the
		// reverse graph, so flip the result back.
		sIdom, err := findFirstBridge(rev, k.From, g.Source())
		if err != nil {
			return nil, err
		}
		if sIdom != nil {
			sParent[k] = &digraph.Key{From: sIdom.To, To: sIdom.From}
		} else {
			sParent[k] = nil
		}

		// Nearest edge every head-to-sink path crosses.
		tIdom, err := findFirstBridge(fwd, k.To, g.Sink())
		if err != nil {
			return nil, err
		}
		tParent[k] = tIdom
	}

	ts := newArcTree(sParent, arcs, inX)
	tt := newArcTree(tParent, arcs, inX)

	// A source-tree X-leaf is a core when its upward unitary chain
	// re-reads as the sink tree's downward unitary chain and that chain
	// bottoms out at a sink-tree X-leaf. Each maximal sequence has
	// exactly one core.
	var cores []digraph.Key
	for _, arc := range arcs {
		if !inX[arc] || !ts.isLeafX(arc) {
			continue
		}
		sChain := ts.unitaryChainUp(arc)
		tChain := tt.unitaryChainDown(arc)
		if len(tChain) > len(sChain) {
			continue
		}
		match := true
		for i := range tChain {
			if sChain[i] != tChain[i] {
				match = false
				break
			}
		}
		if match && tt.isLeafX(tChain[len(tChain)-1]) {
			cores = append(cores, arc)
		}
	}

	sequences := make([]stgraph.Sequence, 0, len(cores))
	for _, core := range cores {
		sDoms := ts.dominatorsX(core)
		tDoms := tt.dominatorsX(core)

		seq := make(stgraph.Sequence, 0, len(sDoms)+len(tDoms)-1)
		for i := len(sDoms) - 1; i >= 0; i-- {
			seq = append(seq, sDoms[i])
		}
		seq = append(seq, tDoms[1:]...)
		sequences = append(sequences, seq)
	}
	return sequences, nil
}

// arcTree is a dominator tree whose nodes are edges of the augmented
// graph; a nil parent marks a child of the root (the source or sink
// node itself). Queries are restricted to the target set X.
type arcTree struct {
	parentX   map[digraph.Key]*digraph.Key
	childrenX map[digraph.Key][]digraph.Key
}

func newArcTree(parent map[digraph.Key]*digraph.Key, arcs []digraph.Key, inX map[digraph.Key]bool) *arcTree {
	t := &arcTree{
		parentX:   make(map[digraph.Key]*digraph.Key, len(arcs)),
		childrenX: make(map[digraph.Key][]digraph.Key, len(arcs)),
	}
	// Nearest ancestor inside X, memoized along each walked chain.
	for _, arc := range arcs {
		var chain []digraph.Key
		cur := arc
		var res *digraph.Key
		for {
			if p, ok := t.parentX[cur]; ok {
				res = p
				break
			}
			chain = append(chain, cur)
			raw := parent[cur]
			if raw == nil {
				res = nil
				break
			}
			if inX[*raw] {
				res = raw
				break
			}
			cur = *raw
		}
		for _, c := range chain {
			t.parentX[c] = res
		}
	}
	for _, arc := range arcs {
		if !inX[arc] {
			continue
		}
		if p := t.parentX[arc]; p != nil {
			t.childrenX[*p] = append(t.childrenX[*p], arc)
		}
	}
	return t
}

// isLeafX reports whether no X-arc has arc as its nearest X-ancestor.
func (t *arcTree) isLeafX(arc digraph.Key) bool {
	return len(t.childrenX[arc]) == 0
}

// unitaryChainUp follows X-parents upward from arc while each parent
// has arc's chain as its only X-child.
func (t *arcTree) unitaryChainUp(arc digraph.Key) []digraph.Key {
	chain := []digraph.Key{arc}
	for {
		p := t.parentX[chain[len(chain)-1]]
		if p == nil || len(t.childrenX[*p]) != 1 {
			return chain
		}
		chain = append(chain, *p)
	}
}

// unitaryChainDown follows single X-children downward from arc.
func (t *arcTree) unitaryChainDown(arc digraph.Key) []digraph.Key {
	chain := []digraph.Key{arc}
	for len(t.childrenX[chain[len(chain)-1]]) == 1 {
		chain = append(chain, t.childrenX[chain[len(chain)-1]][0])
	}
	return chain
}

// dominatorsX lists arc and its X-ancestors in root-ward order.
func (t *arcTree) dominatorsX(arc digraph.Key) []digraph.Key {
	doms := []digraph.Key{arc}
	for {
		p := t.parentX[doms[len(doms)-1]]
		if p == nil {
			return doms
		}
		doms = append(doms, *p)
	}
}
