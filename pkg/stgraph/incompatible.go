package stgraph

import (
	"slices"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// Sequence is an ordered list of original edges, addressed by endpoints.
type Sequence []digraph.Key

// LongestIncompatibleSequences picks a maximum-weight pairwise
// incompatible subset of the candidate sequences: no two returned
// sequences can share a single source-to-sink walk, because they compete
// for edges that form an antichain of the expanded graph.
//
// For every expanded edge, the longest sequence passing through it
// (first one wins ties) becomes the edge's owner and its length the
// edge's weight; a maximum-weight antichain then selects the owners.
// An antichain cannot contain two edges of the same chain, so owners are
// distinct by construction. Results preserve candidate order.
func (c *Condensed) LongestIncompatibleSequences(sequences []Sequence) ([]Sequence, error) {
	owner := make(map[int]int) // expanded edge ID -> sequence index
	for i, seq := range sequences {
		for _, k := range seq {
			e, err := c.g.FindEdge(k.From, k.To)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidArgument, err, "sequence %d", i)
			}
			exp := c.edgeToExp[e.ID]
			if cur, ok := owner[exp]; !ok || len(seq) > len(sequences[cur]) {
				owner[exp] = i
			}
		}
	}

	demands := make([]int64, c.exp.EdgeCount())
	for exp, i := range owner {
		demands[exp] = int64(len(sequences[i]))
	}

	_, chain, err := maxEdgeAntichain(c.exp, c.expSource, c.expSink, demands, true)
	if err != nil {
		return nil, err
	}

	var picked []int
	for _, e := range chain {
		i, ok := owner[e.ID]
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "antichain edge %s -> %s has no owning sequence", e.From, e.To)
		}
		if !slices.Contains(picked, i) {
			picked = append(picked, i)
		}
	}
	slices.Sort(picked)

	result := make([]Sequence, len(picked))
	for i, idx := range picked {
		result[i] = sequences[idx]
	}
	return result, nil
}
