package stgraph

import (
	"fmt"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
	"github.com/matzehuels/pathcover/pkg/flow"
)

// maxEdgeAntichain reduces edge coverage to a min-cost transshipment
// problem on g, which must be acyclic. demands is indexed by edge ID and
// holds each edge's coverage demand (lower bound). The minimum cost
// equals the width (or, under caller-supplied demands, the maximum
// antichain weight). With wantChain set, the antichain itself is
// extracted from the optimal flow.
//
// The reduction subdivides every edge (x,y) with two fresh network nodes
// z1, z2 carrying node demands +d and -d, which emulates a flow lower
// bound of d on the edge. Arcs cost 1 exactly when they leave the
// source, so the total cost counts source-to-sink walks. A zero-cost
// direct source->sink arc absorbs the unused part of the source supply.
func maxEdgeAntichain(g *digraph.Graph, source, sink string, demands []int64, wantChain bool) (int64, []*digraph.Edge, error) {
	net := flow.NewNetwork()
	net.AddNode(source, -flow.Infinity)
	net.AddNode(sink, flow.Infinity)
	if _, err := net.AddArc(source, sink, flow.Infinity, 0); err != nil {
		return 0, nil, errors.Wrap(errors.ErrCodeInternal, err, "build flow network")
	}

	// Graph node ids never contain NUL (ValidateNodeID and the uuid
	// source/sink ids), so the subdivision ids cannot collide.
	edgeArc := make([]int, g.EdgeCount())
	for _, e := range g.Edges() {
		z1 := fmt.Sprintf("\x00%d.1", e.ID)
		z2 := fmt.Sprintf("\x00%d.2", e.ID)
		d := demands[e.ID]
		net.AddNode(z1, d)
		net.AddNode(z2, -d)

		var cost int64
		if e.From == source {
			cost = 1
		}
		arc, err := net.AddArc(e.From, z1, flow.Infinity, cost)
		if err != nil {
			return 0, nil, errors.Wrap(errors.ErrCodeInternal, err, "build flow network")
		}
		edgeArc[e.ID] = arc
		if _, err := net.AddArc(z1, z2, flow.Infinity, 0); err != nil {
			return 0, nil, errors.Wrap(errors.ErrCodeInternal, err, "build flow network")
		}
		if _, err := net.AddArc(z2, e.To, flow.Infinity, 0); err != nil {
			return 0, nil, errors.Wrap(errors.ErrCodeInternal, err, "build flow network")
		}
	}

	res, err := net.Solve()
	if err != nil {
		return 0, nil, errors.Wrap(errors.ErrCodeInfeasibleFlow, err, "no feasible cover flow for the demand set")
	}

	if !wantChain {
		return res.Cost(), nil, nil
	}

	// The flow over the (x,z1) arc is the full flow routed over the
	// original edge; z1 absorbs the demand internally.
	flows := make([]int64, g.EdgeCount())
	for _, e := range g.Edges() {
		flows[e.ID] = res.ArcFlow(edgeArc[e.ID])
	}

	chain, err := extractAntichain(g, source, sink, demands, flows)
	if err != nil {
		return 0, nil, err
	}

	var total int64
	for _, e := range chain {
		total += demands[e.ID]
	}
	if total != res.Cost() {
		return 0, nil, errors.New(errors.ErrCodeInternal, "antichain weight %d does not match minimum cost %d", total, res.Cost())
	}
	return res.Cost(), chain, nil
}

// extractAntichain walks the flow-carrying subgraph twice. The first
// pass marks every node reachable from the source via slack arcs
// (flow > demand), crossing predecessor edges unconditionally. The
// second pass re-walks only marked nodes and collects each saturated
// demand edge whose head was never marked; that frontier is the
// antichain. Both traversals are iterative.
func extractAntichain(g *digraph.Graph, source, sink string, demands, flows []int64) ([]*digraph.Edge, error) {
	const (
		unseen = iota
		marked
		collected
	)
	visited := make(map[string]int, g.NodeCount())

	stack := []string{source}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] != unseen {
			continue
		}
		if u == sink {
			return nil, errors.New(errors.ErrCodeInternal, "slack arcs reach the sink: cover flow is not minimal")
		}
		visited[u] = marked
		for _, e := range g.OutEdges(u) {
			if flows[e.ID] > demands[e.ID] {
				stack = append(stack, e.To)
			}
		}
		for _, e := range g.InEdges(u) {
			stack = append(stack, e.From)
		}
	}

	var chain []*digraph.Edge
	stack = []string{source}
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[u] != marked {
			continue
		}
		visited[u] = collected
		for _, e := range g.OutEdges(u) {
			switch {
			case flows[e.ID] > demands[e.ID]:
				stack = append(stack, e.To)
			case flows[e.ID] == demands[e.ID] && demands[e.ID] >= 1 && visited[e.To] == unseen:
				chain = append(chain, e)
			}
		}
		for _, e := range g.InEdges(u) {
			stack = append(stack, e.From)
		}
	}
	return chain, nil
}
