package stgraph

import (
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// FlowAttr is the conventional edge attribute holding flow values.
const FlowAttr = "flow"

// Options configures [Build].
type Options struct {
	// ID names the graph; used in logs and cache keys. Defaults to a
	// fresh uuid when empty.
	ID string

	// AdditionalStarts lists nodes that receive a source edge even
	// though they have incoming edges. Must be existing base nodes.
	AdditionalStarts []string

	// AdditionalEnds lists nodes that receive a sink edge even though
	// they have outgoing edges. Must be existing base nodes.
	AdditionalEnds []string
}

// Graph is a base graph augmented with a synthetic global source and
// sink. It is immutable after Build and safe for concurrent reads.
//
// The synthetic node ids carry a per-instance uuid suffix, so they can
// never collide with base node ids and two Graphs never share ids.
type Graph struct {
	id     string
	base   *digraph.Graph
	work   *digraph.Graph
	source string
	sink   string

	sourceEdges []*digraph.Edge
	sinkEdges   []*digraph.Edge
	boundary    map[int]bool // working-graph edge IDs incident to source/sink

	mu         sync.Mutex
	width      int64
	widthKnown bool
}

// Build validates the base graph and attaches the synthetic source and
// sink. Returns STRUCTURAL_ERROR when a node id is invalid or when the
// augmented graph ends up without source or sink edges, and
// INVALID_ARGUMENT when an additional start/end is not a base node.
//
// The base graph is cloned and frozen; later mutation of the caller's
// graph does not affect the Graph.
func Build(base *digraph.Graph, opts Options) (*Graph, error) {
	for _, id := range base.Nodes() {
		if err := errors.ValidateNodeID(id); err != nil {
			return nil, err
		}
	}

	starts := make(map[string]bool, len(opts.AdditionalStarts))
	for _, id := range opts.AdditionalStarts {
		if !base.HasNode(id) {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "additional start %q is not a node of the base graph", id)
		}
		starts[id] = true
	}
	ends := make(map[string]bool, len(opts.AdditionalEnds))
	for _, id := range opts.AdditionalEnds {
		if !base.HasNode(id) {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "additional end %q is not a node of the base graph", id)
		}
		ends[id] = true
	}

	id := opts.ID
	if id == "" {
		id = uuid.NewString()
	}

	g := &Graph{
		id:       id,
		base:     base.Clone(),
		work:     base.Clone(),
		source:   "source-" + uuid.NewString(),
		sink:     "sink-" + uuid.NewString(),
		boundary: make(map[int]bool),
	}
	g.base.Freeze()

	for _, u := range g.base.Nodes() {
		if g.base.InDegree(u) == 0 || starts[u] {
			e, err := g.work.AddEdge(g.source, u, nil)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStructural, err, "attach source edge to %q", u)
			}
			g.sourceEdges = append(g.sourceEdges, e)
			g.boundary[e.ID] = true
		}
		if g.base.OutDegree(u) == 0 || ends[u] {
			e, err := g.work.AddEdge(u, g.sink, nil)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeStructural, err, "attach sink edge to %q", u)
			}
			g.sinkEdges = append(g.sinkEdges, e)
			g.boundary[e.ID] = true
		}
	}

	if len(g.sourceEdges) == 0 {
		return nil, errors.New(errors.ErrCodeStructural, "graph %s has no source edges: every node has incoming edges and no additional starts were given", id)
	}
	if len(g.sinkEdges) == 0 {
		return nil, errors.New(errors.ErrCodeStructural, "graph %s has no sink edges: every node has outgoing edges and no additional ends were given", id)
	}

	g.work.Freeze()
	return g, nil
}

// ID returns the graph's identifier.
func (g *Graph) ID() string { return g.id }

// Source returns the synthetic source node id.
func (g *Graph) Source() string { return g.source }

// Sink returns the synthetic sink node id.
func (g *Graph) Sink() string { return g.sink }

// Base returns the frozen base graph (no synthetic nodes).
func (g *Graph) Base() *digraph.Graph { return g.base }

// Working returns the frozen augmented graph, including the synthetic
// source/sink nodes and their edges.
func (g *Graph) Working() *digraph.Graph { return g.work }

// SourceEdges returns the edges leaving the synthetic source.
func (g *Graph) SourceEdges() []*digraph.Edge {
	return append([]*digraph.Edge(nil), g.sourceEdges...)
}

// SinkEdges returns the edges entering the synthetic sink.
func (g *Graph) SinkEdges() []*digraph.Edge {
	return append([]*digraph.Edge(nil), g.sinkEdges...)
}

// BoundaryEdges returns the union of source and sink edges. Callers that
// must not count synthetic edges exclude exactly this set.
func (g *Graph) BoundaryEdges() []*digraph.Edge {
	out := make([]*digraph.Edge, 0, len(g.sourceEdges)+len(g.sinkEdges))
	out = append(out, g.sourceEdges...)
	return append(out, g.sinkEdges...)
}

// IsBoundary reports whether the working-graph edge touches the
// synthetic source or sink.
func (g *Graph) IsBoundary(e *digraph.Edge) bool { return g.boundary[e.ID] }

// FindEdge looks up a working-graph edge by endpoints, returning
// EDGE_NOT_FOUND when absent. Parallel edges resolve to the first in
// insertion order.
func (g *Graph) FindEdge(from, to string) (*digraph.Edge, error) {
	if e, ok := g.work.FindEdge(from, to); ok {
		return e, nil
	}
	return nil, errors.New(errors.ErrCodeEdgeNotFound, "edge %s -> %s not in graph %s", from, to, g.id)
}

// NonZeroFlowEdges returns, in insertion order, every working-graph edge
// outside the ignore set whose attr value is present and non-zero.
// Boundary edges never carry flow attributes, so they are excluded
// naturally.
func (g *Graph) NonZeroFlowEdges(attr string, ignore map[digraph.Key]bool) []*digraph.Edge {
	var result []*digraph.Edge
	for _, e := range g.work.Edges() {
		if ignore[e.Key()] {
			continue
		}
		if v, ok := e.Attr(attr); ok && v != 0 {
			result = append(result, e)
		}
	}
	return result
}

// MaxFlowValue returns the largest attr value over all non-boundary
// edges outside the ignore set. Returns INVALID_ARGUMENT when an edge
// misses the attribute and STRUCTURAL_ERROR when a value is negative.
func (g *Graph) MaxFlowValue(attr string, ignore map[digraph.Key]bool) (int64, error) {
	var (
		maxVal int64
		seen   bool
	)
	for _, e := range g.work.Edges() {
		if g.boundary[e.ID] || ignore[e.Key()] {
			continue
		}
		v, ok := e.Attr(attr)
		if !ok {
			return 0, errors.New(errors.ErrCodeInvalidArgument, "edge %s -> %s has no %q attribute", e.From, e.To, attr)
		}
		if v < 0 {
			return 0, errors.New(errors.ErrCodeStructural, "edge %s -> %s has negative %s value %d", e.From, e.To, attr, v)
		}
		if !seen || v > maxVal {
			maxVal, seen = v, true
		}
	}
	if !seen {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "graph %s has no edges carrying %q", g.id, attr)
	}
	return maxVal, nil
}

// CheckFlowConservation reports whether every internal base node has
// equal incoming and outgoing attr totals. Nodes with zero in- or
// out-degree in the base graph are skipped (they trade flow with the
// synthetic source/sink). Edges missing the attribute count as zero.
func (g *Graph) CheckFlowConservation(attr string) bool {
	for _, u := range g.base.Nodes() {
		if g.base.InDegree(u) == 0 || g.base.OutDegree(u) == 0 {
			continue
		}
		var in, out int64
		for _, e := range g.base.InEdges(u) {
			v, _ := e.Attr(attr)
			in += v
		}
		for _, e := range g.base.OutEdges(u) {
			v, _ := e.Attr(attr)
			out += v
		}
		if in != out {
			return false
		}
	}
	return true
}

// defaultDemands returns per-edge coverage demands: 1 for edges of the
// base graph, 0 for boundary edges and for edges in the ignore set.
func (g *Graph) defaultDemands(ignore []digraph.Key) ([]int64, error) {
	ignored := make(map[int]bool, len(ignore))
	for _, k := range ignore {
		e, ok := g.work.FindEdge(k.From, k.To)
		if !ok {
			return nil, errors.New(errors.ErrCodeEdgeNotFound, "ignored edge %s -> %s not in graph %s", k.From, k.To, g.id)
		}
		ignored[e.ID] = true
	}

	demands := make([]int64, g.work.EdgeCount())
	for _, e := range g.work.Edges() {
		if g.boundary[e.ID] || ignored[e.ID] {
			continue
		}
		demands[e.ID] = 1
	}
	return demands, nil
}

// Width returns the minimum number of source-to-sink walks needed to
// cover every non-boundary edge outside the ignore set.
//
// The working graph must be acyclic; cyclic graphs return
// STRUCTURAL_ERROR (use [Condense] and [Condensed.Width] instead). The
// no-ignore width is memoized per instance.
func (g *Graph) Width(ignore []digraph.Key) (int64, error) {
	if len(ignore) == 0 {
		g.mu.Lock()
		if g.widthKnown {
			w := g.width
			g.mu.Unlock()
			return w, nil
		}
		g.mu.Unlock()
	}

	if !g.work.IsAcyclic() {
		return 0, errors.New(errors.ErrCodeStructural, "graph %s is cyclic: condense it before width computation", g.id)
	}

	demands, err := g.defaultDemands(ignore)
	if err != nil {
		return 0, err
	}
	width, _, err := maxEdgeAntichain(g.work, g.source, g.sink, demands, false)
	if err != nil {
		return 0, err
	}

	if len(ignore) == 0 {
		g.mu.Lock()
		g.width, g.widthKnown = width, true
		g.mu.Unlock()
	}
	return width, nil
}

// MaxEdgeAntichain computes a maximum-weight edge antichain of the
// working graph and its total weight. A nil weight map uses the default
// demand of 1 on non-boundary edges; otherwise each edge's demand comes
// from the map (edges absent from the map get 0, including boundary
// edges). Requires an acyclic working graph.
func (g *Graph) MaxEdgeAntichain(weights map[digraph.Key]int64) (int64, []*digraph.Edge, error) {
	if !g.work.IsAcyclic() {
		return 0, nil, errors.New(errors.ErrCodeStructural, "graph %s is cyclic: condense it before antichain computation", g.id)
	}

	var (
		demands []int64
		err     error
	)
	if weights == nil {
		demands, err = g.defaultDemands(nil)
		if err != nil {
			return 0, nil, err
		}
	} else {
		demands = make([]int64, g.work.EdgeCount())
		for _, e := range g.work.Edges() {
			if w, ok := weights[e.Key()]; ok {
				if w < 0 {
					return 0, nil, errors.New(errors.ErrCodeInvalidArgument, "negative weight %d on edge %s -> %s", w, e.From, e.To)
				}
				demands[e.ID] = w
			}
		}
	}

	return maxEdgeAntichain(g.work, g.source, g.sink, demands, true)
}
