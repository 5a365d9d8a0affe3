package stgraph

import (
	"fmt"
	"sync"

	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// Condensed is the condensation-expanded view of an augmented graph.
//
// Every strongly connected component of the working graph becomes one
// node; a non-trivial component c (one with at least one internal edge,
// which includes a single node with a self-loop) is subdivided into an
// edge (c, c.out). Inter-component edges re-attach at c.out on the
// leaving side, and each original inter-component edge keeps its own
// expanded edge: the expanded graph is a multigraph, so parallel
// originals stay distinguishable. The result is acyclic regardless of
// cycles in the original graph.
type Condensed struct {
	g *Graph

	componentOf map[string]int // working node id -> component index
	members     [][]string     // component -> node ids
	memberEdges [][]int        // component -> intra-SCC working edge IDs

	exp         *digraph.Graph
	expSource   string
	expSink     string
	expBoundary map[int]bool // expanded edge IDs that are boundary images
	edgeToExp   []int        // working edge ID -> expanded edge ID
	expansion   []int        // component -> its (c, c.out) expanded edge ID, or -1

	mu         sync.Mutex
	width      int64
	widthKnown bool
}

func componentNode(i int) string    { return fmt.Sprintf("scc:%d", i) }
func componentNodeOut(i int) string { return fmt.Sprintf("scc:%d:out", i) }

// Condense computes the strongly connected components of g's working
// graph and builds the expanded DAG.
func Condense(g *Graph) (*Condensed, error) {
	work := g.Working()
	comps := work.StronglyConnectedComponents()

	c := &Condensed{
		g:           g,
		componentOf: make(map[string]int, work.NodeCount()),
		members:     comps,
		memberEdges: make([][]int, len(comps)),
		exp:         digraph.New(),
		expBoundary: make(map[int]bool),
		edgeToExp:   make([]int, work.EdgeCount()),
		expansion:   make([]int, len(comps)),
	}
	for i, comp := range comps {
		for _, u := range comp {
			c.componentOf[u] = i
		}
	}
	for _, e := range work.Edges() {
		if ci := c.componentOf[e.From]; ci == c.componentOf[e.To] {
			c.memberEdges[ci] = append(c.memberEdges[ci], e.ID)
		}
	}

	// Expansion edges first, then inter-component edges in original
	// insertion order; expanded edge IDs stay deterministic either way.
	for i := range comps {
		c.expansion[i] = -1
		if err := c.exp.AddNode(componentNode(i)); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "expanded graph node")
		}
		if len(c.memberEdges[i]) > 0 {
			e, err := c.exp.AddEdge(componentNode(i), componentNodeOut(i), nil)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "expansion edge")
			}
			c.expansion[i] = e.ID
		}
	}

	for _, e := range work.Edges() {
		cu, cv := c.componentOf[e.From], c.componentOf[e.To]
		if cu == cv {
			c.edgeToExp[e.ID] = c.expansion[cu]
			continue
		}
		from := componentNode(cu)
		if c.expansion[cu] >= 0 {
			from = componentNodeOut(cu)
		}
		exp, err := c.exp.AddEdge(from, componentNode(cv), nil)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "expanded edge")
		}
		c.edgeToExp[e.ID] = exp.ID
		if g.IsBoundary(e) {
			c.expBoundary[exp.ID] = true
		}
	}

	// The expanded boundary is exactly the image of the original
	// boundary; deriving it from degrees instead would hand unreachable
	// cycles a source edge and change infeasibility semantics.
	c.expSource = componentNode(c.componentOf[g.Source()])
	c.expSink = componentNode(c.componentOf[g.Sink()])
	c.exp.Freeze()

	return c, nil
}

// Graph returns the underlying augmented graph.
func (c *Condensed) Graph() *Graph { return c.g }

// Expanded returns the frozen expanded DAG.
func (c *Condensed) Expanded() *digraph.Graph { return c.exp }

// ExpandedSource returns the expanded node holding the synthetic source.
func (c *Condensed) ExpandedSource() string { return c.expSource }

// ExpandedSink returns the expanded node holding the synthetic sink.
func (c *Condensed) ExpandedSink() string { return c.expSink }

// ComponentCount returns the number of strongly connected components.
func (c *Condensed) ComponentCount() int { return len(c.members) }

// ComponentMembers returns the node ids of the given component.
func (c *Condensed) ComponentMembers(id int) []string {
	if id < 0 || id >= len(c.members) {
		return nil
	}
	return append([]string(nil), c.members[id]...)
}

// NontrivialSCCCount returns how many components have internal edges.
func (c *Condensed) NontrivialSCCCount() int {
	n := 0
	for _, edges := range c.memberEdges {
		if len(edges) > 0 {
			n++
		}
	}
	return n
}

// LargestSCCSize returns the internal edge count of the largest
// component, 0 when the graph is acyclic.
func (c *Condensed) LargestSCCSize() int {
	largest := 0
	for _, edges := range c.memberEdges {
		if len(edges) > largest {
			largest = len(edges)
		}
	}
	return largest
}

// EdgeToComponent returns the component id when (u,v) is an intra-SCC
// edge of the working graph; INVALID_ARGUMENT otherwise.
func (c *Condensed) EdgeToComponent(u, v string) (int, error) {
	e, err := c.g.FindEdge(u, v)
	if err != nil {
		return 0, err
	}
	cu, cv := c.componentOf[e.From], c.componentOf[e.To]
	if cu != cv {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "edge %s -> %s crosses components %d and %d", u, v, cu, cv)
	}
	return cu, nil
}

// EdgeToExpanded maps an original working-graph edge to its unique
// expanded edge: intra-SCC edges map to their component's expansion
// edge, inter-component edges to their own image. Returns
// EDGE_NOT_FOUND when (u,v) is not an edge of the working graph.
func (c *Condensed) EdgeToExpanded(u, v string) (*digraph.Edge, error) {
	e, err := c.g.FindEdge(u, v)
	if err != nil {
		return nil, err
	}
	return c.exp.Edge(c.edgeToExp[e.ID]), nil
}

// translateIgnore turns an ignore set over original edges into demand
// exclusions over expanded edges. Inter-component edges map directly to
// their expanded counterpart. Intra-component edges are removed from a
// copied per-component member set; a component whose member set empties
// no longer needs traversal, so its expansion edge joins the ignore set.
func (c *Condensed) translateIgnore(ignore []digraph.Key) (map[int]bool, error) {
	ignored := make(map[int]bool, len(ignore))
	removed := make(map[int]map[int]bool)

	for _, k := range ignore {
		e, err := c.g.FindEdge(k.From, k.To)
		if err != nil {
			return nil, err
		}
		cu, cv := c.componentOf[e.From], c.componentOf[e.To]
		if cu != cv {
			ignored[c.edgeToExp[e.ID]] = true
			continue
		}
		if removed[cu] == nil {
			removed[cu] = make(map[int]bool)
		}
		removed[cu][e.ID] = true
	}

	for comp, gone := range removed {
		if len(gone) == len(c.memberEdges[comp]) {
			ignored[c.expansion[comp]] = true
		}
	}
	return ignored, nil
}

// Width returns the minimum number of source-to-sink walks needed to
// cover every non-boundary original edge outside the ignore set,
// computed on the expanded DAG. The no-ignore width is memoized.
func (c *Condensed) Width(ignore []digraph.Key) (int64, error) {
	if len(ignore) == 0 {
		c.mu.Lock()
		if c.widthKnown {
			w := c.width
			c.mu.Unlock()
			return w, nil
		}
		c.mu.Unlock()
	}

	ignored, err := c.translateIgnore(ignore)
	if err != nil {
		return 0, err
	}

	demands := make([]int64, c.exp.EdgeCount())
	for _, e := range c.exp.Edges() {
		if c.expBoundary[e.ID] || ignored[e.ID] {
			continue
		}
		demands[e.ID] = 1
	}

	width, _, err := maxEdgeAntichain(c.exp, c.expSource, c.expSink, demands, false)
	if err != nil {
		return 0, err
	}

	if len(ignore) == 0 {
		c.mu.Lock()
		c.width, c.widthKnown = width, true
		c.mu.Unlock()
	}
	return width, nil
}
