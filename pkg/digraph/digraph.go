package digraph

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge]
	// when a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrFrozen is returned by mutating methods after [Graph.Freeze].
	ErrFrozen = errors.New("graph is frozen")
)

// Attrs stores named integer attributes attached to an edge, such as the
// flow value or length used by decomposition algorithms. Attrs maps are
// never nil after AddEdge - they are automatically initialized when needed.
type Attrs map[string]int64

// Edge is a directed connection between two nodes. Parallel edges between
// the same node pair are distinct edges with distinct IDs; self-loops are
// allowed. The ID is the edge's position in insertion order and is stable
// for the lifetime of the graph.
type Edge struct {
	ID    int    // Insertion index, unique per graph
	From  string // Tail node ID
	To    string // Head node ID
	Attrs Attrs  // Named integer attributes (never nil after AddEdge)
}

// Attr returns the named attribute value and whether it is present.
func (e *Edge) Attr(name string) (int64, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// Key returns the (From, To) pair identifying the edge's endpoints.
// Parallel edges share a key; use ID to distinguish them.
func (e *Edge) Key() Key { return Key{e.From, e.To} }

// Key identifies an edge by its endpoints. It is the lookup and ignore-set
// currency of all public graph operations, which treat the underlying graph
// as simple; packages that need to address parallel edges individually work
// with edge IDs instead.
type Key struct {
	From string
	To   string
}

// Graph is a directed multigraph with string node identifiers and
// integer-attributed edges. Nodes and edges iterate in insertion order,
// which keeps every algorithm built on top of it deterministic.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent mutation without external
// synchronization; read-only use from multiple goroutines is fine.
type Graph struct {
	order    []string
	nodes    map[string]bool
	edges    []*Edge
	outgoing map[string][]int // node ID -> outgoing edge IDs
	incoming map[string][]int // node ID -> incoming edge IDs
	frozen   bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op,
// so callers building graphs from edge lists don't need to pre-check.
// Returns ErrInvalidNodeID if the ID is empty.
func (g *Graph) AddNode(id string) error {
	if g.frozen {
		return ErrFrozen
	}
	if id == "" {
		return ErrInvalidNodeID
	}
	if !g.nodes[id] {
		g.nodes[id] = true
		g.order = append(g.order, id)
	}
	return nil
}

// AddEdge adds a directed edge, creating missing endpoint nodes on the fly.
// Parallel edges and self-loops are allowed; each call creates a new edge
// with a fresh ID. A nil attrs map is replaced with an empty one.
// Returns the new edge, or ErrInvalidNodeID if either endpoint is empty.
func (g *Graph) AddEdge(from, to string, attrs Attrs) (*Edge, error) {
	if err := g.AddNode(from); err != nil {
		return nil, err
	}
	if err := g.AddNode(to); err != nil {
		return nil, err
	}
	if attrs == nil {
		attrs = Attrs{}
	}
	e := &Edge{ID: len(g.edges), From: from, To: to, Attrs: attrs}
	g.edges = append(g.edges, e)
	g.outgoing[from] = append(g.outgoing[from], e.ID)
	g.incoming[to] = append(g.incoming[to], e.ID)
	return e, nil
}

// Freeze makes the graph permanently immutable: later AddNode and AddEdge
// calls return ErrFrozen. Freezing an already frozen graph is a no-op.
// Clone returns an unfrozen copy.
func (g *Graph) Freeze() { g.frozen = true }

// Frozen reports whether Freeze has been called.
func (g *Graph) Frozen() bool { return g.frozen }

// HasNode reports whether the node exists.
func (g *Graph) HasNode(id string) bool { return g.nodes[id] }

// Nodes returns all node IDs in insertion order.
// The returned slice is a copy and can be modified freely.
func (g *Graph) Nodes() []string { return slices.Clone(g.order) }

// Edges returns all edges in insertion order. The returned slice is a copy,
// but the edge pointers refer to the graph's own edges.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID, or nil if out of range.
func (g *Graph) Edge(id int) *Edge {
	if id < 0 || id >= len(g.edges) {
		return nil
	}
	return g.edges[id]
}

// FindEdge returns the first edge from one node to another, in insertion
// order, and whether one exists.
func (g *Graph) FindEdge(from, to string) (*Edge, bool) {
	for _, id := range g.outgoing[from] {
		if e := g.edges[id]; e.To == to {
			return e, true
		}
	}
	return nil, false
}

// EdgesBetween returns every parallel edge from one node to another,
// in insertion order.
func (g *Graph) EdgesBetween(from, to string) []*Edge {
	var result []*Edge
	for _, id := range g.outgoing[from] {
		if e := g.edges[id]; e.To == to {
			result = append(result, e)
		}
	}
	return result
}

// HasEdge reports whether at least one edge from one node to another exists.
func (g *Graph) HasEdge(from, to string) bool {
	_, ok := g.FindEdge(from, to)
	return ok
}

// OutEdges returns the edges leaving the node, in insertion order.
func (g *Graph) OutEdges(id string) []*Edge {
	return g.edgeList(g.outgoing[id])
}

// InEdges returns the edges entering the node, in insertion order.
func (g *Graph) InEdges(id string) []*Edge {
	return g.edgeList(g.incoming[id])
}

func (g *Graph) edgeList(ids []int) []*Edge {
	if len(ids) == 0 {
		return nil
	}
	result := make([]*Edge, len(ids))
	for i, id := range ids {
		result[i] = g.edges[id]
	}
	return result
}

// Successors returns the head of every edge leaving the node, one entry per
// edge (a node reachable through two parallel edges appears twice).
func (g *Graph) Successors(id string) []string {
	ids := g.outgoing[id]
	if len(ids) == 0 {
		return nil
	}
	result := make([]string, len(ids))
	for i, eid := range ids {
		result[i] = g.edges[eid].To
	}
	return result
}

// Predecessors returns the tail of every edge entering the node, one entry
// per edge.
func (g *Graph) Predecessors(id string) []string {
	ids := g.incoming[id]
	if len(ids) == 0 {
		return nil
	}
	result := make([]string, len(ids))
	for i, eid := range ids {
		result[i] = g.edges[eid].From
	}
	return result
}

// OutDegree returns the number of edges leaving the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of edges entering the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clone returns a deep copy of the graph. Edge IDs are preserved; attribute
// maps are copied, so mutations on the clone never reach the original.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		order:    slices.Clone(g.order),
		nodes:    maps.Clone(g.nodes),
		edges:    make([]*Edge, len(g.edges)),
		outgoing: make(map[string][]int, len(g.outgoing)),
		incoming: make(map[string][]int, len(g.incoming)),
	}
	for i, e := range g.edges {
		c.edges[i] = &Edge{ID: e.ID, From: e.From, To: e.To, Attrs: maps.Clone(e.Attrs)}
	}
	for id, ids := range g.outgoing {
		c.outgoing[id] = slices.Clone(ids)
	}
	for id, ids := range g.incoming {
		c.incoming[id] = slices.Clone(ids)
	}
	return c
}

// IsAcyclic reports whether the graph contains no directed cycle.
// Self-loops and cycles through parallel edges count as cycles.
// Runs in O(N+E) with an explicit stack, so deep graphs cannot
// exhaust the goroutine stack.
func (g *Graph) IsAcyclic() bool {
	const (
		white = iota // unvisited
		gray         // on the current DFS path
		black        // fully explored
	)

	color := make(map[string]int, len(g.nodes))

	type frame struct {
		node string
		next int // index into outgoing edge IDs
	}

	for _, start := range g.order {
		if color[start] != white {
			continue
		}
		stack := []frame{{node: start}}
		color[start] = gray
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			out := g.outgoing[top.node]
			if top.next < len(out) {
				child := g.edges[out[top.next]].To
				top.next++
				switch color[child] {
				case white:
					color[child] = gray
					stack = append(stack, frame{node: child})
				case gray:
					return false
				}
				continue
			}
			color[top.node] = black
			stack = stack[:len(stack)-1]
		}
	}
	return true
}

// TopologicalOrder returns the node IDs in a topological order and true,
// or nil and false if the graph contains a cycle. Kahn's algorithm with
// insertion-order tie-breaking keeps the result deterministic.
func (g *Graph) TopologicalOrder() ([]string, bool) {
	indegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		indegree[id] = len(g.incoming[id])
	}

	queue := make([]string, 0, len(g.nodes))
	for _, id := range g.order {
		if indegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, eid := range g.outgoing[u] {
			v := g.edges[eid].To
			indegree[v]--
			if indegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, false
	}
	return order, true
}
