package flow

import "errors"

var (
	// ErrInfeasible is returned by [Network.Solve] when the node demands
	// cannot all be satisfied under the arc capacities.
	ErrInfeasible = errors.New("no feasible flow")

	// ErrNegative is returned by [Network.AddArc] for negative capacities
	// or costs; the solver's shortest-path search requires both
	// non-negative.
	ErrNegative = errors.New("arc capacity and cost must be non-negative")

	// ErrUnbalanced is returned by [Network.Solve] when node demands do not
	// sum to zero, so no circulation can exist.
	ErrUnbalanced = errors.New("node demands do not sum to zero")
)

// Infinity is the capacity bound used for arcs that should never constrain
// a solution. Callers routing "unbounded" flow (the direct source-to-sink
// absorber arc, the per-edge capacity in the width reduction) use this
// rather than a true unbounded arc so that all arithmetic stays in int64.
const Infinity = int64(1) << 32

// Network is a transshipment instance: nodes carrying integer demands
// (negative demand = supply) connected by capacitated, costed arcs.
// Build one with NewNetwork, add nodes and arcs, then call Solve.
type Network struct {
	ids    []string
	index  map[string]int
	demand []int64
	arcs   []arc
}

type arc struct {
	from, to int
	capacity int64
	cost     int64
}

// NewNetwork creates an empty transshipment network.
func NewNetwork() *Network {
	return &Network{index: make(map[string]int)}
}

// AddNode registers a node and accumulates demand onto it. Negative demand
// marks a supply node, positive a demand node. Calling AddNode twice for the
// same id sums the demands, which lets gadget constructions contribute
// demand to a shared node incrementally.
func (n *Network) AddNode(id string, demand int64) {
	i := n.ensure(id)
	n.demand[i] += demand
}

// AddArc adds a directed arc and returns its index, creating missing
// endpoint nodes with zero demand. Parallel arcs are allowed and tracked
// separately. Returns ErrNegative for a negative capacity or cost.
func (n *Network) AddArc(from, to string, capacity, cost int64) (int, error) {
	if capacity < 0 || cost < 0 {
		return 0, ErrNegative
	}
	f := n.ensure(from)
	t := n.ensure(to)
	n.arcs = append(n.arcs, arc{from: f, to: t, capacity: capacity, cost: cost})
	return len(n.arcs) - 1, nil
}

// NodeCount returns the number of registered nodes.
func (n *Network) NodeCount() int { return len(n.ids) }

// ArcCount returns the number of arcs.
func (n *Network) ArcCount() int { return len(n.arcs) }

func (n *Network) ensure(id string) int {
	if i, ok := n.index[id]; ok {
		return i
	}
	i := len(n.ids)
	n.index[id] = i
	n.ids = append(n.ids, id)
	n.demand = append(n.demand, 0)
	return i
}

// Result holds a minimum-cost feasible flow.
type Result struct {
	cost  int64
	flows []int64
}

// Cost returns the total cost of the flow.
func (r *Result) Cost() int64 { return r.cost }

// ArcFlow returns the flow routed over the arc with the given index.
func (r *Result) ArcFlow(id int) int64 {
	if id < 0 || id >= len(r.flows) {
		return 0
	}
	return r.flows[id]
}
