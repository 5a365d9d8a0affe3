package flow

import (
	"container/heap"
	"math"
)

// residual is one direction of a residual arc pair. rev is the index of the
// paired arc in adj[to], so capacity moved off one side is credited to the
// other in O(1).
type residual struct {
	to   int
	rev  int
	cap  int64
	cost int64
}

const unreachable = math.MaxInt64 / 4

// Solve computes a minimum-cost flow satisfying every node demand, using
// successive shortest augmenting paths with Johnson potentials. Arc costs
// are non-negative by construction (AddArc rejects negative ones), so each
// search is a plain Dijkstra over reduced costs.
//
// Returns ErrUnbalanced when demands do not sum to zero and ErrInfeasible
// when some demand cannot be routed under the capacities. The Network is
// not mutated; Solve may be called repeatedly.
func (n *Network) Solve() (*Result, error) {
	var total int64
	for _, d := range n.demand {
		total += d
	}
	if total != 0 {
		return nil, ErrUnbalanced
	}

	// Append a virtual super source and sink feeding the supplies and
	// draining the demands, then route all supply at minimum cost.
	size := len(n.ids) + 2
	src, dst := size-2, size-1

	adj := make([][]residual, size)
	link := func(from, to int, cap, cost int64) (int, int) {
		fi := len(adj[from])
		adj[from] = append(adj[from], residual{to: to, cap: cap, cost: cost})
		bi := len(adj[to])
		adj[to] = append(adj[to], residual{to: from, cap: 0, cost: -cost})
		adj[from][fi].rev = bi
		adj[to][bi].rev = fi
		return from, fi
	}

	// revAt[i] locates the reverse side of arc i; its residual capacity
	// after solving is exactly the flow pushed over the arc.
	revAt := make([][2]int, len(n.arcs))
	for i, a := range n.arcs {
		from, idx := link(a.from, a.to, a.capacity, a.cost)
		revAt[i] = [2]int{adj[from][idx].to, adj[from][idx].rev}
	}

	var required int64
	for v, d := range n.demand {
		switch {
		case d < 0:
			link(src, v, -d, 0)
			required += -d
		case d > 0:
			link(v, dst, d, 0)
		}
	}

	pi := make([]int64, size)
	dist := make([]int64, size)
	prevNode := make([]int, size)
	prevEdge := make([]int, size)

	for required > 0 {
		for i := range dist {
			dist[i] = unreachable
		}
		dist[src] = 0
		pq := &distQueue{{node: src}}
		for pq.Len() > 0 {
			cur := heap.Pop(pq).(distEntry)
			if cur.dist > dist[cur.node] {
				continue
			}
			for i, e := range adj[cur.node] {
				if e.cap <= 0 {
					continue
				}
				nd := cur.dist + e.cost + pi[cur.node] - pi[e.to]
				if nd < dist[e.to] {
					dist[e.to] = nd
					prevNode[e.to] = cur.node
					prevEdge[e.to] = i
					heap.Push(pq, distEntry{node: e.to, dist: nd})
				}
			}
		}
		if dist[dst] >= unreachable {
			return nil, ErrInfeasible
		}
		for v := range pi {
			if dist[v] < unreachable {
				pi[v] += dist[v]
			}
		}

		delta := required
		for v := dst; v != src; v = prevNode[v] {
			if c := adj[prevNode[v]][prevEdge[v]].cap; c < delta {
				delta = c
			}
		}
		for v := dst; v != src; v = prevNode[v] {
			e := &adj[prevNode[v]][prevEdge[v]]
			e.cap -= delta
			adj[v][e.rev].cap += delta
		}
		required -= delta
	}

	res := &Result{flows: make([]int64, len(n.arcs))}
	for i, loc := range revAt {
		res.flows[i] = adj[loc[0]][loc[1]].cap
		res.cost += res.flows[i] * n.arcs[i].cost
	}
	return res, nil
}

type distEntry struct {
	node int
	dist int64
}

type distQueue []distEntry

func (q distQueue) Len() int { return len(q) }

func (q distQueue) Less(i, j int) bool {
	if q[i].dist != q[j].dist {
		return q[i].dist < q[j].dist
	}
	return q[i].node < q[j].node
}

func (q distQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *distQueue) Push(x any) { *q = append(*q, x.(distEntry)) }

func (q *distQueue) Pop() any {
	old := *q
	x := old[len(old)-1]
	*q = old[:len(old)-1]
	return x
}
