package digraph

// StronglyConnectedComponents computes the strongly connected components of
// the graph using Tarjan's algorithm. Components are returned in reverse
// topological order of the condensation (a component is emitted only after
// every component it can reach), with node IDs inside each component in
// discovery order.
//
// The traversal uses an explicit stack rather than recursion, so graphs with
// long chains cannot exhaust the goroutine stack.
func (g *Graph) StronglyConnectedComponents() [][]string {
	index := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))

	var (
		counter    int
		tarjan     []string // Tarjan's component stack
		components [][]string
	)

	type frame struct {
		node string
		next int // index into outgoing edge IDs
	}

	for _, start := range g.order {
		if _, seen := index[start]; seen {
			continue
		}

		stack := []frame{{node: start}}
		index[start] = counter
		lowlink[start] = counter
		counter++
		tarjan = append(tarjan, start)
		onStack[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			u := top.node
			out := g.outgoing[u]

			if top.next < len(out) {
				v := g.edges[out[top.next]].To
				top.next++
				if _, seen := index[v]; !seen {
					index[v] = counter
					lowlink[v] = counter
					counter++
					tarjan = append(tarjan, v)
					onStack[v] = true
					stack = append(stack, frame{node: v})
				} else if onStack[v] {
					if index[v] < lowlink[u] {
						lowlink[u] = index[v]
					}
				}
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := stack[len(stack)-1].node
				if lowlink[u] < lowlink[parent] {
					lowlink[parent] = lowlink[u]
				}
			}

			if lowlink[u] == index[u] {
				var component []string
				for {
					w := tarjan[len(tarjan)-1]
					tarjan = tarjan[:len(tarjan)-1]
					onStack[w] = false
					component = append(component, w)
					if w == u {
						break
					}
				}
				// Reverse into discovery order; Tarjan pops in reverse.
				for i, j := 0, len(component)-1; i < j; i, j = i+1, j-1 {
					component[i], component[j] = component[j], component[i]
				}
				components = append(components, component)
			}
		}
	}

	return components
}
