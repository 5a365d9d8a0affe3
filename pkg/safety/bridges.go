package safety

import (
	"github.com/matzehuels/pathcover/pkg/digraph"
	"github.com/matzehuels/pathcover/pkg/errors"
)

// FindAllBridges returns, in root-to-target order, every edge that lies
// on all root-to-target paths of the graph behind adj. A root equal to
// the target yields no bridges.
//
// The adjacency stacks are mutated while the call runs and restored
// before it returns: one root-target path is consumed, its reversal is
// appended (making the path traversable both ways), and components are
// grown over the rest of the graph. Each component boundary crossed
// along the path is a bridge.
func FindAllBridges(adj Adjacency, root, target string) ([]digraph.Key, error) {
	return findBridges(adj, root, target, false)
}

// findFirstBridge returns the bridge nearest to root, or nil when the
// whole target side is reachable without one.
func findFirstBridge(adj Adjacency, root, target string) (*digraph.Key, error) {
	bridges, err := findBridges(adj, root, target, true)
	if err != nil {
		return nil, err
	}
	if len(bridges) == 0 {
		return nil, nil
	}
	return &bridges[0], nil
}

func findBridges(adj Adjacency, root, target string, firstOnly bool) ([]digraph.Key, error) {
	if root == target {
		return nil, nil
	}

	p, err := findPath(adj, root, target)
	if err != nil {
		return nil, err
	}

	// Swap the path for its reversal so component growth can travel
	// backwards along it.
	for i := 0; i+1 < len(p); i++ {
		adj.removeLast(p[i], p[i+1])
		adj[p[i+1]] = append(adj[p[i+1]], p[i])
	}
	defer func() {
		for i := len(p) - 2; i >= 0; i-- {
			adj.removeLast(p[i+1], p[i])
		}
		for i := 0; i+1 < len(p); i++ {
			adj[p[i]] = append(adj[p[i]], p[i+1])
		}
	}()

	var bridges []digraph.Key
	visited := map[string]bool{root: true}
	queue := []string{root}
	firstNode := 0

	for !visited[target] {
		if len(queue) == 0 {
			// The component stalled before the target: the first
			// unvisited path node is only enterable over a bridge.
			for visited[p[firstNode]] {
				firstNode++
			}
			b := digraph.Key{From: p[firstNode-1], To: p[firstNode]}
			if firstOnly {
				return []digraph.Key{b}, nil
			}
			bridges = append(bridges, b)
			visited[p[firstNode]] = true
			queue = append(queue, p[firstNode])
		}
		for len(queue) > 0 {
			u := queue[0]
			queue = queue[1:]
			for _, v := range adj[u] {
				if !visited[v] {
					visited[v] = true
					queue = append(queue, v)
				}
			}
		}
	}
	return bridges, nil
}

// findPath locates one simple root-to-target path over the current
// stacks via BFS. Walk-based discovery that pops edges greedily can
// strand inside a cycle, so the path is chosen before any consumption.
func findPath(adj Adjacency, root, target string) ([]string, error) {
	prev := map[string]string{root: root}
	queue := []string{root}
	for len(queue) > 0 {
		if _, ok := prev[target]; ok {
			break
		}
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if _, ok := prev[v]; !ok {
				prev[v] = u
				queue = append(queue, v)
			}
		}
	}
	if _, ok := prev[target]; !ok {
		return nil, errors.New(errors.ErrCodeStructural, "no path from %q to %q", root, target)
	}

	var reversed []string
	for v := target; ; v = prev[v] {
		reversed = append(reversed, v)
		if v == root {
			break
		}
	}
	path := make([]string, len(reversed))
	for i, v := range reversed {
		path[len(path)-1-i] = v
	}
	return path, nil
}
