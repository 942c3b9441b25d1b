package layout

import "relaymap/pkg/relay"

// HasCycle reports whether the graph's directed edge relation contains a
// cycle. Edge kinds are ignored - detection is purely structural over
// edge.Source -> edge.Target. Edges whose endpoints are missing from the
// graph are skipped.
//
// The result is a structural property: it does not depend on node or edge
// insertion order.
func HasCycle(g *relay.Graph) bool {
	const (
		white = iota
		gray
		black
	)

	adj := forwardAdjacency(g)
	color := make(map[int]int, len(g.Nodes))

	var hasCycle bool
	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, next := range adj[id] {
			switch color[next] {
			case white:
				dfs(next)
				if hasCycle {
					return
				}
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, n := range g.Nodes {
		if color[n.ID] == white {
			dfs(n.ID)
			if hasCycle {
				return true
			}
		}
	}
	return false
}

// forwardAdjacency builds source -> targets lists, skipping edges with
// missing endpoints.
func forwardAdjacency(g *relay.Graph) map[int][]int {
	adj := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}
