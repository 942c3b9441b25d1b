package layout

import "relaymap/pkg/relay"

// Layered runs the Sugiyama-style hierarchical layout: layer assignment,
// barycenter crossing reduction, then coordinate assignment. It is intended
// for acyclic graphs; see Auto for automatic engine selection.
//
// Every edge ends up pointing from a strictly lower to a strictly higher
// layer, except between nodes that were both unreached seeds in layer 0.
func Layered(g *relay.Graph, cfg Config) {
	if len(g.Nodes) == 0 {
		return
	}

	layers := assignLayers(g)
	layers = minimizeCrossings(g, layers)
	assignCoordinates(g, layers, cfg)
}

// assignLayers computes a longest-path-from-source layering. Layers are
// returned as node IDs grouped by layer index, each group in graph
// insertion order.
//
// Seeding falls back from in-degree-0 nodes to error nodes to the first
// node in insertion order. The fallbacks are a heuristic with no stated
// guarantee for pathological graphs; nodes never reached by propagation
// land in layer 0.
func assignLayers(g *relay.Graph) [][]int {
	adj := forwardAdjacency(g)

	inDegree := make(map[int]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		inDegree[e.Target]++
	}

	layer := make(map[int]int, len(g.Nodes))
	var queue []int

	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			layer[n.ID] = 0
			queue = append(queue, n.ID)
		}
	}
	if len(queue) == 0 {
		for _, n := range g.Nodes {
			if n.IsError {
				layer[n.ID] = 0
				queue = append(queue, n.ID)
			}
		}
	}
	if len(queue) == 0 {
		first := g.Nodes[0].ID
		layer[first] = 0
		queue = append(queue, first)
	}

	// Propagate: a node's layer is the maximum over all incoming
	// propagations and never shrinks once raised.
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, next := range adj[curr] {
			candidate := layer[curr] + 1
			if candidate >= len(g.Nodes) {
				// Bounds the walk if a cycle slipped past the caller;
				// no layering of N nodes needs more than N layers.
				continue
			}
			if existing, seen := layer[next]; !seen || candidate > existing {
				layer[next] = candidate
				queue = append(queue, next)
			}
		}
	}

	maxLayer := 0
	for _, n := range g.Nodes {
		if l, ok := layer[n.ID]; ok && l > maxLayer {
			maxLayer = l
		}
	}

	// Group by layer in insertion order; unreached nodes go to layer 0.
	layers := make([][]int, maxLayer+1)
	for _, n := range g.Nodes {
		l := layer[n.ID]
		layers[l] = append(layers[l], n.ID)
	}
	return layers
}

// minimizeCrossings reorders each layer by the barycenter heuristic for a
// fixed 3 passes. This is approximate by design; exact crossing
// minimization is out of scope.
func minimizeCrossings(g *relay.Graph, layers [][]int) [][]int {
	// Structural neighbors in either direction.
	adj := make(map[int][]int, len(g.Nodes))
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	pos := make(map[int]float64, len(g.Nodes))
	for _, ids := range layers {
		for i, id := range ids {
			pos[id] = float64(i)
		}
	}

	for pass := 0; pass < 3; pass++ {
		for _, ids := range layers {
			stableSortByKey(ids, func(id int) float64 {
				return barycenter(id, adj, pos)
			})
			// Re-index before moving to the next layer.
			for i, id := range ids {
				pos[id] = float64(i)
			}
		}
	}
	return layers
}

// barycenter returns the average position of a node's neighbors, or the
// node's own previous position when no neighbor position resolves.
func barycenter(id int, adj map[int][]int, pos map[int]float64) float64 {
	neighbors := adj[id]
	if len(neighbors) == 0 {
		return pos[id]
	}

	sum, count := 0.0, 0
	for _, nb := range neighbors {
		if p, ok := pos[nb]; ok {
			sum += p
			count++
		}
	}
	if count == 0 {
		return pos[id]
	}
	return sum / float64(count)
}

// stableSortByKey is an insertion sort keyed by a float: stable, so ties
// preserve the prior relative order (initially graph insertion order).
func stableSortByKey(ids []int, key func(int) float64) {
	keys := make([]float64, len(ids))
	for i, id := range ids {
		keys[i] = key(id)
	}
	for i := 1; i < len(ids); i++ {
		id, k := ids[i], keys[i]
		j := i - 1
		for j >= 0 && keys[j] > k {
			ids[j+1], keys[j+1] = ids[j], keys[j]
			j--
		}
		ids[j+1], keys[j+1] = id, k
	}
}

// assignCoordinates writes final positions: layers advance along x, nodes
// within a layer stack vertically centered around y = 0.
func assignCoordinates(g *relay.Graph, layers [][]int, cfg Config) {
	stepX := cfg.NodeWidth + cfg.GapX
	stepY := cfg.NodeHeight + cfg.GapY

	for li, ids := range layers {
		total := float64(len(ids)) * stepY
		startY := -total / 2

		for ni, id := range ids {
			if n, ok := g.Node(id); ok {
				n.X = float64(li) * stepX
				n.Y = startY + float64(ni)*stepY
			}
		}
	}
}
