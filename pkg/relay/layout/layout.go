package layout

import "relaymap/pkg/relay"

// Auto positions the graph with the engine that fits its shape: layered
// when the edge relation is acyclic, force-directed otherwise. It is a
// no-op on an empty graph.
//
// This is the entry point external callers should use; Layered and
// ForceDirected stay exported for explicit selection.
func Auto(g *relay.Graph, cfg Config) {
	if len(g.Nodes) == 0 {
		return
	}

	if HasCycle(g) {
		ForceDirected(g, cfg.Iterations, cfg)
	} else {
		Layered(g, cfg)
	}
}
