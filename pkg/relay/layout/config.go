package layout

import "relaymap/pkg/relay"

// Config holds the tunables shared by both layout engines. The zero value
// is not meaningful; start from DefaultConfig and override fields.
type Config struct {
	// NodeWidth and NodeHeight are the collapsed card dimensions used for
	// spacing. They do not resize nodes.
	NodeWidth  float64
	NodeHeight float64

	// GapX and GapY are the gaps between layers and between stacked nodes
	// within a layer (layered engine only).
	GapX float64
	GapY float64

	// Iterations is the fixed simulation budget of the force-directed
	// engine. The simulation is not a convergence loop: running time is
	// deterministic and the result an approximate equilibrium.
	Iterations int

	// Repulsion and Attraction trade off spread against compactness.
	Repulsion  float64
	Attraction float64

	// Damping is applied to velocities each iteration.
	Damping float64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		NodeWidth:  relay.CollapsedWidth,
		NodeHeight: relay.CollapsedHeight,
		GapX:       60,
		GapY:       40,
		Iterations: 100,
		Repulsion:  5000,
		Attraction: 0.01,
		Damping:    0.95,
	}
}
