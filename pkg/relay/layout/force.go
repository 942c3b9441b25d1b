package layout

import (
	"math"

	"relaymap/pkg/relay"
)

// vec2 is a 2D vector used by the force simulation.
type vec2 struct {
	x, y float64
}

func (v vec2) add(o vec2) vec2      { return vec2{v.x + o.x, v.y + o.y} }
func (v vec2) sub(o vec2) vec2      { return vec2{v.x - o.x, v.y - o.y} }
func (v vec2) scale(s float64) vec2 { return vec2{v.x * s, v.y * s} }

func (v vec2) length() float64 {
	return math.Sqrt(v.x*v.x + v.y*v.y)
}

func (v vec2) normalized() vec2 {
	l := v.length()
	if l < 1e-10 {
		return vec2{}
	}
	return vec2{v.x / l, v.y / l}
}

// ForceDirected runs a fixed-budget spring/repulsion simulation. It is the
// engine of choice for cyclic graphs but accepts any graph.
//
// Nodes start evenly spaced on a circle with radius proportional to the
// node count, so no two nodes are coincident after initialization. Each
// iteration applies inverse-square repulsion between every pair,
// Hooke attraction along every edge, damping, then integrates velocities
// into positions. There is no randomness: two runs over the same input and
// budget produce bit-identical coordinates.
//
// Graphs of zero or one node are left untouched.
func ForceDirected(g *relay.Graph, iterations int, cfg Config) {
	n := len(g.Nodes)
	if n <= 1 {
		return
	}

	radius := float64(n) * 50
	for i := range g.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		g.Nodes[i].X = radius * math.Cos(angle)
		g.Nodes[i].Y = radius * math.Sin(angle)
	}

	// Resolve edges to slice indices once, skipping dangling endpoints.
	idx := make(map[int]int, n)
	for i := range g.Nodes {
		idx[g.Nodes[i].ID] = i
	}
	type pair struct{ s, t int }
	var springs []pair
	for _, e := range g.Edges {
		si, sok := idx[e.Source]
		ti, tok := idx[e.Target]
		if !sok || !tok {
			continue
		}
		springs = append(springs, pair{si, ti})
	}

	velocities := make([]vec2, n)

	for iter := 0; iter < iterations; iter++ {
		positions := make([]vec2, n)
		for i := range g.Nodes {
			positions[i] = vec2{g.Nodes[i].X, g.Nodes[i].Y}
		}

		// Pairwise repulsion; distance floored to avoid singularities.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				delta := positions[i].sub(positions[j])
				dist := math.Max(delta.length(), 1.0)
				force := delta.normalized().scale(cfg.Repulsion / (dist * dist))
				velocities[i] = velocities[i].add(force)
				velocities[j] = velocities[j].sub(force)
			}
		}

		// Attraction along edges.
		for _, sp := range springs {
			delta := positions[sp.t].sub(positions[sp.s])
			force := delta.normalized().scale(cfg.Attraction * delta.length())
			velocities[sp.s] = velocities[sp.s].add(force)
			velocities[sp.t] = velocities[sp.t].sub(force)
		}

		for i := range g.Nodes {
			velocities[i] = velocities[i].scale(cfg.Damping)
			g.Nodes[i].X += velocities[i].x
			g.Nodes[i].Y += velocities[i].y
		}
	}
}
