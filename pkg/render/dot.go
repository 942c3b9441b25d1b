// Package render converts relay graphs into visual outputs.
//
// Graphs are first converted to Graphviz DOT text with [ToDOT], which can
// then be rendered to SVG or PNG with [RenderSVG] and [RenderPNG]. When
// positions have already been computed by the layout engine, [Options.Pin]
// keeps them instead of letting Graphviz lay the graph out again.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"relaymap/pkg/relay"
)

// Options configures DOT generation.
type Options struct {
	// Detailed includes file and line information in node labels.
	// When false, only the symbol label is shown.
	Detailed bool

	// Pin emits the layout coordinates as fixed node positions. The DOT
	// output should then be rendered with the neato engine.
	Pin bool
}

// kind fill colors, error nodes override with red.
var nodeFill = map[relay.NodeKind]string{
	relay.NodeFunction:    "lightblue",
	relay.NodeType:        "lightyellow",
	relay.NodeVariable:    "lightgrey",
	relay.NodeInclude:     "lightgreen",
	relay.NodeErrorSource: "lightcoral",
}

// ToDOT converts a relay graph to Graphviz DOT format.
// Edges whose endpoints are missing from the graph are skipped.
func ToDOT(g *relay.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph relay {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := nodeAttrs(n, opts)
		fmt.Fprintf(&buf, "  n%d [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			continue
		}
		attrs := edgeAttrs(e)
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  n%d -> n%d [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n relay.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts.Detailed))}

	fill := nodeFill[n.Kind]
	if n.IsError {
		fill = "lightcoral"
	}
	if fill != "" {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
	} else {
		attrs = append(attrs, `fillcolor="white"`)
	}

	if n.IsError {
		attrs = append(attrs, "penwidth=2", `color="red"`)
	}

	if opts.Pin {
		// Graphviz y grows upward, the layout's grows downward.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, -n.Y))
	}

	return attrs
}

func nodeLabel(n relay.Node, detailed bool) string {
	if !detailed || n.File == "" {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s:%d", n.Label, n.File, n.Line)
}

func edgeAttrs(e relay.Edge) []string {
	var attrs []string
	switch e.Kind {
	case relay.EdgeInclude:
		attrs = append(attrs, "style=dashed")
	case relay.EdgeInherit:
		attrs = append(attrs, "arrowhead=empty")
	}
	if e.OnErrorPath {
		attrs = append(attrs, `color="red"`, "penwidth=2")
	}
	return attrs
}
