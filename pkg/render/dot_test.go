package render

import (
	"strings"
	"testing"

	"relaymap/pkg/relay"
)

func testGraph() *relay.Graph {
	g := relay.New()

	errNode := relay.NewNode(0, "undeclared 'x'", relay.NodeErrorSource)
	errNode.File = "main.c"
	errNode.Line = 8
	errNode.IsError = true
	g.AddNode(errNode)

	fn := relay.NewNode(1000, "helper", relay.NodeFunction)
	fn.File = "main.c"
	fn.Line = 3
	g.AddNode(fn)

	g.AddEdge(relay.Edge{Source: 0, Target: 1000, Kind: relay.EdgeCall, OnErrorPath: true})
	return g
}

func TestToDOTBasicStructure(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	for _, want := range []string{
		"digraph relay {",
		"rankdir=LR;",
		`n0 [`,
		`n1000 [`,
		"n0 -> n1000",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTErrorHighlighting(t *testing.T) {
	dot := ToDOT(testGraph(), Options{})

	if !strings.Contains(dot, `fillcolor="lightcoral"`) {
		t.Error("error node should be filled lightcoral")
	}
	if !strings.Contains(dot, `color="red", penwidth=2`) {
		t.Error("error-path edge should be red")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	plain := ToDOT(testGraph(), Options{})
	detailed := ToDOT(testGraph(), Options{Detailed: true})

	if strings.Contains(plain, "main.c:3") {
		t.Error("plain labels should not include file locations")
	}
	if !strings.Contains(detailed, `main.c:3`) {
		t.Errorf("detailed labels should include file locations:\n%s", detailed)
	}
}

func TestToDOTPinnedPositions(t *testing.T) {
	g := testGraph()
	n, _ := g.Node(1000)
	n.X = 240
	n.Y = -50

	dot := ToDOT(g, Options{Pin: true})
	if !strings.Contains(dot, `pos="240.0,50.0!"`) {
		t.Errorf("pinned DOT should carry negated y positions:\n%s", dot)
	}
}

func TestToDOTSkipsDanglingEdges(t *testing.T) {
	g := testGraph()
	g.AddEdge(relay.Edge{Source: 0, Target: 9999, Kind: relay.EdgeCall})

	dot := ToDOT(g, Options{})
	if strings.Contains(dot, "n9999") {
		t.Error("edges to missing nodes should be skipped")
	}
}

func TestToDOTEdgeStyles(t *testing.T) {
	g := relay.New()
	g.AddNode(relay.NewNode(0, "a.c", relay.NodeErrorSource))
	g.AddNode(relay.NewNode(1, "stdio.h", relay.NodeInclude))
	g.AddNode(relay.NewNode(2, "Base", relay.NodeType))
	g.AddEdge(relay.Edge{Source: 0, Target: 1, Kind: relay.EdgeInclude})
	g.AddEdge(relay.Edge{Source: 0, Target: 2, Kind: relay.EdgeInherit})

	dot := ToDOT(g, Options{})
	if !strings.Contains(dot, "style=dashed") {
		t.Error("include edges should be dashed")
	}
	if !strings.Contains(dot, "arrowhead=empty") {
		t.Error("inherit edges should use an empty arrowhead")
	}
}
