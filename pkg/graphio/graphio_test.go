package graphio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"relaymap/pkg/relay"
)

func laidOutGraph() *relay.Graph {
	g := relay.New()

	e := relay.NewNode(0, "use of undeclared identifier", relay.NodeErrorSource)
	e.File = "src/main.cpp"
	e.Line = 42
	e.Col = 13
	e.IsError = true
	e.X, e.Y = 0, -70
	g.AddNode(e)

	f := relay.NewNode(1001, "helper", relay.NodeFunction)
	f.File = "src/util.h"
	f.Line = 5
	f.X, f.Y = 240, -70
	g.AddNode(f)

	g.AddEdge(relay.Edge{Source: 0, Target: 1001, Kind: relay.EdgeCall, OnErrorPath: true})
	return g
}

func TestRoundTrip(t *testing.T) {
	g := laidOutGraph()

	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Fatalf("round trip = %d nodes %d edges, want %d/%d",
			got.NodeCount(), got.EdgeCount(), g.NodeCount(), g.EdgeCount())
	}
	for i := range g.Nodes {
		if got.Nodes[i] != g.Nodes[i] {
			t.Errorf("node %d = %+v, want %+v", i, got.Nodes[i], g.Nodes[i])
		}
	}
	for i := range g.Edges {
		if got.Edges[i] != g.Edges[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got.Edges[i], g.Edges[i])
		}
	}
}

func TestRoundTripPreservesOrder(t *testing.T) {
	g := relay.New()
	for _, id := range []int{9, 3, 7} {
		g.AddNode(relay.NewNode(id, "n", relay.NodeFunction))
	}

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}

	for i, want := range []int{9, 3, 7} {
		if got.Nodes[i].ID != want {
			t.Errorf("Nodes[%d].ID = %d, want %d", i, got.Nodes[i].ID, want)
		}
	}
}

func TestMarshalShape(t *testing.T) {
	data, err := Marshal(laidOutGraph())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		`"kind": "error"`,
		`"kind": "call"`,
		`"is_error": true`,
		`"on_error_path": true`,
		`"file": "src/main.cpp"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s", want)
		}
	}
}

func TestReadRejectsUnknownKinds(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"NodeKind", `{"nodes":[{"id":1,"kind":"gadget"}],"edges":[]}`},
		{"EdgeKind", `{"nodes":[{"id":1,"kind":"function"}],"edges":[{"from":1,"to":1,"kind":"teleport"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.json)); err == nil {
				t.Error("Read() accepted an unknown kind")
			}
		})
	}
}

func TestReadRejectsMalformedJSON(t *testing.T) {
	if _, err := Read(strings.NewReader("{not json")); err == nil {
		t.Error("Read() accepted malformed JSON")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	g := laidOutGraph()

	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Errorf("graph = %d nodes %d edges, want 2/1", got.NodeCount(), got.EdgeCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadFile() succeeded on a missing file")
	}
}
