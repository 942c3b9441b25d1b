package relay

import "testing"

func TestNewNodeDefaults(t *testing.T) {
	n := NewNode(7, "frobnicate", NodeFunction)

	if n.ID != 7 {
		t.Errorf("ID = %d, want 7", n.ID)
	}
	if n.Width != CollapsedWidth || n.Height != CollapsedHeight {
		t.Errorf("size = %gx%g, want %gx%g", n.Width, n.Height, CollapsedWidth, CollapsedHeight)
	}
	if n.Expanded {
		t.Error("Expanded = true, want false")
	}
	if n.IsError {
		t.Error("IsError = true, want false")
	}
}

func TestExpandCollapse(t *testing.T) {
	n := NewNode(1, "x", NodeType)

	n.Expand()
	if !n.Expanded || n.Width != ExpandedWidth || n.Height != ExpandedHeight {
		t.Errorf("after Expand: expanded=%v size=%gx%g", n.Expanded, n.Width, n.Height)
	}

	n.Collapse()
	if n.Expanded || n.Width != CollapsedWidth || n.Height != CollapsedHeight {
		t.Errorf("after Collapse: expanded=%v size=%gx%g", n.Expanded, n.Width, n.Height)
	}
}

func TestGraphLookup(t *testing.T) {
	g := New()
	g.AddNode(NewNode(3, "a", NodeFunction))
	g.AddNode(NewNode(1005, "b", NodeInclude))

	if g.NodeCount() != 2 {
		t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
	}

	n, ok := g.Node(1005)
	if !ok {
		t.Fatal("Node(1005) not found")
	}
	if n.Label != "b" {
		t.Errorf("Label = %q, want b", n.Label)
	}

	if _, ok := g.Node(42); ok {
		t.Error("Node(42) found, want missing")
	}
	if g.HasNode(42) {
		t.Error("HasNode(42) = true, want false")
	}
}

func TestGraphNodeMutation(t *testing.T) {
	g := New()
	g.AddNode(NewNode(1, "a", NodeFunction))

	n, _ := g.Node(1)
	n.X = 240
	n.Y = -50

	again, _ := g.Node(1)
	if again.X != 240 || again.Y != -50 {
		t.Errorf("position = (%g, %g), want (240, -50)", again.X, again.Y)
	}
}

func TestGraphInsertionOrder(t *testing.T) {
	g := New()
	for _, id := range []int{5, 2, 9} {
		g.AddNode(NewNode(id, "n", NodeFunction))
	}

	want := []int{5, 2, 9}
	for i, n := range g.Nodes {
		if n.ID != want[i] {
			t.Errorf("Nodes[%d].ID = %d, want %d", i, n.ID, want[i])
		}
	}
}

func TestGraphClone(t *testing.T) {
	g := New()
	g.AddNode(NewNode(1, "a", NodeFunction))
	g.AddNode(NewNode(2, "b", NodeType))
	g.AddEdge(Edge{Source: 1, Target: 2, Kind: EdgeCall, OnErrorPath: true})

	c := g.Clone()

	n, _ := c.Node(1)
	n.X = 999
	orig, _ := g.Node(1)
	if orig.X == 999 {
		t.Error("mutating the clone changed the original")
	}

	c.AddNode(NewNode(3, "c", NodeVariable))
	if g.NodeCount() != 2 {
		t.Errorf("original NodeCount() = %d after clone append, want 2", g.NodeCount())
	}
	if c.EdgeCount() != 1 || c.Edges[0].Kind != EdgeCall || !c.Edges[0].OnErrorPath {
		t.Errorf("clone edge = %+v, want call on error path", c.Edges[0])
	}
}

func TestKindStrings(t *testing.T) {
	nodeTests := []struct {
		kind NodeKind
		want string
	}{
		{NodeFunction, "function"},
		{NodeType, "type"},
		{NodeVariable, "variable"},
		{NodeInclude, "include"},
		{NodeErrorSource, "error"},
		{NodeKind(99), "unknown"},
	}
	for _, tt := range nodeTests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("NodeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}

	edgeTests := []struct {
		kind EdgeKind
		want string
	}{
		{EdgeCall, "call"},
		{EdgeReference, "reference"},
		{EdgeInclude, "include"},
		{EdgeInherit, "inherit"},
		{EdgeErrorPath, "error_path"},
		{EdgeKind(99), "unknown"},
	}
	for _, tt := range edgeTests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EdgeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
