package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"relaymap/pkg/relay"
)

func testGraph() *relay.Graph {
	g := relay.New()

	e := relay.NewNode(0, "undeclared identifier", relay.NodeErrorSource)
	e.File = "main.cpp"
	e.Line = 11
	e.IsError = true
	g.AddNode(e)

	f := relay.NewNode(1001, "total_weight", relay.NodeFunction)
	f.File = "widget.h"
	f.Line = 16
	g.AddNode(f)

	g.AddEdge(relay.Edge{Source: 0, Target: 1001, Kind: relay.EdgeCall, OnErrorPath: true})
	return g
}

func key(s string) tea.KeyMsg {
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGraphViewNavigation(t *testing.T) {
	m := NewGraphViewModel(testGraph())

	updated, _ := m.Update(key("j"))
	m = updated.(GraphViewModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d after j, want 1", m.Cursor)
	}

	// Moving past the last node stays put.
	updated, _ = m.Update(key("j"))
	m = updated.(GraphViewModel)
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d at list end, want 1", m.Cursor)
	}

	updated, _ = m.Update(key("k"))
	m = updated.(GraphViewModel)
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after k, want 0", m.Cursor)
	}
}

func TestGraphViewExpandToggle(t *testing.T) {
	m := NewGraphViewModel(testGraph())

	updated, _ := m.Update(key("enter"))
	m = updated.(GraphViewModel)
	if !m.Graph.Nodes[0].Expanded {
		t.Error("node not expanded after enter")
	}
	if m.Graph.Nodes[0].Width != relay.ExpandedWidth {
		t.Errorf("Width = %g, want %g", m.Graph.Nodes[0].Width, relay.ExpandedWidth)
	}

	updated, _ = m.Update(key("enter"))
	m = updated.(GraphViewModel)
	if m.Graph.Nodes[0].Expanded {
		t.Error("node still expanded after second enter")
	}
}

func TestGraphViewQuit(t *testing.T) {
	m := NewGraphViewModel(testGraph())

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("no command returned for q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not produce a quit message")
	}
}

func TestGraphViewRendersNodes(t *testing.T) {
	m := NewGraphViewModel(testGraph())
	view := m.View()

	for _, want := range []string{"undeclared identifier", "total_weight", "[1/2]", "1 edges"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestGraphViewEmptyGraph(t *testing.T) {
	m := NewGraphViewModel(relay.New())
	if !strings.Contains(m.View(), "empty graph") {
		t.Error("empty graph placeholder missing")
	}
}
