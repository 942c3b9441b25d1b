package graphio

import (
	"fmt"

	"relaymap/pkg/relay"
)

// Node kind labels used on the wire.
const (
	KindFunction    = "function"
	KindType        = "type"
	KindVariable    = "variable"
	KindInclude     = "include"
	KindErrorSource = "error"
)

// Edge kind labels used on the wire.
const (
	KindCall      = "call"
	KindReference = "reference"
	KindInherit   = "inherit"
	KindErrorPath = "error_path"
)

// Graph is the canonical serialization format for relay graphs. Used for
// files, API responses, caching and the result store.
//
// Node order is preserved exactly: insertion order is semantically
// significant to the layout engines (it is the rank tie-break), so
// import -> layout -> export -> re-import must not reorder anything.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is the wire form of a relay node, including layout and viewer state
// so a laid-out graph round-trips with its coordinates.
type Node struct {
	ID       int     `json:"id" bson:"id"`
	File     string  `json:"file,omitempty" bson:"file,omitempty"`
	Line     int     `json:"line,omitempty" bson:"line,omitempty"`
	Col      int     `json:"col,omitempty" bson:"col,omitempty"`
	Label    string  `json:"label,omitempty" bson:"label,omitempty"`
	Kind     string  `json:"kind" bson:"kind"`
	IsError  bool    `json:"is_error,omitempty" bson:"is_error,omitempty"`
	X        float64 `json:"x,omitempty" bson:"x,omitempty"`
	Y        float64 `json:"y,omitempty" bson:"y,omitempty"`
	Width    float64 `json:"width,omitempty" bson:"width,omitempty"`
	Height   float64 `json:"height,omitempty" bson:"height,omitempty"`
	Expanded bool    `json:"expanded,omitempty" bson:"expanded,omitempty"`
}

// Edge is the wire form of a relay edge.
type Edge struct {
	From        int    `json:"from" bson:"from"`
	To          int    `json:"to" bson:"to"`
	Kind        string `json:"kind" bson:"kind"`
	OnErrorPath bool   `json:"on_error_path,omitempty" bson:"on_error_path,omitempty"`
}

// FromGraph converts a relay graph to its serialization format.
func FromGraph(g *relay.Graph) Graph {
	out := Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		out.Nodes[i] = Node{
			ID:       n.ID,
			File:     n.File,
			Line:     n.Line,
			Col:      n.Col,
			Label:    n.Label,
			Kind:     n.Kind.String(),
			IsError:  n.IsError,
			X:        n.X,
			Y:        n.Y,
			Width:    n.Width,
			Height:   n.Height,
			Expanded: n.Expanded,
		}
	}
	for i, e := range g.Edges {
		out.Edges[i] = Edge{
			From:        e.Source,
			To:          e.Target,
			Kind:        e.Kind.String(),
			OnErrorPath: e.OnErrorPath,
		}
	}
	return out
}

// ToGraph converts a serialized graph back to the model. Unknown kind
// labels are rejected rather than guessed.
func ToGraph(doc Graph) (*relay.Graph, error) {
	g := relay.New()

	for _, n := range doc.Nodes {
		kind, err := parseNodeKind(n.Kind)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		g.AddNode(relay.Node{
			ID:       n.ID,
			File:     n.File,
			Line:     n.Line,
			Col:      n.Col,
			Label:    n.Label,
			Kind:     kind,
			IsError:  n.IsError,
			X:        n.X,
			Y:        n.Y,
			Width:    n.Width,
			Height:   n.Height,
			Expanded: n.Expanded,
		})
	}

	for _, e := range doc.Edges {
		kind, err := parseEdgeKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("edge %d->%d: %w", e.From, e.To, err)
		}
		g.AddEdge(relay.Edge{
			Source:      e.From,
			Target:      e.To,
			Kind:        kind,
			OnErrorPath: e.OnErrorPath,
		})
	}

	return g, nil
}

func parseNodeKind(s string) (relay.NodeKind, error) {
	switch s {
	case KindFunction:
		return relay.NodeFunction, nil
	case KindType:
		return relay.NodeType, nil
	case KindVariable:
		return relay.NodeVariable, nil
	case KindInclude:
		return relay.NodeInclude, nil
	case KindErrorSource:
		return relay.NodeErrorSource, nil
	default:
		return 0, fmt.Errorf("unknown node kind %q", s)
	}
}

func parseEdgeKind(s string) (relay.EdgeKind, error) {
	switch s {
	case KindCall:
		return relay.EdgeCall, nil
	case KindReference:
		return relay.EdgeReference, nil
	case KindInclude:
		return relay.EdgeInclude, nil
	case KindInherit:
		return relay.EdgeInherit, nil
	case KindErrorPath:
		return relay.EdgeErrorPath, nil
	default:
		return 0, fmt.Errorf("unknown edge kind %q", s)
	}
}
