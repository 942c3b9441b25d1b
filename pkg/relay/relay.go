package relay

// Default node card dimensions in layout units. The layout engines read
// these but never write them; only the viewer toggles a node between its
// collapsed and expanded size.
const (
	CollapsedWidth  = 180.0
	CollapsedHeight = 100.0
	ExpandedWidth   = 640.0
	ExpandedHeight  = 420.0
)

// NodeKind classifies what a node stands for. The set is closed: adding a
// kind is a deliberate change that every switch over NodeKind must handle,
// not a plugin point.
type NodeKind int

const (
	// NodeFunction is a function or method symbol.
	NodeFunction NodeKind = iota
	// NodeType is a type, class, or struct symbol.
	NodeType
	// NodeVariable is a variable or field symbol.
	NodeVariable
	// NodeInclude is an included/imported file.
	NodeInclude
	// NodeErrorSource is a compiler diagnostic location.
	NodeErrorSource
)

// String returns the short label used in rendering and serialization.
func (k NodeKind) String() string {
	switch k {
	case NodeFunction:
		return "function"
	case NodeType:
		return "type"
	case NodeVariable:
		return "variable"
	case NodeInclude:
		return "include"
	case NodeErrorSource:
		return "error"
	default:
		return "unknown"
	}
}

// EdgeKind classifies the relation an edge expresses. Like NodeKind this is
// a closed set.
type EdgeKind int

const (
	// EdgeCall is a function call relation.
	EdgeCall EdgeKind = iota
	// EdgeReference is a generic symbol reference.
	EdgeReference
	// EdgeInclude is a file inclusion relation.
	EdgeInclude
	// EdgeInherit is a base-class/inheritance relation.
	EdgeInherit
	// EdgeErrorPath marks a relation that itself is the error explanation.
	EdgeErrorPath
)

// String returns the short label used in rendering and serialization.
func (k EdgeKind) String() string {
	switch k {
	case EdgeCall:
		return "call"
	case EdgeReference:
		return "reference"
	case EdgeInclude:
		return "include"
	case EdgeInherit:
		return "inherit"
	case EdgeErrorPath:
		return "error_path"
	default:
		return "unknown"
	}
}

// Node is one vertex of the relay graph. IDs are dense, builder-assigned
// and unique within a graph. Line is 1-based; Col may be 0 when unknown.
//
// X, Y, Width, Height and Expanded are mutable layout/rendering state: the
// layout engines write X and Y only, the viewer owns the rest. Identity and
// source-location fields are fixed once the node is appended.
type Node struct {
	ID    int
	File  string
	Line  int
	Col   int
	Label string
	Kind  NodeKind

	// IsError marks diagnostic locations. It is redundant with
	// Kind == NodeErrorSource for builder-created nodes but kept separate
	// so a discovered symbol can be flagged without changing its kind.
	IsError bool

	X, Y          float64
	Width, Height float64
	Expanded      bool
}

// NewNode returns a node with the collapsed default size.
func NewNode(id int, label string, kind NodeKind) Node {
	return Node{
		ID:     id,
		Label:  label,
		Kind:   kind,
		Width:  CollapsedWidth,
		Height: CollapsedHeight,
	}
}

// Expand switches the node to its expanded display size.
func (n *Node) Expand() {
	n.Expanded = true
	n.Width = ExpandedWidth
	n.Height = ExpandedHeight
}

// Collapse switches the node back to its collapsed display size.
func (n *Node) Collapse() {
	n.Expanded = false
	n.Width = CollapsedWidth
	n.Height = CollapsedHeight
}

// Edge is a directed relation between two node IDs. OnErrorPath is distinct
// from Kind: an edge of any kind can lie on the path that explains an error.
//
// An edge's endpoints SHOULD reference existing nodes, but the model does
// not enforce this - the builder may append edges before both endpoints are
// confirmed resolvable, and consumers must skip edges with missing
// endpoints rather than fail.
type Edge struct {
	Source      int
	Target      int
	Kind        EdgeKind
	OnErrorPath bool
}

// Graph holds the ordered node and edge sequences. The zero value is not
// usable; use New. Graph is not safe for concurrent use.
type Graph struct {
	Nodes []Node
	Edges []Edge

	index map[int]int // node ID -> position in Nodes
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[int]int)}
}

// AddNode appends a node. No validation is performed - uniqueness of IDs is
// the builder's responsibility. If an ID is appended twice, lookups resolve
// to the later node.
func (g *Graph) AddNode(n Node) {
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge. Endpoints are not checked; see Edge.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Node returns a pointer to the node with the given ID, or nil and false if
// it does not exist. The pointer aliases the graph's backing slice and is
// invalidated by the next AddNode.
func (g *Graph) Node(id int) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id int) bool {
	_, ok := g.index[id]
	return ok
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// Clone returns a deep copy. Nodes and edges are value data, so this is two
// slice copies plus an index rebuild.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
		index: make(map[int]int, len(g.index)),
	}
	copy(c.Nodes, g.Nodes)
	copy(c.Edges, g.Edges)
	for id, i := range g.index {
		c.index[id] = i
	}
	return c
}
