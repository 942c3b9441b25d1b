// Package builder turns compiler diagnostics and discovered symbol
// references into one deduplicated relay graph.
//
// The builder owns the ID counter for the graph it is producing: IDs are
// dense and monotonically increasing within one builder, and discovered
// nodes are allocated from a configurable offset above the error-node
// range so the two never collide within a batch. Construct one Builder per
// error batch; counters are builder state, never process state.
package builder

import (
	"context"

	"relaymap/pkg/parse"
	"relaymap/pkg/relay"
)

// DefaultReferenceOffset is the gap left above the error-node ID range
// before discovered-node IDs start.
const DefaultReferenceOffset = 1000

// SymbolRef is one statically-discovered symbol related to a diagnostic.
// File and Line locate the symbol's resolution site (its definition, or the
// included file), not the place it was referenced from.
type SymbolRef struct {
	File     string
	Line     int
	Col      int
	Name     string
	Kind     relay.NodeKind
	Relation relay.EdgeKind

	// Direct marks the symbol at the diagnostic's cursor, as opposed to
	// symbols visible in the enclosing scope. Direct references produce
	// edges flagged OnErrorPath.
	Direct bool
}

// ReferenceSource discovers symbols related to a diagnostic. Implementations
// are expected to be slow (parsing source files); the builder itself never
// does I/O.
type ReferenceSource interface {
	References(ctx context.Context, d parse.Diagnostic) ([]SymbolRef, error)
}

// locKey is the dedup key: one node per (file, line).
type locKey struct {
	file string
	line int
}

// Option configures a Builder.
type Option func(*Builder)

// WithReferenceOffset overrides DefaultReferenceOffset.
func WithReferenceOffset(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.offset = n
		}
	}
}

// Builder accumulates nodes and edges for one error batch.
// Not safe for concurrent use.
type Builder struct {
	g          *relay.Graph
	nextID     int
	offset     int
	bumped     bool
	byLocation map[locKey]int
	edges      map[[2]int]struct{} // normalized (min, max) id pairs
}

// New creates an empty builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		g:          relay.New(),
		offset:     DefaultReferenceOffset,
		byLocation: make(map[locKey]int),
		edges:      make(map[[2]int]struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Graph returns the graph built so far. The builder keeps writing to the
// same graph; take the result only when the batch is complete.
func (b *Builder) Graph() *relay.Graph { return b.g }

// AddError appends an ErrorSource node for the diagnostic and returns its
// assigned ID. The node is registered under its (file, line) so later
// references to the same location reuse it instead of duplicating.
func (b *Builder) AddError(d parse.Diagnostic) int {
	id := b.nextID
	b.nextID++

	n := relay.NewNode(id, d.Message, relay.NodeErrorSource)
	n.File = d.File
	n.Line = d.Line
	n.Col = d.Col
	n.IsError = true
	b.g.AddNode(n)

	b.byLocation[locKey{d.File, d.Line}] = id
	return id
}

// Resolve maps a symbol reference to a node - reusing an existing node at
// the same (file, line), allocating a new one otherwise - and connects the
// originating node to it. It returns the resolved node ID and whether the
// reference was used at all.
//
// Dropped silently: references with an empty file or unknown line, and
// references that resolve to the same file and line as their origin
// (self-references). A duplicate edge between the same two nodes, in either
// direction, is not added again.
func (b *Builder) Resolve(originID int, ref SymbolRef) (int, bool) {
	if ref.File == "" || ref.Line <= 0 {
		return 0, false
	}

	origin, ok := b.g.Node(originID)
	if !ok {
		return 0, false
	}
	if ref.File == origin.File && ref.Line == origin.Line {
		return 0, false
	}

	key := locKey{ref.File, ref.Line}
	id, exists := b.byLocation[key]
	if !exists {
		id = b.allocReferenceID()
		n := relay.NewNode(id, ref.Name, ref.Kind)
		n.File = ref.File
		n.Line = ref.Line
		n.Col = ref.Col
		b.g.AddNode(n)
		b.byLocation[key] = id
	}

	b.connect(originID, id, ref.Relation, ref.Direct)
	return id, true
}

// Build runs the full batch: one ErrorSource node per diagnostic, then
// reference discovery per diagnostic. A nil source skips discovery. Source
// failures for a single diagnostic drop that diagnostic's references and
// keep going; only context cancellation aborts the batch.
//
// Zero diagnostics yield an empty graph, which is legal, not an error.
func Build(ctx context.Context, diags []parse.Diagnostic, src ReferenceSource, opts ...Option) (*relay.Graph, error) {
	b := New(opts...)

	ids := make([]int, len(diags))
	for i, d := range diags {
		ids[i] = b.AddError(d)
	}

	if src == nil {
		return b.g, nil
	}

	for i, d := range diags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		refs, err := src.References(ctx, d)
		if err != nil {
			continue
		}
		for _, ref := range refs {
			b.Resolve(ids[i], ref)
		}
	}

	return b.g, nil
}

// allocReferenceID hands out discovered-node IDs. The first allocation
// bumps the counter by the configured offset so IDs of error nodes still
// pending in the same batch cannot collide.
func (b *Builder) allocReferenceID() int {
	if !b.bumped {
		b.nextID += b.offset
		b.bumped = true
	}
	id := b.nextID
	b.nextID++
	return id
}

// connect appends an edge unless one already exists between the two nodes
// in either direction. Direct references are flagged as the error path.
func (b *Builder) connect(from, to int, kind relay.EdgeKind, direct bool) {
	a, c := from, to
	if a > c {
		a, c = c, a
	}
	if _, dup := b.edges[[2]int{a, c}]; dup {
		return
	}
	b.edges[[2]int{a, c}] = struct{}{}

	b.g.AddEdge(relay.Edge{
		Source:      from,
		Target:      to,
		Kind:        kind,
		OnErrorPath: direct,
	})
}
