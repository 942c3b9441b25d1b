// Package layout positions relay graph nodes.
//
// Two engines are provided: a layered (Sugiyama-style) layout for acyclic
// graphs and a force-directed simulation for graphs with cycles. Auto
// detects cycles and dispatches to the right engine; both engines remain
// independently invocable.
//
// The engines mutate node X/Y coordinates in place and write nothing else.
// Every operation is total over its input domain: empty graphs, singleton
// graphs, self-loops, disconnected components and dangling edges all have
// defined, non-panicking behavior. Computation is pure and deterministic -
// the same graph and config always produce the same coordinates.
package layout
