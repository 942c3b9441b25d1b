// Package relay defines the relay graph model: the shared node/edge data
// structure that the builder populates, the layout engines position, and the
// viewers read.
//
// A relay graph is centered on compiler diagnostics. Each node stands for one
// source-code entity or error location; each edge is a directed relation
// between two node IDs. Nodes and edges are value data - all relationships
// are expressed by integer identifier into flat slices, which keeps the
// model trivially copyable and decoupled from any layout representation.
//
// Insertion order is significant: it is the default tie-break for layout
// among nodes with otherwise-equal rank.
package relay
