// Package graphio serializes relay graphs as JSON.
//
// The wire format (Graph, Node, Edge) is human-readable and designed for
// round-trip fidelity: build -> layout -> export -> re-import produces an
// identical graph, coordinates included. The same types carry bson tags for
// the optional MongoDB result store.
package graphio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"relaymap/pkg/relay"
)

// Marshal converts a relay graph to indented JSON bytes.
func Marshal(g *relay.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a relay graph as JSON to w.
func Write(g *relay.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a relay graph to a JSON file with 0644 permissions.
func WriteFile(g *relay.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes a JSON graph from r.
func Read(r io.Reader) (*relay.Graph, error) {
	var doc Graph
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// ReadFile reads a JSON file and returns the decoded relay graph.
func ReadFile(path string) (*relay.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}
