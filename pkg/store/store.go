// Package store persists computed relay graphs for later retrieval.
//
// A Document wraps a serialized graph with identity and provenance metadata.
// Documents are keyed by the graph's content hash, so re-running the same
// build replaces the stored result instead of accumulating duplicates.
package store

import (
	"context"
	"errors"
	"time"

	"relaymap/pkg/graphio"
)

// ErrNotFound is returned when no document exists for a hash.
var ErrNotFound = errors.New("graph not found")

// Document is a stored graph with metadata.
type Document struct {
	// Hash is the content hash of the graph, used as the primary key.
	Hash string `bson:"_id" json:"hash"`

	// BatchID identifies the pipeline run that produced this graph.
	BatchID string `bson:"batch_id" json:"batch_id"`

	// BuildDir is the build directory the graph was computed against.
	BuildDir string `bson:"build_dir,omitempty" json:"build_dir,omitempty"`

	// CreatedAt is when the document was first stored or last replaced.
	CreatedAt time.Time `bson:"created_at" json:"created_at"`

	// Graph is the serialized relay graph.
	Graph graphio.Graph `bson:"graph" json:"graph"`
}

// Store is the interface for graph persistence backends.
type Store interface {
	// Put stores a document, replacing any existing one with the same hash.
	Put(ctx context.Context, doc Document) error

	// Get retrieves a document by hash.
	// Returns ErrNotFound if no document exists.
	Get(ctx context.Context, hash string) (*Document, error)

	// List returns the most recent documents, newest first, up to limit.
	List(ctx context.Context, limit int) ([]Document, error)

	// Delete removes a document by hash. Deleting a missing document is not
	// an error.
	Delete(ctx context.Context, hash string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
