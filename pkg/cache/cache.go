// Package cache provides content-addressed caching of built graphs and
// computed layouts.
//
// Builds are keyed by a hash of the raw compiler output plus the build
// options; layouts are keyed by the graph hash plus the layout config.
// Re-running with identical input therefore always hits, and any change to
// input or configuration misses cleanly - there is no invalidation logic.
//
// Backends: file (CLI default), SQLite, Redis, and a null cache for
// disabling caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry type. Graphs are cheap to rebuild but layouts of
// large graphs are not, so both get a generous window.
const (
	TTLGraph  = 24 * time.Hour
	TTLLayout = 7 * 24 * time.Hour
)

// GraphKeyOpts are the build options that shape a graph and therefore
// belong in its cache key.
type GraphKeyOpts struct {
	BuildDir string
	Context  int
	Offset   int
	Analyze  bool
}

// LayoutKeyOpts are the layout options that shape coordinates and
// therefore belong in a layout's cache key.
type LayoutKeyOpts struct {
	Algorithm  string
	NodeWidth  float64
	NodeHeight float64
	GapX       float64
	GapY       float64
	Iterations int
	Repulsion  float64
	Attraction float64
	Damping    float64
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always produce the same key.
type Keyer interface {
	// GraphKey keys a built graph by the hash of its compiler output and
	// the build options.
	GraphKey(errorsHash string, opts GraphKeyOpts) string

	// LayoutKey keys a laid-out graph by the graph content hash and the
	// layout options.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes the key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// GraphKey implements Keyer.
func (k *DefaultKeyer) GraphKey(errorsHash string, opts GraphKeyOpts) string {
	return hashKey("graph", errorsHash, opts)
}

// LayoutKey implements Keyer.
func (k *DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}
