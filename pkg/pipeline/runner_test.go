package pipeline

import (
	"context"
	"testing"

	"relaymap/pkg/builder"
	"relaymap/pkg/cache"
	"relaymap/pkg/errors"
	"relaymap/pkg/parse"
	"relaymap/pkg/relay"
)

const gccOutput = `main.c:8:26: error: 'undeclared' was not declared in this scope
main.c:12:5: warning: unused variable 'tmp'
`

// fakeSource returns a fixed reference for every diagnostic.
type fakeSource struct {
	refs []builder.SymbolRef
}

func (f *fakeSource) References(_ context.Context, _ parse.Diagnostic) ([]builder.SymbolRef, error) {
	return f.refs, nil
}

func helperSource() *fakeSource {
	return &fakeSource{refs: []builder.SymbolRef{{
		File:     "main.c",
		Line:     3,
		Col:      5,
		Name:     "helper",
		Kind:     relay.NodeFunction,
		Relation: relay.EdgeCall,
		Direct:   true,
	}}}
}

func TestExecuteEndToEnd(t *testing.T) {
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		ErrorText: gccOutput,
		Source:    helperSource(),
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Diagnostics) != 2 {
		t.Errorf("Diagnostics = %d, want 2", len(result.Diagnostics))
	}

	// Two error nodes plus the shared helper node.
	if result.Graph.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", result.Graph.NodeCount())
	}
	if result.Graph.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", result.Graph.EdgeCount())
	}

	if result.BatchID == "" {
		t.Error("BatchID should be set")
	}
	if result.GraphHash == "" {
		t.Error("GraphHash should be set")
	}

	// The layout must have separated the two layers horizontally.
	var errX, helperX float64
	seen := false
	for _, n := range result.Graph.Nodes {
		if n.IsError {
			errX = n.X
		} else {
			helperX = n.X
			seen = true
		}
	}
	if !seen {
		t.Fatal("expected a discovered helper node")
	}
	if errX == helperX {
		t.Errorf("layers should differ in x: error %v, helper %v", errX, helperX)
	}
}

func TestExecuteNoDiagnostics(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		ErrorText: "make: all warnings being treated as errors\n",
		NoAnalyze: true,
	})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteMissingErrorText(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Execute = %v, want INVALID_INPUT", err)
	}
}

func TestExecuteInvalidAlgorithm(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		ErrorText: gccOutput,
		Algorithm: "circular",
		NoAnalyze: true,
	})
	if !errors.Is(err, errors.ErrCodeInvalidAlgorithm) {
		t.Errorf("Execute = %v, want INVALID_ALGORITHM", err)
	}
}

func TestExecuteCacheRoundTrip(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	opts := Options{ErrorText: gccOutput, Source: helperSource()}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.BuildHit || first.CacheInfo.LayoutHit {
		t.Error("first run should not hit the cache")
	}

	second, err := runner.Execute(context.Background(), Options{ErrorText: gccOutput, Source: helperSource()})
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.BuildHit {
		t.Error("second run should hit the graph cache")
	}
	if !second.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}

	if second.GraphHash != first.GraphHash {
		t.Errorf("GraphHash changed across runs: %q vs %q", first.GraphHash, second.GraphHash)
	}
	if second.Graph.NodeCount() != first.Graph.NodeCount() {
		t.Errorf("cached graph NodeCount = %d, want %d",
			second.Graph.NodeCount(), first.Graph.NodeCount())
	}
}

func TestExecuteRefreshBypassesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	runner := NewRunner(c, nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(context.Background(), Options{ErrorText: gccOutput, Source: helperSource()}); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	result, err := runner.Execute(context.Background(), Options{
		ErrorText: gccOutput,
		Source:    helperSource(),
		Refresh:   true,
	})
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if result.CacheInfo.BuildHit || result.CacheInfo.LayoutHit {
		t.Error("refresh run should bypass the cache")
	}
}

func TestExecuteForceAlgorithm(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		ErrorText: gccOutput,
		Source:    helperSource(),
		Algorithm: AlgorithmForce,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Force-directed starts nodes on a circle, so positions must be spread.
	distinct := make(map[[2]float64]bool)
	for _, n := range result.Graph.Nodes {
		distinct[[2]float64{n.X, n.Y}] = true
	}
	if len(distinct) != result.Graph.NodeCount() {
		t.Errorf("expected distinct positions, got %d for %d nodes",
			len(distinct), result.Graph.NodeCount())
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{ErrorText: "x.c:1:1: error: boom"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.Algorithm != AlgorithmAuto {
		t.Errorf("Algorithm = %q, want %q", opts.Algorithm, AlgorithmAuto)
	}
	if opts.ReferenceOffset != builder.DefaultReferenceOffset {
		t.Errorf("ReferenceOffset = %d, want %d", opts.ReferenceOffset, builder.DefaultReferenceOffset)
	}
	if opts.Iterations != 100 {
		t.Errorf("Iterations = %d, want 100", opts.Iterations)
	}
	if opts.Damping != 0.95 {
		t.Errorf("Damping = %v, want 0.95", opts.Damping)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}
