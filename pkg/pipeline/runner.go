// Package pipeline provides the core parse → build → layout pipeline.
//
// This package implements the complete flow from raw compiler output to a
// laid-out relay graph, usable by CLI, API, and TUI components alike. By
// centralizing this logic, all entry points behave identically and share
// the same caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Extract diagnostics from raw compiler output
//  2. Build: Construct the relay graph, optionally scanning sources for
//     symbol references
//  3. Layout: Compute node positions with the configured algorithm
//
// Build and layout results are cached by content hash, so repeated runs on
// the same compiler output are cheap.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ErrorText: compilerOutput,
//	    BuildDir:  "/path/to/project",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	graphio.WriteFile(result.Graph, "graph.json")
package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"relaymap/pkg/builder"
	"relaymap/pkg/cache"
	"relaymap/pkg/errors"
	"relaymap/pkg/graphio"
	"relaymap/pkg/observability"
	"relaymap/pkg/parse"
	"relaymap/pkg/relay"
	"relaymap/pkg/relay/layout"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// BatchID uniquely identifies this pipeline run.
	BatchID string

	// Graph is the built and laid-out relay graph.
	Graph *relay.Graph

	// GraphHash is the content hash of the built graph, before layout.
	GraphHash string

	// Diagnostics are the parsed compiler diagnostics.
	Diagnostics []parse.Diagnostic

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	BuildTime  time.Duration
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit  bool // Whether the built graph came from cache
	LayoutHit bool // Whether the laid-out graph came from cache
}

// Execute runs the complete parse → build → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{BatchID: uuid.NewString()}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx)
	diags := parse.New().Parse(opts.ErrorText)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Diagnostics = diags
	observability.Pipeline().OnParseComplete(ctx, len(diags), result.Stats.ParseTime, nil)

	if len(diags) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no diagnostics found in input")
	}

	opts.Logger.Info("parsed compiler output",
		"diagnostics", len(diags),
		"duration", result.Stats.ParseTime)

	// Stage 2: Build
	buildStart := time.Now()
	g, buildHit, err := r.buildWithCache(ctx, diags, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.BuildHit = buildHit

	if data, err := graphio.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(data)
	}

	opts.Logger.Info("built relay graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", buildHit,
		"duration", result.Stats.BuildTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	laid, layoutHit, err := r.layoutWithCache(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = laid
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// buildWithCache constructs the relay graph, consulting the cache first.
func (r *Runner) buildWithCache(ctx context.Context, diags []parse.Diagnostic, opts Options) (*relay.Graph, bool, error) {
	key := r.Keyer.GraphKey(cache.Hash([]byte(opts.ErrorText)), opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "graph")
			if g, err := graphio.Read(bytes.NewReader(data)); err == nil {
				return g, true, nil
			}
			// Corrupt entry, rebuild below.
		} else {
			observability.Cache().OnCacheMiss(ctx, "graph")
		}
	}

	start := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(diags))
	g, err := build(ctx, diags, opts)
	if err != nil {
		observability.Pipeline().OnBuildComplete(ctx, 0, 0, time.Since(start), err)
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "build graph")
	}
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	if data, err := graphio.Marshal(g); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGraph); err == nil {
			observability.Cache().OnCacheSet(ctx, "graph", len(data))
		}
	}

	return g, false, nil
}

// layoutWithCache positions the graph, consulting the cache first.
// The input graph is not modified; the returned graph carries coordinates.
func (r *Runner) layoutWithCache(ctx context.Context, g *relay.Graph, graphHash string, opts Options) (*relay.Graph, bool, error) {
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "layout")
			if cached, err := graphio.Read(bytes.NewReader(data)); err == nil {
				return cached, true, nil
			}
		} else {
			observability.Cache().OnCacheMiss(ctx, "layout")
		}
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.Algorithm, g.NodeCount())

	laid := g.Clone()
	cfg := opts.LayoutConfig()
	switch opts.Algorithm {
	case AlgorithmLayered:
		layout.Layered(laid, cfg)
	case AlgorithmForce:
		layout.ForceDirected(laid, cfg.Iterations, cfg)
	default:
		layout.Auto(laid, cfg)
	}

	observability.Pipeline().OnLayoutComplete(ctx, opts.Algorithm, time.Since(start), nil)

	if data, err := graphio.Marshal(laid); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLLayout); err == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return laid, false, nil
}

// build runs the graph builder with the configured reference source.
func build(ctx context.Context, diags []parse.Diagnostic, opts Options) (*relay.Graph, error) {
	return builder.Build(ctx, diags, opts.referenceSource(),
		builder.WithReferenceOffset(opts.ReferenceOffset))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
