// Package pkg provides the core libraries for relaymap compiler-error
// visualization.
//
// # Overview
//
// Relaymap turns raw compiler output into a graph of error locations and
// the symbols they implicate, lays the graph out, and renders it. The pkg
// directory is organized into:
//
//  1. [relay] - The graph model and layout engines.
//  2. [parse] - Compiler diagnostic extraction (GCC/Clang, MSVC, Unity).
//  3. [builder] - Diagnostics + symbol references -> deduplicated graph.
//  4. [analyze] - Tree-sitter based symbol discovery in C/C++ sources.
//  5. [pipeline] - Orchestration (parse -> build -> layout) with caching.
//  6. [graphio] - JSON serialization of graphs.
//  7. [render] - DOT/SVG/PNG output via Graphviz.
//  8. [cache], [store] - Content-addressed caching and graph persistence.
//
// # Architecture
//
// The typical data flow:
//
//	Compiler output
//	         ↓
//	    [parse] package (extract diagnostics)
//	         ↓
//	    [builder] package (graph construction, with [analyze] discovering references)
//	         ↓
//	    [relay/layout] package (layered or force-directed coordinates)
//	         ↓
//	    JSON/DOT/SVG/PNG output
//
// # Quick Start
//
// Build and lay out a graph from compiler output:
//
//	import (
//	    "context"
//	    "relaymap/pkg/pipeline"
//	)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(context.Background(), pipeline.Options{
//	    ErrorText: compilerOutput,
//	    BuildDir:  "/path/to/sources",
//	})
//
// Or drive the stages directly:
//
//	diags := parse.New().Parse(compilerOutput)
//	g, _ := builder.Build(ctx, diags, analyze.NewScanner(buildDir))
//	layout.Auto(g, layout.DefaultConfig())
//
// [relay]: https://pkg.go.dev/relaymap/pkg/relay
// [parse]: https://pkg.go.dev/relaymap/pkg/parse
// [builder]: https://pkg.go.dev/relaymap/pkg/builder
// [analyze]: https://pkg.go.dev/relaymap/pkg/analyze
// [pipeline]: https://pkg.go.dev/relaymap/pkg/pipeline
// [graphio]: https://pkg.go.dev/relaymap/pkg/graphio
// [render]: https://pkg.go.dev/relaymap/pkg/render
// [relay/layout]: https://pkg.go.dev/relaymap/pkg/relay/layout
// [cache]: https://pkg.go.dev/relaymap/pkg/cache
// [store]: https://pkg.go.dev/relaymap/pkg/store
package pkg
