// Package pkg provides the core libraries for forcegraph, a force-directed
// diagram engine.
//
// # Overview
//
// Forcegraph lays out a graph of categorized entities with a small physics
// simulation and draws it on pluggable surfaces. A running diagram is a
// [view] that combines four pieces:
//
//  1. [sim] - Force integration (gravity, repulsion, springs, damping)
//  2. [viewport] - Pan and zoom between screen and world coordinates
//  3. [interact] - Pointer gestures: hover, drag, click, pan
//  4. [render] - Drawing onto a [render.Surface]
//
// # Architecture
//
// The typical data flow through forcegraph:
//
//	Graph file (JSON/YAML)
//	         ↓
//	    [graph] package (decode + validate)
//	         ↓
//	    [view] package (simulation + viewport + interaction)
//	         ↓
//	    [loop] package (one goroutine per view: input → step → draw)
//	         ↓
//	    Surface: SVG, PNG, terminal cells, recorded ops
//
// # Quick Start
//
// Simulate a graph and draw a frame:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	v, _ := view.FromGraph(g, view.Options{Width: 800, Height: 600})
//	for range 300 {
//	    v.Step()
//	}
//	s := svg.New()
//	v.Draw(s)
//	os.WriteFile("graph.svg", s.Bytes(), 0o644)
//
// # Main Packages
//
// ## Simulation
//
// [sim] - The force engine. One Step is one tick over every node; pinned
// nodes are placed at their pin and skip integration.
//
// [viewport] - Scale and pan with clamped zoom. At scale 1 and zero pan,
// screen and world coordinates coincide.
//
// [interact] - Gesture state machine driven by pointer events.
//
// [view] - The public facade tying the above together.
//
// [loop] - Animation scheduler. Owns a view on a single goroutine and
// applies queued input at frame boundaries.
//
// ## Drawing
//
// [render] - Theme, renderer and the Surface interface, plus a Recorder
// surface for tests and debugging.
//
//   - [render/svg]: SVG documents
//   - [render/raster]: PNG via an anti-aliased 2D context
//   - [render/term]: colored terminal cells
//
// [export] - Graphviz DOT with pinned positions.
//
// ## Infrastructure
//
// [pipeline] - Headless layout → render with caching, shared by CLI commands.
//
// [cache] - File, Redis and null caches for layouts, artifacts and frames.
//
// [config] - TOML configuration for canvas, physics, theme, cache and server.
//
// [observability] - Hook interfaces for frames, renders, cache and server.
//
// [errors] - Structured error codes.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/sim/...                # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// [sim]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/sim
// [viewport]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/viewport
// [interact]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/interact
// [view]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/view
// [loop]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/loop
// [graph]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render
// [render.Surface]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render#Surface
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render/svg
// [render/raster]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render/raster
// [render/term]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/render/term
// [export]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/export
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/forcegraph/pkg/errors
package pkg
