// Package export writes layout snapshots in formats other tools understand.
//
// # Overview
//
// A running view only exists in memory. This package takes the graph as the
// simulation left it and produces Graphviz DOT source with every node pinned
// at its current position, so that external tooling draws exactly the layout
// the simulation computed instead of recomputing its own.
//
// # Usage
//
//	dot := export.ToDOT(v.Graph(), export.Options{})
//	svg, err := export.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The DOT output uses the neato engine with inputscale=72, so node positions
// are in points and match canvas pixels one to one. Graphviz measures y
// upwards, so y coordinates are negated on the way out. Nodes are fixed-size
// circles filled with their category color.
//
// [RenderSVG] renders the DOT through the embedded Graphviz build from
// github.com/goccy/go-graphviz; no system Graphviz install is needed.
package export
