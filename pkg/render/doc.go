// Package render draws a graph frame onto an abstract drawing surface.
//
// # Overview
//
// [Renderer.Draw] paints one frame in a fixed order:
//
//  1. clear to the theme background
//  2. apply the viewport transform
//  3. edges, as gradients when endpoint colors differ
//  4. nodes, with a glow and enlarged radius on the hovered node
//  5. labels for hovered and large nodes
//  6. reset the transform and draw the category legend in screen space
//
// # Surfaces
//
// [Surface] is the minimal immediate-mode interface the renderer needs:
// clear, set/reset a 2D affine transform, line, filled circle and text.
// Backends live in subpackages:
//
//   - [raster]: fogleman/gg software rasterizer, PNG output
//   - [svg]: SVG document output
//   - [term]: character-cell grid for terminals
//
// [Recorder] is an in-memory Surface that keeps every call as an [Op]. It
// backs the tests and the "ops" output format.
//
// # Device Pixel Ratio
//
// The renderer works in logical pixels. Backends that produce pixels scale
// by their own device pixel ratio, so logical width×height becomes
// (width·dpr)×(height·dpr) device pixels.
package render
