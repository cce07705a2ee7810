// Package viewport maps between world coordinates, where the simulation
// places nodes, and screen coordinates, where pointers and pixels live.
//
// The transform translates by the pan offset and then scales about the
// viewport center:
//
//	screen = (world + pan - center) * scale + center
//	world  = (screen - center) / scale + center - pan
//
// Zoom is always anchored at the viewport center, not at the pointer.
package viewport

import "math"

// Scale bounds and wheel factors.
const (
	MinScale = 0.2
	MaxScale = 3.0

	ZoomInFactor  = 1.1
	ZoomOutFactor = 0.9
)

// Point is a 2D coordinate.
type Point struct {
	X, Y float64
}

// Affine is a uniform scale followed by a translation:
// (x, y) → (x*Scale + TX, y*Scale + TY).
type Affine struct {
	Scale  float64
	TX, TY float64
}

// Identity is the no-op transform.
var Identity = Affine{Scale: 1}

// Apply transforms p.
func (a Affine) Apply(p Point) Point {
	return Point{X: p.X*a.Scale + a.TX, Y: p.Y*a.Scale + a.TY}
}

// Viewport holds pan and zoom for a width×height surface.
type Viewport struct {
	PanX, PanY float64
	Scale      float64
	Width      float64
	Height     float64
}

// New returns an unpanned, unzoomed viewport.
func New(width, height float64) *Viewport {
	return &Viewport{Scale: 1, Width: width, Height: height}
}

// Center returns the viewport center in screen coordinates.
func (v *Viewport) Center() Point {
	return Point{X: v.Width / 2, Y: v.Height / 2}
}

// WorldToScreen maps a world point to the screen.
func (v *Viewport) WorldToScreen(p Point) Point {
	c := v.Center()
	return Point{
		X: (p.X+v.PanX-c.X)*v.Scale + c.X,
		Y: (p.Y+v.PanY-c.Y)*v.Scale + c.Y,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v *Viewport) ScreenToWorld(p Point) Point {
	c := v.Center()
	return Point{
		X: (p.X-c.X)/v.Scale + c.X - v.PanX,
		Y: (p.Y-c.Y)/v.Scale + c.Y - v.PanY,
	}
}

// Zoom applies one wheel step. Negative delta zooms in, positive zooms out
// and zero is ignored. The result is clamped to [MinScale, MaxScale].
func (v *Viewport) Zoom(delta float64) {
	switch {
	case delta < 0:
		v.Scale *= ZoomInFactor
	case delta > 0:
		v.Scale *= ZoomOutFactor
	}
	v.Scale = ClampScale(v.Scale)
}

// PanBy moves the view by a screen-space offset.
func (v *Viewport) PanBy(dx, dy float64) {
	v.PanX += dx / v.Scale
	v.PanY += dy / v.Scale
}

// Resize changes the surface size without touching pan or zoom.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
}

// Reset restores the default pan and zoom.
func (v *Viewport) Reset() {
	v.PanX, v.PanY, v.Scale = 0, 0, 1
}

// Transform returns the world→screen mapping as an Affine.
func (v *Viewport) Transform() Affine {
	c := v.Center()
	return Affine{
		Scale: v.Scale,
		TX:    v.Scale*(v.PanX-c.X) + c.X,
		TY:    v.Scale*(v.PanY-c.Y) + c.Y,
	}
}

// ClampScale bounds s to [MinScale, MaxScale]. NaN maps to 1.
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return 1
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}
