// Package raster implements render.Surface on a fogleman/gg context.
//
// The context is allocated at width·dpr × height·dpr device pixels and every
// transform is prefixed with a dpr scale, so callers draw in logical pixels.
package raster

import (
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/forcegraph/pkg/fonts"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Surface rasterizes draw calls into an RGBA image.
type Surface struct {
	dc    *gg.Context
	dpr   float64
	scale float64 // device pixels per current user unit
	faces map[float64]font.Face
}

var _ render.Surface = (*Surface)(nil)

// New returns a surface for a width×height logical canvas. A dpr of zero
// means 1.
func New(width, height int, dpr float64) *Surface {
	if dpr <= 0 {
		dpr = 1
	}
	s := &Surface{dpr: dpr, scale: dpr, faces: make(map[float64]font.Face)}
	s.dc = gg.NewContext(s.device(float64(width)), s.device(float64(height)))
	return s
}

func (s *Surface) device(v float64) int {
	return int(math.Ceil(v * s.dpr))
}

// Begin resizes the context if needed and clears it.
func (s *Surface) Begin(width, height float64, bg color.NRGBA) {
	w, h := s.device(width), s.device(height)
	if s.dc.Width() != w || s.dc.Height() != h {
		s.dc = gg.NewContext(w, h)
	}
	s.ResetTransform()
	s.dc.SetColor(bg)
	s.dc.Clear()
}

func (s *Surface) SetTransform(a viewport.Affine) {
	s.dc.Identity()
	s.dc.Scale(s.dpr, s.dpr)
	s.dc.Translate(a.TX, a.TY)
	s.dc.Scale(a.Scale, a.Scale)
	s.scale = s.dpr * a.Scale
}

func (s *Surface) ResetTransform() {
	s.dc.Identity()
	s.dc.Scale(s.dpr, s.dpr)
	s.scale = s.dpr
}

func (s *Surface) Line(x1, y1, x2, y2, width float64, p render.Paint) {
	s.dc.SetStrokeStyle(s.pattern(p))
	// gg strokes in device pixels
	s.dc.SetLineWidth(width * s.scale)
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *Surface) Circle(cx, cy, r float64, p render.Paint) {
	s.dc.SetFillStyle(s.pattern(p))
	s.dc.DrawCircle(cx, cy, r)
	s.dc.Fill()
}

func (s *Surface) Text(x, y float64, str string, t render.TextStyle) {
	face := s.face(t.Size)
	if face == nil {
		return
	}
	s.dc.SetFontFace(face)
	s.dc.SetColor(t.Color)
	ax := 0.0
	if t.Align == render.AlignCenter {
		ax = 0.5
	}
	s.dc.DrawStringAnchored(str, x, y, ax, 0)
}

// Image returns the rendered pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the rendered pixels as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// pattern converts a paint to a gg pattern. gg evaluates gradients in
// device space, so gradient geometry is transformed here.
func (s *Surface) pattern(p render.Paint) gg.Pattern {
	switch p.Kind {
	case render.PaintLinear:
		x0, y0 := s.dc.TransformPoint(p.X0, p.Y0)
		x1, y1 := s.dc.TransformPoint(p.X1, p.Y1)
		g := gg.NewLinearGradient(x0, y0, x1, y1)
		addStops(g, p.Stops)
		return g
	case render.PaintRadial:
		cx, cy := s.dc.TransformPoint(p.X0, p.Y0)
		g := gg.NewRadialGradient(cx, cy, 0, cx, cy, p.R*s.scale)
		addStops(g, p.Stops)
		return g
	}
	return gg.NewSolidPattern(p.Color)
}

func addStops(g gg.Gradient, stops []render.Stop) {
	for _, st := range stops {
		g.AddColorStop(st.Offset, st.Color)
	}
}

// face returns a cached font face for size, or nil if the font cannot load.
func (s *Surface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f, err := fonts.Face(size)
	if err != nil {
		return nil
	}
	s.faces[size] = f
	return f
}
