package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Surface is an immediate-mode 2D drawing target.
//
// Coordinates passed to Line, Circle and Text are in the current transform's
// space; SetTransform replaces the transform, it does not compose with it.
type Surface interface {
	// Begin clears the surface to bg and resets the transform.
	Begin(width, height float64, bg color.NRGBA)
	SetTransform(a viewport.Affine)
	ResetTransform()
	Line(x1, y1, x2, y2, width float64, p Paint)
	Circle(cx, cy, r float64, p Paint)
	Text(x, y float64, s string, t TextStyle)
}

// PaintKind selects how a shape is filled or stroked.
type PaintKind int

const (
	PaintSolid PaintKind = iota
	PaintLinear
	PaintRadial
)

// Stop is a gradient color stop.
type Stop struct {
	Offset float64
	Color  color.NRGBA
}

// Paint is a solid color or a gradient. Gradient geometry is in the same
// space as the shape it paints.
type Paint struct {
	Kind  PaintKind
	Color color.NRGBA // solid only

	// Linear: (X0,Y0) → (X1,Y1). Radial: center (X0,Y0), radius R.
	X0, Y0, X1, Y1 float64
	R              float64
	Stops          []Stop
}

// Solid returns a flat color paint.
func Solid(c color.NRGBA) Paint {
	return Paint{Kind: PaintSolid, Color: c}
}

// Linear returns a linear gradient between two points.
func Linear(x0, y0, x1, y1 float64, stops ...Stop) Paint {
	return Paint{Kind: PaintLinear, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: stops}
}

// Radial returns a radial gradient from a center out to radius r.
func Radial(cx, cy, r float64, stops ...Stop) Paint {
	return Paint{Kind: PaintRadial, X0: cx, Y0: cy, R: r, Stops: stops}
}

// String returns a compact description, e.g. "#ff0000ff" or
// "linear(#ff0000ff,#0000ffff)".
func (p Paint) String() string {
	switch p.Kind {
	case PaintLinear, PaintRadial:
		hex := make([]string, len(p.Stops))
		for i, s := range p.Stops {
			hex[i] = HexA(s.Color)
		}
		kind := "linear"
		if p.Kind == PaintRadial {
			kind = "radial"
		}
		return kind + "(" + strings.Join(hex, ",") + ")"
	}
	return HexA(p.Color)
}

// Align is horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// TextStyle describes a run of text. Y is the baseline.
type TextStyle struct {
	Color color.NRGBA
	Size  float64
	Align Align
}

// Hex formats c as #rrggbb.
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// HexA formats c as #rrggbbaa.
func HexA(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
