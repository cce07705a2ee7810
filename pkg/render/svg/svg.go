// Package svg implements render.Surface by writing an SVG document.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/matzehuels/forcegraph/pkg/fonts"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Option configures a Surface.
type Option func(*Surface)

// WithEmbeddedFont inlines the label font as a base64 @font-face rule so the
// document renders identically without the font installed.
func WithEmbeddedFont() Option { return func(s *Surface) { s.embedFont = true } }

// Surface accumulates one frame of SVG.
type Surface struct {
	buf       bytes.Buffer
	embedFont bool
	inGroup   bool
	done      bool
	gradients int
}

var _ render.Surface = (*Surface)(nil)

// New returns an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) Begin(width, height float64, bg color.NRGBA) {
	s.buf.Reset()
	s.inGroup, s.done = false, false
	s.gradients = 0

	fmt.Fprintf(&s.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %s %s" width="%s" height="%s">`+"\n",
		num(width), num(height), num(width), num(height))
	s.buf.WriteString("<style>\n")
	if s.embedFont {
		fmt.Fprintf(&s.buf, "@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	fmt.Fprintf(&s.buf, "text { font-family: %s; }\n", fonts.FallbackFontFamily)
	s.buf.WriteString("</style>\n")
	fmt.Fprintf(&s.buf, `<rect width="100%%" height="100%%" %s/>`+"\n", paintAttr("fill", render.Solid(bg), ""))
}

func (s *Surface) SetTransform(a viewport.Affine) {
	s.closeGroup()
	fmt.Fprintf(&s.buf, `<g transform="matrix(%s 0 0 %s %s %s)">`+"\n", num(a.Scale), num(a.Scale), num(a.TX), num(a.TY))
	s.inGroup = true
}

func (s *Surface) ResetTransform() { s.closeGroup() }

func (s *Surface) Line(x1, y1, x2, y2, width float64, p render.Paint) {
	ref := s.defineGradient(p)
	fmt.Fprintf(&s.buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke-width="%s" stroke-linecap="round" %s/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), num(width), paintAttr("stroke", p, ref))
}

func (s *Surface) Circle(cx, cy, r float64, p render.Paint) {
	ref := s.defineGradient(p)
	fmt.Fprintf(&s.buf, `<circle cx="%s" cy="%s" r="%s" %s/>`+"\n", num(cx), num(cy), num(r), paintAttr("fill", p, ref))
}

func (s *Surface) Text(x, y float64, str string, t render.TextStyle) {
	anchor := "start"
	if t.Align == render.AlignCenter {
		anchor = "middle"
	}
	fmt.Fprintf(&s.buf, `<text x="%s" y="%s" font-size="%s" text-anchor="%s" %s>`,
		num(x), num(y), num(t.Size), anchor, paintAttr("fill", render.Solid(t.Color), ""))
	xml.EscapeText(&s.buf, []byte(str))
	s.buf.WriteString("</text>\n")
}

// Bytes finishes the document and returns it. Further draw calls need a
// new Begin.
func (s *Surface) Bytes() []byte {
	if !s.done {
		s.closeGroup()
		s.buf.WriteString("</svg>\n")
		s.done = true
	}
	return s.buf.Bytes()
}

func (s *Surface) closeGroup() {
	if s.inGroup {
		s.buf.WriteString("</g>\n")
		s.inGroup = false
	}
}

// defineGradient writes a <defs> entry for gradient paints and returns its
// id. Gradients use userSpaceOnUse so they follow the enclosing transform.
func (s *Surface) defineGradient(p render.Paint) string {
	if p.Kind == render.PaintSolid {
		return ""
	}
	s.gradients++
	id := fmt.Sprintf("g%d", s.gradients)
	s.buf.WriteString("<defs>")
	switch p.Kind {
	case render.PaintLinear:
		fmt.Fprintf(&s.buf, `<linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%s" y1="%s" x2="%s" y2="%s">`,
			id, num(p.X0), num(p.Y0), num(p.X1), num(p.Y1))
		writeStops(&s.buf, p.Stops)
		s.buf.WriteString("</linearGradient>")
	case render.PaintRadial:
		fmt.Fprintf(&s.buf, `<radialGradient id="%s" gradientUnits="userSpaceOnUse" cx="%s" cy="%s" r="%s">`,
			id, num(p.X0), num(p.Y0), num(p.R))
		writeStops(&s.buf, p.Stops)
		s.buf.WriteString("</radialGradient>")
	}
	s.buf.WriteString("</defs>\n")
	return id
}

func writeStops(buf *bytes.Buffer, stops []render.Stop) {
	for _, st := range stops {
		fmt.Fprintf(buf, `<stop offset="%s" stop-color="%s" stop-opacity="%s"/>`,
			num(st.Offset), render.Hex(st.Color), num(float64(st.Color.A)/255))
	}
}

// paintAttr renders a fill or stroke attribute. ref names a gradient
// defined by defineGradient.
func paintAttr(attr string, p render.Paint, ref string) string {
	if ref != "" {
		return fmt.Sprintf(`%s="url(#%s)"`, attr, ref)
	}
	if p.Color.A == 255 {
		return fmt.Sprintf(`%s="%s"`, attr, render.Hex(p.Color))
	}
	return fmt.Sprintf(`%s="%s" %s-opacity="%s"`, attr, render.Hex(p.Color), attr, num(float64(p.Color.A)/255))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
