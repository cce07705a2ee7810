package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Frame is everything one draw needs.
type Frame struct {
	Graph    *graph.Graph
	Viewport *viewport.Viewport
	Hovered  int // draw index of the hovered node, -1 for none
}

// Renderer draws frames with a fixed theme. Parsed colors are cached, so a
// Renderer must not be shared across goroutines.
type Renderer struct {
	theme  Theme
	bg     color.NRGBA
	edge   color.NRGBA
	label  color.NRGBA
	colors map[string]color.NRGBA
}

// New returns a renderer for theme. Unparseable theme colors fall back to
// the default theme's.
func New(theme Theme) *Renderer {
	def := DefaultTheme()
	r := &Renderer{theme: theme, colors: make(map[string]color.NRGBA)}
	r.bg = parseOr(theme.Background, def.Background)
	r.edge = parseOr(theme.EdgeColor, def.EdgeColor)
	r.label = parseOr(theme.LabelColor, def.LabelColor)
	return r
}

// Theme returns the renderer's theme.
func (r *Renderer) Theme() Theme { return r.theme }

// Background returns the parsed background color.
func (r *Renderer) Background() color.NRGBA { return r.bg }

// Draw paints f onto s.
func (r *Renderer) Draw(s Surface, f Frame) {
	vp := f.Viewport
	s.Begin(vp.Width, vp.Height, r.bg)
	s.SetTransform(vp.Transform())

	r.drawEdges(s, f.Graph)
	r.drawNodes(s, f.Graph, f.Hovered)
	r.drawLabels(s, f.Graph, f.Hovered)

	s.ResetTransform()
	if r.theme.Legend {
		r.drawLegend(s)
	}
}

// EdgeWidth is the stroke width for an edge weight, capped at 3.
func EdgeWidth(weight float64) float64 {
	return math.Min(3, 0.5+weight*0.5)
}

func (r *Renderer) drawEdges(s Surface, g *graph.Graph) {
	nodes := g.Nodes()
	for _, e := range g.Edges() {
		si, ti, ok := g.Endpoints(e)
		if !ok {
			continue
		}
		a, b := &nodes[si], &nodes[ti]
		w := EdgeWidth(e.EffectiveWeight())

		if e.Color != "" {
			s.Line(a.X, a.Y, b.X, b.Y, w, Solid(r.color(e.Color, r.edge)))
			continue
		}
		ca, cb := r.nodeColor(a), r.nodeColor(b)
		if ca == cb {
			s.Line(a.X, a.Y, b.X, b.Y, w, Solid(r.edge))
			continue
		}
		alpha := r.theme.EdgeAlpha
		s.Line(a.X, a.Y, b.X, b.Y, w, Linear(a.X, a.Y, b.X, b.Y,
			Stop{Offset: 0, Color: WithAlpha(ca, alpha)},
			Stop{Offset: 0.5, Color: WithAlpha(Mix(ca, cb, 0.5), alpha)},
			Stop{Offset: 1, Color: WithAlpha(cb, alpha)},
		))
	}
}

func (r *Renderer) drawNodes(s Surface, g *graph.Graph, hovered int) {
	nodes := g.Nodes()
	for i := range nodes {
		n := &nodes[i]
		c := r.nodeColor(n)
		rad := n.EffectiveRadius()

		if i == hovered {
			s.Circle(n.X, n.Y, rad*r.theme.GlowScale, Radial(n.X, n.Y, rad*r.theme.GlowScale,
				Stop{Offset: 0, Color: WithAlpha(c, 0.5)},
				Stop{Offset: 1, Color: WithAlpha(c, 0)},
			))
			rad *= r.theme.HoverScale
		}

		s.Circle(n.X, n.Y, rad, Solid(c))

		hl := rad * 0.3
		s.Circle(n.X-hl, n.Y-hl, hl, Solid(WithAlpha(Lighten(c, 0.7), 0.45)))
	}
}

func (r *Renderer) drawLabels(s Surface, g *graph.Graph, hovered int) {
	nodes := g.Nodes()
	style := TextStyle{Color: r.label, Size: r.theme.LabelSize, Align: AlignCenter}
	for i := range nodes {
		n := &nodes[i]
		rad := n.EffectiveRadius()
		if i != hovered && rad <= r.theme.LabelRadius {
			continue
		}
		if i == hovered {
			rad *= r.theme.HoverScale
		}
		s.Text(n.X, n.Y+rad+r.theme.LabelOffset, n.DisplayLabel(), style)
	}
}

func (r *Renderer) drawLegend(s Surface) {
	style := TextStyle{Color: r.label, Size: r.theme.LegendSize, Align: AlignLeft}
	x, y := r.theme.LegendX, r.theme.LegendY
	for i, c := range graph.Categories() {
		cy := y + float64(i)*r.theme.LegendSpacing
		s.Circle(x+5, cy, 5, Solid(r.color(graph.StyleOf(c).Color, r.edge)))
		s.Text(x+16, cy+4, c.String(), style)
	}
}

func (r *Renderer) nodeColor(n *graph.Node) color.NRGBA {
	return r.color(n.EffectiveColor(), r.color(graph.StyleOf(graph.Unknown).Color, r.edge))
}

// color parses hex through the cache, returning fallback when it does not
// parse.
func (r *Renderer) color(hex string, fallback color.NRGBA) color.NRGBA {
	if c, ok := r.colors[hex]; ok {
		return c
	}
	c, err := ParseColor(hex)
	if err != nil {
		c = fallback
	}
	r.colors[hex] = c
	return c
}

func parseOr(hex, def string) color.NRGBA {
	if c, err := ParseColor(hex); err == nil {
		return c
	}
	c, _ := ParseColor(def)
	return c
}
