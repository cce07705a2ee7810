// Package view assembles one interactive diagram: a graph, its simulation,
// a viewport, an interaction controller and a renderer.
//
// A View is owned by exactly one goroutine. Hosts that receive input on
// other goroutines hand it to the owner through pkg/loop.
package view

import (
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/interact"
	"github.com/matzehuels/forcegraph/pkg/render"
	"github.com/matzehuels/forcegraph/pkg/sim"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// Options configures a View. Width and Height are required.
type Options struct {
	Width, Height int
	PixelRatio    float64 // 0 means 1
	Params        *sim.Params
	Seed          uint64
	Theme         *render.Theme
	DragThreshold float64

	OnNodeClick func(*graph.Node)
	// OnNodeHover receives nil when the pointer leaves a node.
	OnNodeHover func(*graph.Node)
}

// View is a running diagram.
type View struct {
	g        *graph.Graph
	engine   *sim.Engine
	vp       *viewport.Viewport
	ctrl     *interact.Controller
	renderer *render.Renderer
	dpr      float64
	closed   bool
}

// New validates the inputs and builds a View. A node counts as placed
// when Placed is set or either coordinate is non-zero; the rest are
// scattered around the canvas center.
func New(nodes []graph.Node, edges []graph.Edge, opts Options) (*View, error) {
	g, err := graph.New(nodes, edges)
	if err != nil {
		return nil, err
	}
	for i := range g.Len() {
		if n := g.At(i); !n.Placed && (n.X != 0 || n.Y != 0) {
			n.Placed = true
		}
	}
	return FromGraph(g, opts)
}

// FromGraph builds a View over an existing graph, which the View then owns.
func FromGraph(g *graph.Graph, opts Options) (*View, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "width and height must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if err := errs.ValidatePixelRatio(opts.PixelRatio); err != nil {
		return nil, err
	}

	params := sim.DefaultParams()
	if opts.Params != nil {
		params = *opts.Params
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	theme := render.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}

	w, h := float64(opts.Width), float64(opts.Height)
	vp := viewport.New(w, h)
	v := &View{
		g:        g,
		engine:   sim.New(g, w, h, sim.WithParams(params), sim.WithSeed(opts.Seed)),
		vp:       vp,
		renderer: render.New(theme),
		dpr:      opts.PixelRatio,
	}
	if v.dpr == 0 {
		v.dpr = 1
	}
	v.ctrl = interact.New(g, vp, interact.Options{
		DragThreshold: opts.DragThreshold,
		OnClick:       opts.OnNodeClick,
		OnHover:       opts.OnNodeHover,
	})
	return v, nil
}

// PointerDown handles a press at screen coordinates.
func (v *View) PointerDown(x, y float64) {
	if v.closed {
		return
	}
	v.ctrl.PointerDown(x, y)
	if v.ctrl.State() == interact.Dragging {
		v.engine.Reheat()
	}
}

// PointerMove handles pointer motion at screen coordinates.
func (v *View) PointerMove(x, y float64) {
	if v.closed {
		return
	}
	v.ctrl.PointerMove(x, y)
}

// PointerUp handles a release at screen coordinates.
func (v *View) PointerUp(x, y float64) {
	if v.closed {
		return
	}
	v.ctrl.PointerUp(x, y)
}

// PointerLeave handles the pointer leaving the surface.
func (v *View) PointerLeave() {
	if v.closed {
		return
	}
	v.ctrl.PointerLeave()
}

// Wheel zooms by one step in the direction of delta.
func (v *View) Wheel(delta float64) {
	if v.closed {
		return
	}
	v.ctrl.Wheel(delta)
}

// Step advances the simulation one tick.
func (v *View) Step() {
	if v.closed {
		return
	}
	v.engine.Step()
}

// Draw renders the current state onto s.
func (v *View) Draw(s render.Surface) {
	if v.closed {
		return
	}
	v.renderer.Draw(s, render.Frame{Graph: v.g, Viewport: v.vp, Hovered: v.ctrl.Hovered()})
}

// Resize changes the logical canvas size.
func (v *View) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "width and height must be positive, got %dx%d", width, height)
	}
	v.vp.Resize(float64(width), float64(height))
	v.engine.Resize(float64(width), float64(height))
	return nil
}

// Close tears the view down. Every later call is a no-op.
func (v *View) Close() { v.closed = true }

// Closed reports whether Close was called.
func (v *View) Closed() bool { return v.closed }

// Graph returns the live graph.
func (v *View) Graph() *graph.Graph { return v.g }

// Viewport returns the live viewport.
func (v *View) Viewport() *viewport.Viewport { return v.vp }

// Engine returns the simulation engine.
func (v *View) Engine() *sim.Engine { return v.engine }

// State returns the interaction state.
func (v *View) State() interact.State { return v.ctrl.State() }

// Hovered returns the hovered node, or nil.
func (v *View) Hovered() *graph.Node {
	if i := v.ctrl.Hovered(); i >= 0 {
		return v.g.At(i)
	}
	return nil
}

// PixelRatio returns the device pixel ratio.
func (v *View) PixelRatio() float64 { return v.dpr }

// Size returns the logical canvas size.
func (v *View) Size() (width, height int) {
	return int(v.vp.Width), int(v.vp.Height)
}

// Layout snapshots current positions and viewport.
func (v *View) Layout() graph.Layout {
	l := graph.NewLayout(v.g, v.vp.Width, v.vp.Height, v.engine.Tick())
	l.Scale, l.PanX, l.PanY = v.vp.Scale, v.vp.PanX, v.vp.PanY
	return l
}
