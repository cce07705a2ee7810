// Package interact turns pointer and wheel input into drag, pan, zoom, hover
// and click behavior on a graph.
//
// [Controller] is a small state machine:
//
//	Idle ──move over node──▶ Hovering ──move off──▶ Idle
//	Idle/Hovering ──down on node──▶ Dragging ──up──▶ Idle
//	Idle/Hovering ──down on empty──▶ Panning ──up──▶ Idle
//
// The wheel zooms in every state and never changes it. All pointer
// coordinates are screen coordinates; hit tests run in world space.
package interact

import (
	"math"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/viewport"
)

// HitSlop widens a node's hit circle relative to its drawn radius.
const HitSlop = 1.5

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Hovering
	Dragging
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Hovering:
		return "hovering"
	case Dragging:
		return "dragging"
	case Panning:
		return "panning"
	}
	return "unknown"
}

// Options configures a Controller.
type Options struct {
	// DragThreshold is how far, in screen pixels, the pointer must travel
	// from the press point before a gesture counts as a drag. Zero means any
	// movement.
	DragThreshold float64

	OnClick func(*graph.Node)
	// OnHover fires with nil when the pointer leaves the hovered node.
	OnHover func(*graph.Node)
}

// Controller tracks one pointer against one graph and viewport.
type Controller struct {
	g    *graph.Graph
	vp   *viewport.Viewport
	opts Options

	state   State
	hovered int // -1 when none
	active  int // node under the press, -1 when none
	press   viewport.Point
	last    viewport.Point
	dragged bool
}

// New returns an idle controller.
func New(g *graph.Graph, vp *viewport.Viewport, opts Options) *Controller {
	return &Controller{g: g, vp: vp, opts: opts, hovered: -1, active: -1}
}

// State returns the current gesture state.
func (c *Controller) State() State { return c.state }

// Hovered returns the draw index of the hovered node, or -1.
func (c *Controller) Hovered() int { return c.hovered }

// Active returns the draw index of the node being dragged, or -1.
func (c *Controller) Active() int {
	if c.state != Dragging {
		return -1
	}
	return c.active
}

// HitTest returns the topmost node within HitSlop×radius of a world point,
// or -1. Later nodes are drawn on top, so they are tested first.
func (c *Controller) HitTest(p viewport.Point) int {
	nodes := c.g.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		n := &nodes[i]
		if math.Hypot(p.X-n.X, p.Y-n.Y) < n.EffectiveRadius()*HitSlop {
			return i
		}
	}
	return -1
}

// PointerDown starts a drag on a node or a pan on empty space. A press that
// arrives while a drag is still open releases the old node first.
func (c *Controller) PointerDown(x, y float64) {
	if c.state == Dragging {
		c.g.At(c.active).Unpin()
	}
	sp := viewport.Point{X: x, Y: y}
	wp := c.vp.ScreenToWorld(sp)
	c.press, c.last = sp, sp
	c.dragged = false

	if i := c.HitTest(wp); i >= 0 {
		c.active = i
		c.state = Dragging
		c.g.At(i).Pin(wp.X, wp.Y)
		return
	}
	c.active = -1
	c.state = Panning
}

// PointerMove moves a dragged node, pans, or updates the hover target.
func (c *Controller) PointerMove(x, y float64) {
	sp := viewport.Point{X: x, Y: y}
	if !c.dragged && math.Hypot(sp.X-c.press.X, sp.Y-c.press.Y) > c.opts.DragThreshold {
		c.dragged = true
	}

	switch c.state {
	case Dragging:
		wp := c.vp.ScreenToWorld(sp)
		c.g.At(c.active).Pin(wp.X, wp.Y)
	case Panning:
		c.vp.PanBy(sp.X-c.last.X, sp.Y-c.last.Y)
	default:
		c.setHover(c.HitTest(c.vp.ScreenToWorld(sp)))
	}
	c.last = sp
}

// PointerUp ends the gesture. A press and release on the same node with no
// drag in between is a click.
func (c *Controller) PointerUp(x, y float64) {
	switch c.state {
	case Dragging:
		n := c.g.At(c.active)
		n.Unpin()
		click := !c.dragged && c.HitTest(c.vp.ScreenToWorld(viewport.Point{X: x, Y: y})) == c.active
		c.active = -1
		c.state = Idle
		if click && c.opts.OnClick != nil {
			c.opts.OnClick(n)
		}
	case Panning:
		c.state = Idle
	}
}

// PointerLeave aborts any gesture without a click and clears the hover.
func (c *Controller) PointerLeave() {
	if c.state == Dragging {
		c.g.At(c.active).Unpin()
	}
	c.active = -1
	c.state = Idle
	c.setHover(-1)
}

// Wheel zooms the viewport. The gesture state is unchanged.
func (c *Controller) Wheel(delta float64) {
	c.vp.Zoom(delta)
}

func (c *Controller) setHover(i int) {
	if i == c.hovered {
		if c.state == Idle && i >= 0 {
			c.state = Hovering
		}
		return
	}
	c.hovered = i
	if i >= 0 {
		c.state = Hovering
	} else {
		c.state = Idle
	}
	if c.opts.OnHover == nil {
		return
	}
	if i >= 0 {
		c.opts.OnHover(c.g.At(i))
	} else {
		c.opts.OnHover(nil)
	}
}
