package sim

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/forcegraph/pkg/graph"
)

// State is the next position and velocity of one node.
type State struct {
	X, Y   float64
	VX, VY float64
}

// Engine owns the physics for one graph. It is not safe for concurrent use;
// callers serialize access on a single goroutine.
type Engine struct {
	g      *graph.Graph
	params Params
	seed   uint64
	width  float64
	height float64
	alpha  float64
	tick   int

	// scratch reused across ticks
	fx, fy []float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithParams overrides the default constants.
func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// WithSeed makes initial jitter reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New prepares g for simulation on a width×height canvas. Nodes the caller
// did not place are scattered around the center within ±Jitter/2, and all
// velocities are reset.
func New(g *graph.Graph, width, height float64, opts ...Option) *Engine {
	e := &Engine{
		g:      g,
		params: DefaultParams(),
		width:  width,
		height: height,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.alpha = e.params.Alpha

	rng := rand.New(rand.NewPCG(e.seed, e.seed^0x9e3779b97f4a7c15))
	cx, cy := width/2, height/2
	nodes := g.Nodes()
	for i := range nodes {
		n := &nodes[i]
		if !n.Placed {
			n.X = cx + (rng.Float64()-0.5)*e.params.Jitter
			n.Y = cy + (rng.Float64()-0.5)*e.params.Jitter
		}
		n.VX, n.VY = 0, 0
	}

	e.fx = make([]float64, len(nodes))
	e.fy = make([]float64, len(nodes))
	return e
}

// Graph returns the simulated graph.
func (e *Engine) Graph() *graph.Graph { return e.g }

// Params returns the active constants.
func (e *Engine) Params() Params { return e.params }

// Tick returns the number of committed ticks.
func (e *Engine) Tick() int { return e.tick }

// Alpha returns the current integration rate.
func (e *Engine) Alpha() float64 { return e.alpha }

// Settled reports whether settle mode has brought alpha to zero.
func (e *Engine) Settled() bool { return e.alpha == 0 }

// Size returns the canvas size.
func (e *Engine) Size() (width, height float64) { return e.width, e.height }

// Resize changes the canvas. Nodes are pulled inside the new margin on the
// next tick.
func (e *Engine) Resize(width, height float64) {
	e.width, e.height = width, height
}

// Reheat restores alpha to its starting value. It only matters in settle
// mode.
func (e *Engine) Reheat() { e.alpha = e.params.Alpha }

// Step computes and commits one tick.
func (e *Engine) Step() {
	e.Commit(e.Next())
}

// Next computes the state every node will have after one tick. It reads
// only the committed positions and does not modify the graph.
func (e *Engine) Next() []State {
	p := e.params
	nodes := e.g.Nodes()
	out := make([]State, len(nodes))
	if len(e.fx) != len(nodes) {
		e.fx = make([]float64, len(nodes))
		e.fy = make([]float64, len(nodes))
	}
	fx, fy := e.fx, e.fy
	clear(fx)
	clear(fy)

	// Springs are symmetric, so accumulate them per edge.
	for _, edge := range e.g.Edges() {
		s, t, ok := e.g.Endpoints(edge)
		if !ok || s == t {
			continue
		}
		dx := nodes[t].X - nodes[s].X
		dy := nodes[t].Y - nodes[s].Y
		d := floorDist(math.Hypot(dx, dy))
		k := p.SpringStrength * edge.EffectiveWeight() * (d - p.IdealDistance) / d
		fx[s] += dx * k
		fy[s] += dy * k
		fx[t] -= dx * k
		fy[t] -= dy * k
	}

	cx, cy := e.width/2, e.height/2
	for i := range nodes {
		n := &nodes[i]
		if n.Pinned() {
			out[i] = State{X: *n.FX, Y: *n.FY}
			continue
		}

		fx[i] += (cx - n.X) * p.Gravity
		fy[i] += (cy - n.Y) * p.Gravity

		ri := n.EffectiveRadius()
		for j := range nodes {
			if j == i {
				continue
			}
			m := &nodes[j]
			dx, dy := n.X-m.X, n.Y-m.Y
			if dx == 0 && dy == 0 {
				// coincident: separate along x by draw order
				dx = 1
				if i < j {
					dx = -1
				}
			}
			minDist := (ri + m.EffectiveRadius()) * p.RepulsionScale
			d := floorDist(math.Hypot(dx, dy))
			if d >= 2*minDist {
				continue
			}
			f := p.RepulsionStrength * minDist / d
			fx[i] += dx / d * f
			fy[i] += dy / d * f
		}

		vx := (n.VX + fx[i]) * p.Damping
		vy := (n.VY + fy[i]) * p.Damping
		out[i] = State{
			X:  clamp(n.X+vx*e.alpha, p.Margin, e.width-p.Margin),
			Y:  clamp(n.Y+vy*e.alpha, p.Margin, e.height-p.Margin),
			VX: vx,
			VY: vy,
		}
	}
	return out
}

// Commit writes states produced by Next back to the graph and advances the
// tick counter. It panics if states does not cover every node.
func (e *Engine) Commit(states []State) {
	nodes := e.g.Nodes()
	if len(states) != len(nodes) {
		panic("sim: Commit with mismatched state count")
	}
	for i := range nodes {
		s := states[i]
		nodes[i].X, nodes[i].Y = s.X, s.Y
		nodes[i].VX, nodes[i].VY = s.VX, s.VY
	}
	e.tick++

	if e.params.AlphaDecay > 0 && e.alpha > 0 {
		e.alpha *= 1 - e.params.AlphaDecay
		if e.alpha < e.params.AlphaMin {
			e.alpha = 0
		}
	}
}

// Energy returns the mean node speed. It is a diagnostic; nothing stops on it.
func (e *Engine) Energy() float64 {
	nodes := e.g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	var sum float64
	for i := range nodes {
		sum += math.Hypot(nodes[i].VX, nodes[i].VY)
	}
	return sum / float64(len(nodes))
}

func floorDist(d float64) float64 {
	if d < 1 {
		return 1
	}
	return d
}

// clamp bounds v to [lo, hi]. A canvas narrower than twice the margin
// collapses to its midpoint.
func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}
