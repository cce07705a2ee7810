package pipeline

import (
	"context"

	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ctxCheckEvery is how many ticks run between context checks.
const ctxCheckEvery = 64

// GenerateLayout runs the simulation over g for opts.Ticks ticks and
// snapshots the result. g itself is left untouched.
func GenerateLayout(ctx context.Context, g *graph.Graph, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}

	// The view owns and mutates its graph.
	v, err := view.FromGraph(g.Clone(), view.Options{
		Width:  opts.Width,
		Height: opts.Height,
		Params: opts.Physics,
		Seed:   opts.Seed,
	})
	if err != nil {
		return graph.Layout{}, err
	}
	defer v.Close()

	opts.Logger.Debug("simulating", "nodes", g.Len(), "ticks", opts.Ticks)
	for i := range opts.Ticks {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return graph.Layout{}, err
			}
		}
		v.Step()
	}
	return v.Layout(), nil
}

// viewFromLayout rebuilds a drawable view with every node where l left it.
func viewFromLayout(l graph.Layout, opts Options) (*view.View, error) {
	g, err := graph.FromDocument(l.Document())
	if err != nil {
		return nil, err
	}
	v, err := view.FromGraph(g, view.Options{
		Width:      int(l.Width),
		Height:     int(l.Height),
		PixelRatio: opts.PixelRatio,
		Params:     opts.Physics,
		Theme:      opts.Theme,
	})
	if err != nil {
		return nil, err
	}
	if l.Scale > 0 {
		vp := v.Viewport()
		vp.Scale, vp.PanX, vp.PanY = l.Scale, l.PanX, l.PanY
	}
	return v, nil
}
