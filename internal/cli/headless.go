package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
	"github.com/matzehuels/forcegraph/pkg/sim"
	"github.com/matzehuels/forcegraph/pkg/view"
)

// simOpts are the canvas and simulation flags shared by headless commands.
// Flags the user did not set fall back to the loaded configuration.
type simOpts struct {
	width  int
	height int
	dpr    float64
	ticks  int
	seed   uint64
}

func (o *simOpts) addFlags(cmd *cobra.Command) {
	def := config.Default().Canvas
	cmd.Flags().IntVar(&o.width, "width", def.Width, "canvas width in logical pixels")
	cmd.Flags().IntVar(&o.height, "height", def.Height, "canvas height in logical pixels")
	cmd.Flags().Float64Var(&o.dpr, "dpr", def.DPR, "device pixel ratio for raster output")
	cmd.Flags().IntVar(&o.ticks, "ticks", def.Ticks, "simulation ticks before output")
	cmd.Flags().Uint64Var(&o.seed, "seed", def.Seed, "seed for initial placement jitter")
}

// resolve fills unset flags from cfg.
func (o *simOpts) resolve(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("width") {
		o.width = cfg.Canvas.Width
	}
	if !flags.Changed("height") {
		o.height = cfg.Canvas.Height
	}
	if !flags.Changed("dpr") {
		o.dpr = cfg.Canvas.DPR
	}
	if !flags.Changed("ticks") {
		o.ticks = cfg.Canvas.Ticks
	}
	if !flags.Changed("seed") {
		o.seed = cfg.Canvas.Seed
	}
}

// loadGraph reads a graph file in the format implied by its extension.
func (c *CLI) loadGraph(path string) (*graph.Graph, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	g, err := graph.ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	if g.Len() > sim.SoftNodeLimit {
		printLargeGraph(g.Len(), sim.SoftNodeLimit)
	}
	return g, nil
}

// newView builds a View over g with the configured physics and theme.
func (c *CLI) newView(g *graph.Graph, o simOpts, hooks view.Options) (*view.View, error) {
	cfg := c.config()
	params, theme := cfg.Physics, cfg.Theme
	opts := hooks
	opts.Width, opts.Height = o.width, o.height
	opts.PixelRatio = o.dpr
	opts.Params = &params
	opts.Theme = &theme
	opts.Seed = o.seed
	return view.FromGraph(g, opts)
}

// pipelineOptions maps the shared flags and configuration onto a pipeline run.
func (c *CLI) pipelineOptions(o simOpts, formats []string) pipeline.Options {
	cfg := c.config()
	params, theme := cfg.Physics, cfg.Theme
	return pipeline.Options{
		Width:      o.width,
		Height:     o.height,
		Ticks:      o.ticks,
		Seed:       o.seed,
		Physics:    &params,
		Formats:    formats,
		PixelRatio: o.dpr,
		Theme:      &theme,
		Logger:     c.Logger,
	}
}

// runPipeline simulates input headless and writes one file per format.
func (c *CLI) runPipeline(ctx context.Context, input, output string, noCache bool, opts pipeline.Options) error {
	if output == "-" && len(opts.Formats) > 1 {
		return errs.New(errs.ErrCodeInvalidInput, "stdout output takes a single format, got %d", len(opts.Formats))
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	g, err := c.loadGraph(input)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(c.newCache(ctx, noCache), nil, c.Logger)
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Simulating %d ticks...", opts.Ticks))
	spinner.Start()
	result, err := runner.Execute(ctx, g, opts)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("Pipeline complete")

	base := basePath(input, output)
	for _, f := range opts.Formats {
		path := outputPath(base, output, f, len(opts.Formats))
		if err := writeOutput(path, result.Artifacts[f]); err != nil {
			return err
		}
		if path != "-" {
			printFile(path, f)
		}
	}
	if output != "-" {
		printStats(result)
	}
	return nil
}
