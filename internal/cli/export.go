package cli

import (
	"context"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// exportOpts holds options for the export command.
type exportOpts struct {
	output   string
	formats  string
	detailed bool
	noCache  bool
	sim      simOpts
}

// exportCommand creates the export command, which writes the settled
// layout for other tools.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Simulate a graph and export the resulting layout",
		Long: `Export runs the force simulation and writes the node positions it reached.

Formats:
  json, yaml   layout snapshot, readable again as a graph file
  dot          Graphviz source with every node pinned at its position
  graphviz     SVG drawn by the embedded Graphviz from the DOT source`,
		Example: `  forcegraph export graph.json -f yaml
  forcegraph export graph.json -f dot,graphviz -o out/layout
  forcegraph export graph.yaml -f dot --detailed -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sim.resolve(cmd, c.config())
			return c.runExport(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path, or - for stdout (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: json, yaml, dot, graphviz (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include category and metadata in DOT labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.sim.addFlags(cmd)

	return cmd
}

// runExport computes the layout and writes each format.
func (c *CLI) runExport(ctx context.Context, input string, opts exportOpts) error {
	formats := parseFormats(opts.formats, pipeline.FormatJSON)
	for _, f := range formats {
		switch f {
		case pipeline.FormatJSON, pipeline.FormatYAML, pipeline.FormatDOT, pipeline.FormatGraphviz:
		default:
			return errs.New(errs.ErrCodeUnsupported, "unsupported export format %q (want json, yaml, dot or graphviz)", f)
		}
	}

	po := c.pipelineOptions(opts.sim, formats)
	po.Detailed = opts.detailed
	return c.runPipeline(ctx, input, opts.output, opts.noCache, po)
}
