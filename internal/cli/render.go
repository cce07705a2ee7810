package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// renderOpts holds options for the render command.
type renderOpts struct {
	output    string
	formats   string
	noCache   bool
	embedFont bool
	sim       simOpts
}

// renderCommand creates the render command for headless image output.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Simulate a graph headless and write images",
		Long: `Render runs the force simulation for a fixed number of ticks and draws
the final frame.

Formats: svg (default), png, ops (the recorded draw operations as JSON).
Several formats may be given separated by commas; each is written next to
the output base path.`,
		Example: `  forcegraph render graph.json
  forcegraph render graph.yaml -f svg,png -o out/diagram
  forcegraph render graph.json -f png --dpr 2 --ticks 600 -o -`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.sim.resolve(cmd, c.config())
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path, or - for stdout (default: input name)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output formats: svg, png, ops (comma-separated)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.embedFont, "embed-font", false, "embed the label font in SVG output")
	opts.sim.addFlags(cmd)

	return cmd
}

// runRender simulates the graph and writes every requested image format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	formats := parseFormats(opts.formats, pipeline.FormatSVG)
	for _, f := range formats {
		switch f {
		case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatOps:
		default:
			return errs.New(errs.ErrCodeUnsupported, "unsupported render format %q (want svg, png or ops)", f)
		}
	}

	po := c.pipelineOptions(opts.sim, formats)
	po.EmbedFont = opts.embedFont
	return c.runPipeline(ctx, input, opts.output, opts.noCache, po)
}

// =============================================================================
// Output Helpers
// =============================================================================

// basePath returns the output path without extension. An explicit output
// wins; otherwise the input name is used.
func basePath(input, output string) string {
	if output != "" && output != "-" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath returns where format is written. A single format honors an
// explicit output path as given.
func outputPath(base, output, format string, count int) string {
	if output == "-" {
		return "-"
	}
	if output != "" && count == 1 && filepath.Ext(output) != "" {
		return output
	}
	return base + "." + extensionFor(format)
}

// extensionFor keeps layout snapshots from overwriting a graph file of the
// same name.
func extensionFor(format string) string {
	switch format {
	case pipeline.FormatOps:
		return "ops.json"
	case pipeline.FormatGraphviz:
		return "gv.svg"
	case pipeline.FormatJSON, pipeline.FormatYAML:
		return "layout." + format
	}
	return format
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// openOutput opens the output destination. "-" and "" mean stdout.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create output directory")
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidPath, err, "create %s", path)
	}
	return f, nil
}

// nopCloser wraps a writer with a no-op Close.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
