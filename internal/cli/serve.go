package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/internal/server"
)

// serveOpts holds options for the serve command.
type serveOpts struct {
	addr     string
	maxViews int
	noCache  bool
}

// serveCommand creates the serve command, which hosts live views over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host live views over HTTP",
		Long: `Serve starts an HTTP server. Each POST /views creates a view with its own
simulation loop; clients send pointer and wheel input and fetch frames as
SVG or PNG.`,
		Example: `  forcegraph serve
  forcegraph serve --addr 127.0.0.1:9000
  curl -X POST --data-binary @graph.json localhost:8080/views`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				opts.addr = c.config().Server.Addr
			}
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&opts.maxViews, "max-views", server.DefaultMaxViews, "maximum number of live views")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	store := c.newCache(ctx, opts.noCache)
	defer store.Close()

	srv := server.New(server.Options{
		Config:   c.config(),
		Cache:    store,
		Logger:   c.Logger,
		MaxViews: opts.maxViews,
	})
	defer srv.Close()

	if err := srv.ListenAndServe(ctx, opts.addr); err != nil {
		return err
	}
	c.Logger.Info("Server stopped")
	return nil
}
