package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/forcegraph/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the configuration file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.config()
			if summary {
				printConfigSummary(cfg)
				return nil
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print a short summary instead of TOML")
	return cmd
}

func printConfigSummary(cfg *config.Config) {
	printKeyValue("canvas", fmt.Sprintf("%dx%d @%sx", cfg.Canvas.Width, cfg.Canvas.Height, strconv.FormatFloat(cfg.Canvas.DPR, 'f', -1, 64)))
	printKeyValue("fps", strconv.Itoa(cfg.Canvas.FPS))
	printKeyValue("ticks", strconv.Itoa(cfg.Canvas.Ticks))
	printKeyValue("cache", cfg.Cache.Backend)
	printKeyValue("server", cfg.Server.Addr)
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			created, err := config.EnsureExists(path)
			if err != nil {
				return err
			}
			if !created {
				printInfo("Config already exists")
				printDetail("Path: %s", path)
				return nil
			}
			printSuccess("Wrote default config")
			printFile(path, "toml")
			printNextStep("Inspect it", "forcegraph config show")
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configPath
			if path == "" {
				path = config.DefaultPath()
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}
