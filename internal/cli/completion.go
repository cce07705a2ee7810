package cli

import (
	"github.com/spf13/cobra"
)

// graphFileExts are the extensions graph.FormatFromPath accepts.
var graphFileExts = []string{"json", "yaml", "yml"}

// completeGraphFile completes the single graph-file argument of render,
// view and export, offering only graph documents.
func completeGraphFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return graphFileExts, cobra.ShellCompDirectiveFilterFileExt
}

// completionCommand prints shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for your shell. Graph arguments complete to
.json, .yaml and .yml files.

  $ source <(forcegraph completion bash)
  $ forcegraph completion zsh > "${fpath[1]}/_forcegraph"
  $ forcegraph completion fish > ~/.config/fish/completions/forcegraph.fish
  PS> forcegraph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
