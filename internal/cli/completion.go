package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/workcard/pkg/theme"
)

// completionCommand prints a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for the given shell.

Besides subcommands and flags, the scripts complete record files for
'render', theme names for --variant, and .ttf files for --font.

  $ source <(workcard completion bash)
  $ workcard completion zsh > "${fpath[1]}/_workcard"
  $ workcard completion fish > ~/.config/fish/completions/workcard.fish
  PS> workcard completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, w := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(w, true)
			case "zsh":
				return root.GenZshCompletion(w)
			case "fish":
				return root.GenFishCompletion(w, true)
			default:
				return root.GenPowerShellCompletionWithDesc(w)
			}
		},
	}
}

// completeRecordFiles offers JSON and YAML files for the first argument.
func completeRecordFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json", "yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt
}

// completeVariants offers theme names with their pattern as description.
func completeVariants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, th := range theme.All() {
		if strings.HasPrefix(th.Name, strings.ToLower(toComplete)) {
			out = append(out, th.Name+"\t"+th.Pattern.String()+" pattern")
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeFontFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return []string{"ttf"}, cobra.ShellCompDirectiveFilterFileExt
}
