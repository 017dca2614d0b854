package cli

import (
	"os"

	"github.com/spf13/cobra"

	sgio "github.com/matzehuels/scenegraph/pkg/io"
)

// completionCommand creates the completion command. Scene arguments
// complete to .json and .toml files; see completeSceneFiles.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for scenegraph. Scene file arguments of
compute, validate, render and browse complete to .json and .toml files.

  $ source <(scenegraph completion bash)
  $ scenegraph completion zsh > "${fpath[1]}/_scenegraph"
  $ scenegraph completion fish > ~/.config/fish/completions/scenegraph.fish
  PS> scenegraph completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(os.Stdout, true)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// completeSceneFiles restricts the first positional argument of the named
// subcommands to scene documents.
func completeSceneFiles(root *cobra.Command, names ...string) {
	for _, name := range names {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			continue
		}
		cmd.ValidArgsFunction = sceneFileArgs
	}
}

func sceneFileArgs(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sgio.Formats, cobra.ShellCompDirectiveFilterFileExt
}
