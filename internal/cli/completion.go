package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/boardview/pkg/core/module"
	"github.com/matzehuels/boardview/pkg/loader"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for boardview.

To load completions:

Bash:
  $ source <(boardview completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ boardview completion bash > /etc/bash_completion.d/boardview
  # macOS:
  $ boardview completion bash > $(brew --prefix)/etc/bash_completion.d/boardview

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ boardview completion zsh > "${fpath[1]}/_boardview"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ boardview completion fish | source

  # To load completions for each session, execute once:
  $ boardview completion fish > ~/.config/fish/completions/boardview.fish

PowerShell:
  PS> boardview completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> boardview completion powershell > boardview.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeDir completes the module tree directory argument.
func completeDir(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveFilterDirs
}

// completeExpand completes --expand with the expandable module paths of the
// directory given as the first argument.
func (c *CLI) completeExpand(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := loader.Load(ctx, args[0], loaderOptions(cfg))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return expandable(res.Tree, toComplete), cobra.ShellCompDirectiveNoFileComp
}

// expandable lists the paths of modules with children that start with
// prefix, in tree order. Leaves are left out because expanding them is a
// no-op.
func expandable(t *module.Tree, prefix string) []string {
	var out []string
	t.Walk(func(m *module.Module) bool {
		if m.HasChildren() && strings.HasPrefix(m.Path, prefix) {
			out = append(out, m.Path)
		}
		return true
	})
	return out
}
