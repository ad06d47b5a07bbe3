package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/deplic/pkg/report"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for deplic.

To load completions:

Bash:
  $ source <(deplic completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ deplic completion bash > /etc/bash_completion.d/deplic
  # macOS:
  $ deplic completion bash > $(brew --prefix)/etc/bash_completion.d/deplic

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ deplic completion zsh > "${fpath[1]}/_deplic"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ deplic completion fish | source

  # To load completions for each session, execute once:
  $ deplic completion fish > ~/.config/fish/completions/deplic.fish

PowerShell:
  PS> deplic completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> deplic completion powershell > deplic.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}

// registerFlagCompletions adds value completion for the report flags.
func registerFlagCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc(keyFormat, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return report.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc(keyCache, func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"file", "memory", "none", "redis://"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("check", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"ini", "cfg"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
