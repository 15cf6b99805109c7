package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for databroom.

The generated scripts also complete operation flags for "databroom clean"
and file names for its input argument.

To load completions:

Bash:
  $ source <(databroom completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ databroom completion bash > /etc/bash_completion.d/databroom
  # macOS:
  $ databroom completion bash > $(brew --prefix)/etc/bash_completion.d/databroom

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ databroom completion zsh > "${fpath[1]}/_databroom"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ databroom completion fish | source

  # To load completions for each session, execute once:
  $ databroom completion fish > ~/.config/fish/completions/databroom.fish

PowerShell:
  PS> databroom completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> databroom completion powershell > databroom.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := c.out
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}
