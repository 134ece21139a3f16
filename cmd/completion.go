package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion code for the specified shell",
	Long: `To load completions:

Bash:

  $ source <(%[1]s completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ %[1]s completion bash > /etc/bash_completion.d/%[1]s
  # macOS:
  $ %[1]s completion bash > $(brew --prefix)/etc/bash_completion.d/%[1]s

Zsh:

  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:

  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return errors.WithStack(cmd.Root().GenBashCompletionV2(out, true))
		case "zsh":
			return errors.WithStack(cmd.Root().GenZshCompletion(out))
		case "fish":
			return errors.WithStack(cmd.Root().GenFishCompletion(out, true))
		default:
			return errors.WithStack(cmd.Root().GenPowerShellCompletionWithDesc(out))
		}
	},
}

func init() {
	completionCmd.Long = fmt.Sprintf(completionCmd.Long, rootCmd.Name())
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.AddCommand(completionCmd)
}
