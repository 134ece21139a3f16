package cmd

import (
	"github.com/crytic/zkconf/logging/colors"
	"github.com/spf13/cobra"
)

// validateCmd represents the command provider for validate
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the project configuration",
	Long: `Validates the project configuration: the default network must be declared, every network must set its
zksync flag and well-formed endpoints, and the compiler versions must be pinned MAJOR.MINOR.PATCH releases.`,
	Args: cobra.NoArgs,
	RunE: cmdRunValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// cmdRunValidate executes the validate CLI command
func cmdRunValidate(cmd *cobra.Command, args []string) error {
	projectConfig, path, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	cmdLogger.Info(colors.GreenBold, colors.CHECK_MARK, colors.Reset, " ", path, " is valid (", len(projectConfig.Networks),
		" networks, default ", colors.Bold, projectConfig.DefaultNetwork, colors.Reset, ")")
	return nil
}
