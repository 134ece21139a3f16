package cmd

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// showCmd represents the command provider for show
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Prints the normalized project configuration",
	Long:  `Prints the project configuration after validation, with omitted fields filled with their defaults`,
	Args:  cobra.NoArgs,
	RunE:  cmdRunShow,
}

func init() {
	showCmd.Flags().String("format", "", "output format (json, yaml); defaults to the format of the configuration file")
	rootCmd.AddCommand(showCmd)
}

// cmdRunShow executes the show CLI command
func cmdRunShow(cmd *cobra.Command, args []string) error {
	projectConfig, path, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd, path)
	if err != nil {
		return err
	}
	b, err := projectConfig.Marshal(format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(b)
	return errors.WithStack(err)
}
