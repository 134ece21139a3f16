package cmd

import (
	"bytes"
	"io"

	"github.com/crytic/zkconf/config"
	"github.com/crytic/zkconf/logging/colors"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// exportCmd represents the command provider for export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exports the project configuration for other toolchains",
}

// exportHardhatCmd represents the command provider for export hardhat
var exportHardhatCmd = &cobra.Command{
	Use:   "hardhat",
	Short: "Renders the project configuration as a hardhat.config.ts",
	Long: `Renders the project configuration as a hardhat.config.ts using the zkSync solc and deploy plugins.
The file is printed to stdout unless --out is given.`,
	Args: cobra.NoArgs,
	RunE: cmdRunExportHardhat,
}

func init() {
	exportHardhatCmd.Flags().String("out", "", "output path for the rendered hardhat.config.ts")
	exportCmd.AddCommand(exportHardhatCmd)
	rootCmd.AddCommand(exportCmd)
}

// cmdRunExportHardhat executes the export hardhat CLI command
func cmdRunExportHardhat(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := config.RenderHardhatConfig(projectConfig, &buf); err != nil {
		return err
	}

	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err = io.Copy(cmd.OutOrStdout(), &buf)
		return errors.WithStack(err)
	}
	if err := utils.WriteFileAtomic(outputPath, buf.Bytes(), 0644); err != nil {
		return err
	}
	cmdLogger.Info("Hardhat configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}
