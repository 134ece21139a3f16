package cmd

import (
	"context"
	"encoding/json"

	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/logging/colors"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// compilerCmd represents the command provider for compiler
var compilerCmd = &cobra.Command{
	Use:   "compiler",
	Short: "Inspects the pinned zksolc compiler",
}

// compilerLocateCmd represents the command provider for compiler locate
var compilerLocateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Prints where the pinned zksolc release is obtained from and whether it is installed",
	Args:  cobra.NoArgs,
	RunE:  cmdRunCompilerLocate,
}

func init() {
	compilerLocateCmd.Flags().Bool("json", false, "print the location as JSON")
	compilerCmd.AddCommand(compilerLocateCmd)
	rootCmd.AddCommand(compilerCmd)
}

// cmdRunCompilerLocate executes the compiler locate CLI command
func cmdRunCompilerLocate(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	location, err := projectConfig.Zksolc.Locate(ctx)
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	if asJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "\t")
		return errors.WithStack(encoder.Encode(location))
	}

	buffer := logging.NewLogBuffer()
	buffer.Append("zksolc ", colors.Bold, location.Version, colors.Reset, " (", location.Source, ")\n")
	if location.Path != "" {
		buffer.Append("  path:     ", location.Path, "\n")
	}
	if location.Image != "" {
		buffer.Append("  image:    ", location.Image, "\n")
	}
	if location.DownloadURL != "" {
		buffer.Append("  download: ", location.DownloadURL, "\n")
	}
	switch {
	case location.VersionMismatch():
		buffer.Append("  status:   ", colors.YellowBold, "installed binary reports ", location.InstalledVersion, colors.Reset, "\n")
	case location.Installed:
		buffer.Append("  status:   ", colors.GreenBold, "installed", colors.Reset, "\n")
	default:
		buffer.Append("  status:   ", colors.Yellow, "not installed", colors.Reset, "\n")
	}
	_, err = cmd.OutOrStdout().Write([]byte(buffer.ColorString()))
	return errors.WithStack(err)
}
