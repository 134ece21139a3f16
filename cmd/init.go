package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/crytic/zkconf/compilation"
	"github.com/crytic/zkconf/config"
	"github.com/crytic/zkconf/logging/colors"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// initCmd represents the command provider for init
var initCmd = &cobra.Command{
	Use:               "init",
	Short:             "Initializes a project configuration",
	Long:              `Initializes a project configuration pinning zksolc and solc and declaring the zkSync Era testnet`,
	Args:              cobra.NoArgs,
	ValidArgsFunction: cmdValidInitArgs,
	RunE:              cmdRunInit,
}

func init() {
	// Add flags to init command
	addInitFlags()

	// Add the init command and its associated flags to the root command
	rootCmd.AddCommand(initCmd)
}

// cmdValidInitArgs will return which flags are valid for dynamic completion for the init command
func cmdValidInitArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	// Gather a list of flags that are available to be used in the current command but have not been used yet
	var unusedFlags []string
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			unusedFlags = append(unusedFlags, "--"+flag.Name)
		}
	})
	return unusedFlags, cobra.ShellCompDirectiveNoFileComp
}

// cmdRunInit executes the init CLI command and writes a default project configuration updated with any flags
func cmdRunInit(cmd *cobra.Command, args []string) error {
	// If we weren't provided an output path, we use our working directory
	outputPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if outputPath == "" {
		workingDirectory, err := os.Getwd()
		if err != nil {
			return errors.WithStack(err)
		}
		outputPath = filepath.Join(workingDirectory, DefaultProjectConfigFilename)
	}

	// The output file extension decides the format, unless --format overrides it.
	format, err := outputFormat(cmd, outputPath)
	if err != nil {
		return err
	}
	if pathFormat, err := config.FormatFromPath(outputPath); err != nil || pathFormat != format {
		outputPath = filepath.Join(filepath.Dir(outputPath), utils.GetFileNameWithoutExtension(outputPath)+"."+string(format))
	}

	projectConfig := config.GetDefaultProjectConfig()
	if err := updateProjectConfigWithInitFlags(cmd, projectConfig); err != nil {
		return err
	}
	if err := projectConfig.Validate(); err != nil {
		return errors.Wrap(err, "the requested project configuration is invalid")
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}
	if _, err = os.Stat(outputPath); err == nil && !force {
		// Prompt user for overwrite confirmation
		fmt.Fprintf(cmd.OutOrStdout(), "The file %s already exists. Overwrite? (y/n): ", outputPath)
		response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && response == "" {
			return errors.Wrap(err, "could not read overwrite confirmation")
		}
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(cmd.OutOrStdout(), "Operation canceled.")
			return nil
		}
	}

	// Write our project configuration
	if err := projectConfig.WriteToFile(outputPath); err != nil {
		return err
	}

	if absoluteOutputPath, err := filepath.Abs(outputPath); err == nil {
		outputPath = absoluteOutputPath
	}
	cmdLogger.Info("Project configuration successfully output to: ", colors.Bold, outputPath, colors.Reset)
	return nil
}

// supportedCompilerSourcesDescription lists the compiler sources for flag help text.
func supportedCompilerSourcesDescription() string {
	return strings.Join(compilation.GetSupportedCompilerSources(), ", ")
}
