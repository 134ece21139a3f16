package cmd

import (
	"github.com/crytic/zkconf/compilation"
	"github.com/crytic/zkconf/config"
	"github.com/spf13/cobra"
)

// addInitFlags adds the various flags for the init command
func addInitFlags() {
	// Output path for configuration
	initCmd.Flags().String("out", "", "output path for the new project configuration file")
	initCmd.Flags().String("format", "json", "configuration format (json, yaml)")
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration without asking")

	// Compiler pins
	initCmd.Flags().String("compiler-version", compilation.DefaultZksolcVersion, "zksolc release to pin")
	initCmd.Flags().String("compiler-source", string(compilation.DefaultCompilerSource), "how zksolc is obtained ("+supportedCompilerSourcesDescription()+")")
	initCmd.Flags().String("solidity-version", compilation.DefaultSolidityVersion, "solc release to pin")

	// Networks
	initCmd.Flags().String("default-network", config.DefaultNetworkName, "network used when none is specified")
}

// updateProjectConfigWithInitFlags will update the given projectConfig with any CLI arguments that were provided to the
// init command
func updateProjectConfigWithInitFlags(cmd *cobra.Command, projectConfig *config.ProjectConfig) error {
	var err error
	if cmd.Flags().Changed("compiler-version") {
		if projectConfig.Zksolc.Version, err = cmd.Flags().GetString("compiler-version"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("compiler-source") {
		source, err := cmd.Flags().GetString("compiler-source")
		if err != nil {
			return err
		}
		projectConfig.Zksolc.CompilerSource = compilation.CompilerSource(source)
	}
	if cmd.Flags().Changed("solidity-version") {
		if projectConfig.Solidity.Version, err = cmd.Flags().GetString("solidity-version"); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("default-network") {
		if projectConfig.DefaultNetwork, err = cmd.Flags().GetString("default-network"); err != nil {
			return err
		}
	}
	return nil
}
