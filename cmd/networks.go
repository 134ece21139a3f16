package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/crytic/zkconf/cmd/exitcodes"
	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/logging/colors"
	"github.com/crytic/zkconf/network"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// networksCmd represents the command provider for networks
var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "Inspects the networks of the project configuration",
}

// networksListCmd represents the command provider for networks list
var networksListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the configured networks",
	Args:  cobra.NoArgs,
	RunE:  cmdRunNetworksList,
}

// networksCheckCmd represents the command provider for networks check
var networksCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks that network endpoints are reachable and serve the expected chains",
	Long: `Connects to each network endpoint and reads its chain id and head block. Networks that declare a chainId must
answer with it, and base chains given by name must serve that chain. Only read-only calls are made.`,
	Args: cobra.NoArgs,
	RunE: cmdRunNetworksCheck,
}

func init() {
	networksCheckCmd.Flags().Duration("timeout", network.DefaultProbeTimeout, "timeout for each network probe")
	networksCheckCmd.Flags().Int("parallel", network.DefaultProbeParallelism, "number of networks probed at once")
	networksCheckCmd.Flags().Bool("no-cache", false, "do not record or compare chain ids across runs")

	networksCmd.AddCommand(networksListCmd, networksCheckCmd)
	rootCmd.AddCommand(networksCmd)
}

// cmdRunNetworksList executes the networks list CLI command
func cmdRunNetworksList(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	buffer := logging.NewLogBuffer()
	for _, name := range projectConfig.NetworkNames() {
		networkConfig := projectConfig.Networks[name]

		marker := "  "
		if name == projectConfig.DefaultNetwork {
			marker = "* "
		}
		buffer.Append(colors.GreenBold, marker, colors.Bold, name, colors.Reset)

		if networkConfig.IsLocal() {
			buffer.Append(colors.DarkGray, " (local)", colors.Reset)
		} else {
			buffer.Append(" ", networkConfig.URL)
		}
		if networkConfig.EthNetwork != "" {
			buffer.Append(colors.DarkGray, " on ", colors.Reset, networkConfig.EthNetwork)
		}
		if networkConfig.IsZksync() {
			buffer.Append(colors.Cyan, " [zksync]", colors.Reset)
		}
		buffer.Append("\n")
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), buffer.ColorString())
	return errors.WithStack(err)
}

// cmdRunNetworksCheck executes the networks check CLI command
func cmdRunNetworksCheck(cmd *cobra.Command, args []string) error {
	projectConfig, _, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	prober := network.NewProber()
	if prober.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return err
	}
	if prober.Parallelism, err = cmd.Flags().GetInt("parallel"); err != nil {
		return err
	}

	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	if !noCache {
		cache, err := network.OpenChainIDCache(chainIDCachePath())
		if err != nil {
			// The cache only adds change detection, so probing proceeds without it.
			cmdLogger.Warn("Could not open the chain id cache, continuing without it", err)
		} else {
			defer cache.Close()
			prober.Cache = cache
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	results, err := prober.ProbeAll(ctx, projectConfig)
	if err != nil {
		return err
	}

	failed := 0
	for _, result := range results {
		if !result.OK() {
			failed++
		}
		_, err := fmt.Fprint(cmd.OutOrStdout(), formatProbeResult(result).ColorString())
		if err != nil {
			return errors.WithStack(err)
		}
		if result.ChainIDChanged {
			cmdLogger.Warn("Network ", colors.Bold, result.Network, colors.Reset, " answered with chain id ",
				result.ChainID, " but previously answered with ", result.PreviousChainID)
		}
	}

	cmdLogger.Debug("Probed ", len(results), " networks in ", time.Since(start).Round(time.Millisecond))
	if failed > 0 {
		return exitcodes.NewErrorWithExitCode(errors.Errorf("%d of %d network checks failed", failed, len(results)), exitcodes.ExitCodeProbeFailed)
	}
	return nil
}

// formatProbeResult renders one probe result as a line of the check report.
func formatProbeResult(result *network.ProbeResult) *logging.LogBuffer {
	buffer := logging.NewLogBuffer()
	switch {
	case result.Local:
		buffer.Append(colors.DarkGray, "- ", colors.Bold, result.Network, colors.Reset, colors.DarkGray, " local network, not contacted", colors.Reset, "\n")
		return buffer
	case result.OK():
		buffer.Append(colors.GreenBold, colors.CHECK_MARK, " ", colors.Bold, result.Network, colors.Reset)
	default:
		buffer.Append(colors.RedBold, colors.CROSS_MARK, " ", colors.Bold, result.Network, colors.Reset)
	}

	if result.ChainID != 0 {
		buffer.Append(" chain ", result.ChainID, " block ", result.BlockNumber, colors.DarkGray, " (", result.Latency.Round(time.Millisecond), ")", colors.Reset)
	}
	if result.BaseChain != nil {
		switch {
		case result.BaseChain.Contacted() && result.BaseChain.Err == nil:
			buffer.Append(", base chain ", result.BaseChain.Name, " ", result.BaseChain.ChainID)
		case result.BaseChain.ExpectedChainID != nil && !result.BaseChain.Contacted():
			buffer.Append(", base chain ", result.BaseChain.Name, colors.DarkGray, " (expected ", *result.BaseChain.ExpectedChainID, ", not contacted)", colors.Reset)
		}
	}
	if result.Err != nil {
		buffer.Append("\n    ", colors.Red, result.Err.Error(), colors.Reset)
	}
	buffer.Append("\n")
	return buffer
}
