package config

import "github.com/crytic/zkconf/compilation"

const (
	// HardhatNetworkName is the name of the in-process network, used as the default network when none is configured.
	HardhatNetworkName = "hardhat"

	// DefaultNetworkName is the network selected by new project configurations.
	DefaultNetworkName = "zkSyncTestnet"

	// DefaultNetworkURL is the JSON-RPC endpoint of the zkSync Era testnet.
	DefaultNetworkURL = "https://testnet.era.zksync.dev"

	// DefaultEthNetwork is the base chain of the zkSync Era testnet.
	DefaultEthNetwork = "goerli"
)

// GetDefaultProjectConfig obtains a default configuration for a project: the zksolc and solc pins, the in-process
// hardhat network and the zkSync Era testnet, which is selected by default.
func GetDefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Zksolc:         *compilation.NewCompilerConfig(compilation.DefaultZksolcVersion, compilation.DefaultCompilerSource),
		DefaultNetwork: DefaultNetworkName,
		Networks: map[string]*NetworkConfig{
			HardhatNetworkName: NewNetworkConfig("", "", true),
			DefaultNetworkName: NewNetworkConfig(DefaultNetworkURL, DefaultEthNetwork, true),
		},
		Solidity: SolidityConfig{
			Version: compilation.DefaultSolidityVersion,
		},
	}
}
