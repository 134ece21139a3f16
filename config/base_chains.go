package config

import "sort"

// BaseChain describes a well-known base (L1) chain that a zkSync network can settle to.
type BaseChain struct {
	// Name is the chain name used in the ethNetwork field.
	Name string `json:"name"`

	// ChainID is the chain's EIP-155 chain id.
	ChainID uint64 `json:"chainId"`

	// RPCURL is a public JSON-RPC endpoint for the chain, if one exists without an API key.
	RPCURL string `json:"rpcUrl,omitempty"`
}

// knownBaseChains are the chain names accepted in ethNetwork, as understood by the zkSync deploy plugin.
var knownBaseChains = map[string]BaseChain{
	"mainnet":   {Name: "mainnet", ChainID: 1, RPCURL: "https://ethereum-rpc.publicnode.com"},
	"goerli":    {Name: "goerli", ChainID: 5},
	"sepolia":   {Name: "sepolia", ChainID: 11155111, RPCURL: "https://ethereum-sepolia-rpc.publicnode.com"},
	"holesky":   {Name: "holesky", ChainID: 17000, RPCURL: "https://ethereum-holesky-rpc.publicnode.com"},
	"localhost": {Name: "localhost", ChainID: 9, RPCURL: "http://127.0.0.1:8545"},
}

// LookupBaseChain returns the known base chain with the given name.
func LookupBaseChain(name string) (BaseChain, bool) {
	chain, ok := knownBaseChains[name]
	return chain, ok
}

// BaseChainNames returns the known base chain names in sorted order.
func BaseChainNames() []string {
	names := make([]string, 0, len(knownBaseChains))
	for name := range knownBaseChains {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
