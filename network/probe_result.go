package network

import "time"

// ProbeResult describes the outcome of probing one network.
type ProbeResult struct {
	// Network is the name of the probed network.
	Network string `json:"network"`

	// IsDefault indicates the network is the project's default network.
	IsDefault bool `json:"isDefault"`

	// URL is the endpoint which was probed.
	URL string `json:"url,omitempty"`

	// Local indicates the network has no endpoint and was not contacted.
	Local bool `json:"local"`

	// ChainID is the chain id the endpoint answered with.
	ChainID uint64 `json:"chainId,omitempty"`

	// ExpectedChainID is the configured chain id of the network, if any.
	ExpectedChainID *uint64 `json:"expectedChainId,omitempty"`

	// BlockNumber is the head block number the endpoint reported.
	BlockNumber uint64 `json:"blockNumber,omitempty"`

	// ChainIDChanged indicates the endpoint answered with a different chain id on a previous run.
	ChainIDChanged bool `json:"chainIdChanged,omitempty"`

	// PreviousChainID is the chain id recorded on a previous run, if it changed.
	PreviousChainID uint64 `json:"previousChainId,omitempty"`

	// BaseChain describes the probe of the network's base chain, if it names one.
	BaseChain *BaseChainResult `json:"baseChain,omitempty"`

	// Latency is how long the endpoint took to answer.
	Latency time.Duration `json:"latency,omitempty"`

	// Err is the reason the probe failed, if it did.
	Err error `json:"-"`
}

// OK returns whether the probe succeeded.
func (r *ProbeResult) OK() bool {
	return r.Err == nil
}

// BaseChainResult describes the outcome of probing a network's base chain.
type BaseChainResult struct {
	// Name is the base chain as written in the configuration.
	Name string `json:"name"`

	// URL is the base chain endpoint which was probed, if one is known.
	URL string `json:"url,omitempty"`

	// ChainID is the chain id the base chain endpoint answered with.
	ChainID uint64 `json:"chainId,omitempty"`

	// ExpectedChainID is the chain id of a known base chain name.
	ExpectedChainID *uint64 `json:"expectedChainId,omitempty"`

	// Err is the reason the base chain probe failed, if it did.
	Err error `json:"-"`
}

// Contacted returns whether the base chain endpoint was queried.
func (b *BaseChainResult) Contacted() bool {
	return b.URL != ""
}
