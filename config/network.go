package config

import (
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingZksyncFlag is returned when a network entry does not declare its zksync flag.
	ErrMissingZksyncFlag = errors.New("zksync flag is not set")
	// ErrInvalidNetworkURL is returned when a network URL is not an absolute http(s) or ws(s) URL.
	ErrInvalidNetworkURL = errors.New("invalid network url")
	// ErrMissingEthNetwork is returned when a remote zkSync network does not name its base chain.
	ErrMissingEthNetwork = errors.New("ethNetwork is not set")
	// ErrUnknownEthNetwork is returned when a base chain is neither a known name nor a URL.
	ErrUnknownEthNetwork = errors.New("unknown ethNetwork")
	// ErrMissingEnvironmentVariable is returned when a network URL references an unset environment variable.
	ErrMissingEnvironmentVariable = errors.New("environment variable is not set")
)

// NetworkConfig describes the connection parameters of a single network.
type NetworkConfig struct {
	// URL is the JSON-RPC endpoint of the network. It is empty for the in-process hardhat network.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// EthNetwork is the base (L1) chain of the network, either as a known chain name or a JSON-RPC URL.
	EthNetwork string `json:"ethNetwork,omitempty" yaml:"ethNetwork,omitempty"`

	// Zksync enables the zkSync execution environment for this network. It must always be set explicitly.
	Zksync *bool `json:"zksync" yaml:"zksync"`

	// ChainID is the expected chain id of URL. When set, endpoint checks verify the endpoint answers with it.
	ChainID *uint64 `json:"chainId,omitempty" yaml:"chainId,omitempty"`

	// VerifyURL is the contract verification endpoint for the network.
	VerifyURL string `json:"verifyURL,omitempty" yaml:"verifyURL,omitempty"`
}

// NewNetworkConfig returns a NetworkConfig with the given endpoints and zksync flag.
func NewNetworkConfig(url string, ethNetwork string, zksync bool) *NetworkConfig {
	return &NetworkConfig{
		URL:        url,
		EthNetwork: ethNetwork,
		Zksync:     &zksync,
	}
}

// IsZksync returns the zksync flag, treating an unset flag as false.
func (n *NetworkConfig) IsZksync() bool {
	return n.Zksync != nil && *n.Zksync
}

// IsLocal returns whether the network has no remote endpoint.
func (n *NetworkConfig) IsLocal() bool {
	return n.URL == ""
}

// Validate verifies the network entry declares its zksync flag and that its URLs are well-formed.
func (n *NetworkConfig) Validate() error {
	if n.Zksync == nil {
		return errors.WithStack(ErrMissingZksyncFlag)
	}

	if n.URL != "" {
		if err := validateEndpointURL(n.URL, "http", "https", "ws", "wss"); err != nil {
			return errors.Wrap(err, "url")
		}
		// Deployments to a remote zkSync network go through its base chain, so it must be named.
		if n.IsZksync() && n.EthNetwork == "" {
			return errors.WithStack(ErrMissingEthNetwork)
		}
	}

	if n.EthNetwork != "" {
		if _, known := LookupBaseChain(n.EthNetwork); !known {
			if !looksLikeURL(n.EthNetwork) {
				return errors.Wrapf(ErrUnknownEthNetwork, "'%s' (known base chains: %s)", n.EthNetwork, strings.Join(BaseChainNames(), ", "))
			}
			if err := validateEndpointURL(n.EthNetwork, "http", "https", "ws", "wss"); err != nil {
				return errors.Wrap(err, "ethNetwork")
			}
		}
	}

	if n.VerifyURL != "" {
		if err := validateEndpointURL(n.VerifyURL, "http", "https"); err != nil {
			return errors.Wrap(err, "verifyURL")
		}
	}
	return nil
}

// Resolve returns the network with environment variable references in its URLs expanded.
func (n *NetworkConfig) Resolve(name string, isDefault bool) (*ResolvedNetwork, error) {
	resolved := &ResolvedNetwork{
		Name:      name,
		IsDefault: isDefault,
		Zksync:    n.IsZksync(),
		ChainID:   n.ChainID,
	}

	var err error
	if resolved.URL, err = expandEnvironment(n.URL); err != nil {
		return nil, errors.Wrapf(err, "network '%s' url", name)
	}
	if resolved.VerifyURL, err = expandEnvironment(n.VerifyURL); err != nil {
		return nil, errors.Wrapf(err, "network '%s' verifyURL", name)
	}

	// Known base chain names resolve to their public endpoint, if they have one.
	resolved.EthNetwork = n.EthNetwork
	if chain, known := LookupBaseChain(n.EthNetwork); known {
		resolved.BaseChain = &chain
		resolved.EthNetworkURL = chain.RPCURL
	} else if resolved.EthNetworkURL, err = expandEnvironment(n.EthNetwork); err != nil {
		return nil, errors.Wrapf(err, "network '%s' ethNetwork", name)
	}
	return resolved, nil
}

// Clone returns a deep copy of the NetworkConfig.
func (n *NetworkConfig) Clone() *NetworkConfig {
	if n == nil {
		return nil
	}
	clone := *n
	if n.Zksync != nil {
		zksync := *n.Zksync
		clone.Zksync = &zksync
	}
	if n.ChainID != nil {
		chainID := *n.ChainID
		clone.ChainID = &chainID
	}
	return &clone
}

// ResolvedNetwork is a NetworkConfig ready to be connected to: its name is known and environment variable references
// have been expanded.
type ResolvedNetwork struct {
	// Name is the network's key in the project configuration.
	Name string

	// IsDefault indicates the network is the project's default network.
	IsDefault bool

	// URL is the expanded JSON-RPC endpoint. It is empty for local networks.
	URL string

	// EthNetwork is the base chain as written in the configuration.
	EthNetwork string

	// EthNetworkURL is the JSON-RPC endpoint of the base chain, if one is known.
	EthNetworkURL string

	// BaseChain describes the base chain, if EthNetwork is a known chain name.
	BaseChain *BaseChain

	// Zksync is the network's zksync flag.
	Zksync bool

	// ChainID is the expected chain id of URL, if configured.
	ChainID *uint64

	// VerifyURL is the expanded contract verification endpoint.
	VerifyURL string
}

// IsLocal returns whether the network has no remote endpoint.
func (r *ResolvedNetwork) IsLocal() bool {
	return r.URL == ""
}

// looksLikeURL returns whether s is written as a URL rather than a chain name.
func looksLikeURL(s string) bool {
	return strings.Contains(s, "://")
}

// validateEndpointURL verifies s is an absolute URL with one of the given schemes. Environment variable references are
// replaced with a placeholder first, since they are only expanded when the network is resolved.
func validateEndpointURL(s string, schemes ...string) error {
	placeholder := os.Expand(s, func(string) string { return "placeholder" })
	u, err := url.Parse(placeholder)
	if err != nil {
		return errors.Wrapf(ErrInvalidNetworkURL, "'%s': %v", s, err)
	}
	if u.Host == "" {
		return errors.Wrapf(ErrInvalidNetworkURL, "'%s' has no host", s)
	}
	for _, scheme := range schemes {
		if strings.EqualFold(u.Scheme, scheme) {
			return nil
		}
	}
	return errors.Wrapf(ErrInvalidNetworkURL, "'%s' has unsupported scheme '%s' (options: %s)", s, u.Scheme, strings.Join(schemes, ", "))
}

// expandEnvironment expands ${VAR} and $VAR references in s, failing if any referenced variable is unset.
func expandEnvironment(s string) (string, error) {
	var missing []string
	expanded := os.Expand(s, func(name string) string {
		value, ok := os.LookupEnv(name)
		if !ok {
			missing = append(missing, name)
		}
		return value
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", errors.Wrapf(ErrMissingEnvironmentVariable, "%s", strings.Join(missing, ", "))
	}
	return expanded, nil
}
