package network

import (
	"context"
	"math/big"
	"sort"
	"time"

	"github.com/crytic/zkconf/config"
	"github.com/crytic/zkconf/logging"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultProbeTimeout bounds each individual network probe.
	DefaultProbeTimeout = 10 * time.Second

	// DefaultProbeParallelism bounds how many networks are probed at once.
	DefaultProbeParallelism = 4
)

var (
	// ErrChainIDMismatch is returned when an endpoint answers with a chain id other than the configured one.
	ErrChainIDMismatch = errors.New("chain id mismatch")
)

// chainClient is the subset of ethclient.Client used to probe an endpoint.
type chainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// dialFunc connects to a JSON-RPC endpoint.
type dialFunc func(ctx context.Context, url string) (chainClient, error)

func dialEthClient(ctx context.Context, url string) (chainClient, error) {
	return ethclient.DialContext(ctx, url)
}

// Prober checks that the networks of a project configuration are reachable and serve the expected chains. It only
// issues read-only eth_chainId and eth_blockNumber calls.
type Prober struct {
	// Timeout bounds each individual network probe.
	Timeout time.Duration

	// Parallelism bounds how many networks are probed at once.
	Parallelism int

	// Cache, if set, records the chain id each endpoint answers with across runs.
	Cache *ChainIDCache

	dial   dialFunc
	logger *logging.Logger
}

// NewProber returns a Prober with default limits and no cache.
func NewProber() *Prober {
	return &Prober{
		Timeout:     DefaultProbeTimeout,
		Parallelism: DefaultProbeParallelism,
		dial:        dialEthClient,
		logger:      logging.GlobalLogger.NewSubLogger("module", logging.NETWORK_SERVICE),
	}
}

// ProbeAll probes every network of the configuration concurrently. Individual failures are reported in each network's
// ProbeResult; an error is only returned if the context ends before all probes complete. Results are sorted by name.
func (p *Prober) ProbeAll(ctx context.Context, projectConfig *config.ProjectConfig) ([]*ProbeResult, error) {
	names := projectConfig.NetworkNames()
	results := make([]*ProbeResult, len(names))

	group, groupCtx := errgroup.WithContext(ctx)
	if p.Parallelism > 0 {
		group.SetLimit(p.Parallelism)
	}
	for i, name := range names {
		group.Go(func() error {
			resolved, err := projectConfig.Network(name)
			if err != nil {
				results[i] = &ProbeResult{Network: name, Err: err}
				return nil
			}
			results[i] = p.Probe(groupCtx, resolved)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return results, errors.WithStack(err)
	}

	sort.Slice(results, func(a, b int) bool { return results[a].Network < results[b].Network })
	return results, nil
}

// Probe checks a single resolved network: its endpoint's chain id and head block, and the base chain it settles to.
func (p *Prober) Probe(ctx context.Context, network *config.ResolvedNetwork) *ProbeResult {
	result := &ProbeResult{
		Network:         network.Name,
		IsDefault:       network.IsDefault,
		URL:             network.URL,
		Local:           network.IsLocal(),
		ExpectedChainID: network.ChainID,
	}
	if result.Local {
		p.logger.Debug("Skipping probe of local network ", network.Name)
		return result
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := time.Now()
	chainID, blockNumber, err := p.queryEndpoint(ctx, network.URL, true)
	result.Latency = time.Since(start)
	if err != nil {
		result.Err = errors.Wrapf(err, "network '%s'", network.Name)
		return result
	}
	result.ChainID = chainID
	result.BlockNumber = blockNumber

	if network.ChainID != nil && *network.ChainID != chainID {
		result.Err = errors.Wrapf(ErrChainIDMismatch, "network '%s' answered with chain id %d, expected %d", network.Name, chainID, *network.ChainID)
	}

	if p.Cache != nil {
		previous, found, err := p.Cache.Observe(network.URL, chainID)
		if err != nil {
			p.logger.Warn("Failed to record the chain id of network ", network.Name, err)
		} else if found && previous != chainID {
			result.PreviousChainID = previous
			result.ChainIDChanged = true
		}
	}

	if network.EthNetwork != "" {
		result.BaseChain = p.probeBaseChain(ctx, network)
		if result.Err == nil && result.BaseChain.Err != nil {
			result.Err = errors.Wrapf(result.BaseChain.Err, "network '%s' base chain", network.Name)
		}
	}

	p.logger.Debug("Probed network ", network.Name, logging.StructuredLogInfo{"chainId": chainID, "blockNumber": blockNumber, "latency": result.Latency.String()})
	return result
}

// probeBaseChain checks the base chain of a network. Known chain names without a public endpoint are reported without
// being contacted.
func (p *Prober) probeBaseChain(ctx context.Context, network *config.ResolvedNetwork) *BaseChainResult {
	result := &BaseChainResult{
		Name: network.EthNetwork,
		URL:  network.EthNetworkURL,
	}
	if network.BaseChain != nil {
		expected := network.BaseChain.ChainID
		result.ExpectedChainID = &expected
	}
	if result.URL == "" {
		return result
	}

	chainID, _, err := p.queryEndpoint(ctx, result.URL, false)
	if err != nil {
		result.Err = err
		return result
	}
	result.ChainID = chainID
	if result.ExpectedChainID != nil && *result.ExpectedChainID != chainID {
		result.Err = errors.Wrapf(ErrChainIDMismatch, "base chain '%s' answered with chain id %d, expected %d", network.EthNetwork, chainID, *result.ExpectedChainID)
	}
	return result
}

// queryEndpoint dials an endpoint and reads its chain id and, optionally, its head block number.
func (p *Prober) queryEndpoint(ctx context.Context, url string, withBlockNumber bool) (uint64, uint64, error) {
	dial := p.dial
	if dial == nil {
		dial = dialEthClient
	}
	client, err := dial(ctx, url)
	if err != nil {
		return 0, 0, errors.Wrap(err, "could not connect")
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, 0, errors.Wrap(err, "could not query chain id")
	}
	if !chainID.IsUint64() {
		return 0, 0, errors.Errorf("chain id %s is out of range", chainID)
	}

	var blockNumber uint64
	if withBlockNumber {
		if blockNumber, err = client.BlockNumber(ctx); err != nil {
			return 0, 0, errors.Wrap(err, "could not query block number")
		}
	}
	return chainID.Uint64(), blockNumber, nil
}
