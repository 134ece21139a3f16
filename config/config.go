package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/crytic/zkconf/compilation"
	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ProjectConfig describes the configuration of a zkSync smart contract project: the pinned compilers and the networks
// contracts are deployed to. It is loaded once and treated as immutable afterwards; callers needing a variant should
// Clone it first.
type ProjectConfig struct {
	// Zksolc describes the pinned zksolc compiler and how it is obtained.
	Zksolc compilation.CompilerConfig `json:"zksolc" yaml:"zksolc"`

	// DefaultNetwork is the name of the network used when none is specified. It must be a key of Networks.
	DefaultNetwork string `json:"defaultNetwork" yaml:"defaultNetwork"`

	// Networks maps network names to their connection parameters.
	Networks map[string]*NetworkConfig `json:"networks" yaml:"networks"`

	// Solidity describes the pinned solc compiler.
	Solidity SolidityConfig `json:"solidity" yaml:"solidity"`
}

// SolidityConfig describes the solc compiler used to compile contract sources.
type SolidityConfig struct {
	// Version is the pinned solc release.
	Version string `json:"version" yaml:"version"`
}

var (
	// ErrNoNetworks is returned when a configuration declares no networks.
	ErrNoNetworks = errors.New("no networks are configured")
	// ErrUnknownDefaultNetwork is returned when the default network is not a key of the network table.
	ErrUnknownDefaultNetwork = errors.New("default network is not configured")
	// ErrUnknownNetwork is returned when a network is requested by a name that is not configured.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrEmptyConfig is returned when a configuration document contains nothing.
	ErrEmptyConfig = errors.New("configuration is empty")
	// ErrInvalidVersion is returned when a compiler version is not a strict MAJOR.MINOR.PATCH release.
	ErrInvalidVersion = utils.ErrInvalidVersion
	// ErrUnsupportedCompilerSource is returned when the compiler source is not registered.
	ErrUnsupportedCompilerSource = compilation.ErrUnsupportedCompilerSource
	// ErrUnsupportedSolidityVersion is returned when the solc release cannot be compiled by zksolc.
	ErrUnsupportedSolidityVersion = compilation.ErrUnsupportedSolidityVersion
)

// ParseProjectConfig decodes a ProjectConfig from data in the given format. Unknown keys are rejected so that typos do
// not silently fall back to defaults. The returned configuration is normalized but not validated.
func ParseProjectConfig(data []byte, format Format) (*ProjectConfig, error) {
	var projectConfig ProjectConfig
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&projectConfig); err != nil {
			if err == io.EOF {
				return nil, errors.WithStack(ErrEmptyConfig)
			}
			return nil, errors.Wrap(err, "could not parse JSON project configuration")
		}
		if decoder.More() {
			return nil, errors.New("could not parse JSON project configuration: unexpected data after the top-level object")
		}
	case FormatYAML:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&projectConfig); err != nil {
			if err == io.EOF {
				return nil, errors.WithStack(ErrEmptyConfig)
			}
			return nil, errors.Wrap(err, "could not parse YAML project configuration")
		}
	default:
		return nil, errors.Errorf("unsupported configuration format '%s'", format)
	}

	projectConfig.Normalize()
	return &projectConfig, nil
}

// ReadProjectConfigFromFile reads a ProjectConfig from the provided path. The format is determined by the file
// extension. The returned configuration is normalized but not validated.
func ReadProjectConfigFromFile(path string) (*ProjectConfig, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	// Read our project configuration file data
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	projectConfig, err := ParseProjectConfig(b, format)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read project configuration '%s'", path)
	}

	logging.GlobalLogger.NewSubLogger("module", logging.CONFIG_SERVICE).Debug("Read project configuration from ", path)
	return projectConfig, nil
}

// Marshal serializes the ProjectConfig in the given format.
func (p *ProjectConfig) Marshal(format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		b, err := json.MarshalIndent(p, "", "\t")
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return append(b, '\n'), nil
	case FormatYAML:
		var buf bytes.Buffer
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(p); err != nil {
			return nil, errors.WithStack(err)
		}
		if err := encoder.Close(); err != nil {
			return nil, errors.WithStack(err)
		}
		return buf.Bytes(), nil
	}
	return nil, errors.Errorf("unsupported configuration format '%s'", format)
}

// WriteToFile writes the ProjectConfig to a provided file path, in the format given by its extension. The file is
// replaced atomically. Returns an error if one occurs.
func (p *ProjectConfig) WriteToFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	b, err := p.Marshal(format)
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(path, b, 0644)
}

// Normalize fills omitted fields with their defaults, so that a configuration serializes the same way every time it is
// loaded.
func (p *ProjectConfig) Normalize() {
	p.Zksolc.Normalize()
	if p.DefaultNetwork == "" {
		p.DefaultNetwork = HardhatNetworkName
	}
	if p.Networks == nil {
		p.Networks = make(map[string]*NetworkConfig)
	}
}

// Validate validates that the ProjectConfig meets certain requirements.
// Returns the first violation found, wrapping one of the package's sentinel errors.
func (p *ProjectConfig) Validate() error {
	// Verify we have networks, and that the default network is one of them.
	if len(p.Networks) == 0 {
		return errors.WithStack(ErrNoNetworks)
	}
	if _, ok := p.Networks[p.DefaultNetwork]; !ok {
		return errors.Wrapf(ErrUnknownDefaultNetwork, "'%s' (configured networks: %v)", p.DefaultNetwork, p.NetworkNames())
	}

	// Verify each network in a stable order so the same configuration always reports the same error.
	for _, name := range p.NetworkNames() {
		network := p.Networks[name]
		if network == nil {
			return errors.Wrapf(ErrMissingZksyncFlag, "network '%s' is empty", name)
		}
		if err := network.Validate(); err != nil {
			return errors.Wrapf(err, "network '%s'", name)
		}
	}

	// Verify the compiler pins.
	if err := p.Zksolc.Validate(); err != nil {
		return errors.Wrap(err, "zksolc")
	}
	if err := compilation.ValidateSolidityVersion(p.Solidity.Version); err != nil {
		return errors.Wrap(err, "solidity")
	}
	return nil
}

// NetworkNames returns the configured network names in sorted order.
func (p *ProjectConfig) NetworkNames() []string {
	names := make([]string, 0, len(p.Networks))
	for name := range p.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Network resolves a configured network by name. An empty name resolves the default network. Environment variable
// references in the network's URLs are expanded.
func (p *ProjectConfig) Network(name string) (*ResolvedNetwork, error) {
	if name == "" {
		name = p.DefaultNetwork
	}
	network, ok := p.Networks[name]
	if !ok || network == nil {
		return nil, errors.Wrapf(ErrUnknownNetwork, "'%s' (configured networks: %v)", name, p.NetworkNames())
	}
	return network.Resolve(name, name == p.DefaultNetwork)
}

// Clone returns a deep copy of the ProjectConfig.
func (p *ProjectConfig) Clone() *ProjectConfig {
	clone := &ProjectConfig{
		Zksolc:         *p.Zksolc.Clone(),
		DefaultNetwork: p.DefaultNetwork,
		Solidity:       p.Solidity,
	}
	if p.Networks != nil {
		clone.Networks = make(map[string]*NetworkConfig, len(p.Networks))
		for name, network := range p.Networks {
			clone.Networks[name] = network.Clone()
		}
	}
	return clone
}
