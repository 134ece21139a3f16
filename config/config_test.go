package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/crytic/zkconf/compilation"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// defaultJSON is the default project configuration as a user would write it by hand.
const defaultJSON = `{
	"zksolc": {
		"version": "1.3.10",
		"compilerSource": "binary",
		"settings": {}
	},
	"defaultNetwork": "zkSyncTestnet",
	"networks": {
		"hardhat": {
			"zksync": true
		},
		"zkSyncTestnet": {
			"url": "https://testnet.era.zksync.dev",
			"ethNetwork": "goerli",
			"zksync": true
		}
	},
	"solidity": {
		"version": "0.8.17"
	}
}`

// defaultYAML is defaultJSON in YAML form.
const defaultYAML = `zksolc:
  version: 1.3.10
  compilerSource: binary
  settings: {}
defaultNetwork: zkSyncTestnet
networks:
  hardhat:
    zksync: true
  zkSyncTestnet:
    url: https://testnet.era.zksync.dev
    ethNetwork: goerli
    zksync: true
solidity:
  version: 0.8.17
`

// TestDefaultProjectConfig verifies the default configuration is valid and declares the zkSync Era testnet.
func TestDefaultProjectConfig(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()
	require.NoError(t, projectConfig.Validate())

	assert.Equal(t, "zkSyncTestnet", projectConfig.DefaultNetwork)
	assert.Equal(t, []string{"hardhat", "zkSyncTestnet"}, projectConfig.NetworkNames())
	assert.Equal(t, "1.3.10", projectConfig.Zksolc.Version)
	assert.Equal(t, compilation.CompilerSourceBinary, projectConfig.Zksolc.CompilerSource)
	assert.Empty(t, projectConfig.Zksolc.Settings)
	assert.Equal(t, "0.8.17", projectConfig.Solidity.Version)

	for _, name := range projectConfig.NetworkNames() {
		assert.NotNil(t, projectConfig.Networks[name].Zksync, name)
		assert.True(t, projectConfig.Networks[name].IsZksync(), name)
	}
}

// TestParseMatchesDefault verifies the hand-written JSON and YAML documents parse to the default configuration.
func TestParseMatchesDefault(t *testing.T) {
	for format, doc := range map[Format]string{FormatJSON: defaultJSON, FormatYAML: defaultYAML} {
		parsed, err := ParseProjectConfig([]byte(doc), format)
		require.NoError(t, err, format)
		require.NoError(t, parsed.Validate(), format)
		if diff := cmp.Diff(GetDefaultProjectConfig(), parsed); diff != "" {
			t.Errorf("%s: parsed configuration differs from default (-want +got):\n%s", format, diff)
		}
	}
}

// TestParseIsIdempotent verifies that parsing the serialization of a parsed configuration yields the same record.
func TestParseIsIdempotent(t *testing.T) {
	jsonDoc := `{
		"zksolc": {"version": "1.3.10", "settings": {"optimizer": {"enabled": true, "mode": "3", "runs": 200}, "libraries": {}}},
		"defaultNetwork": "local",
		"networks": {
			"local": {"url": "http://127.0.0.1:3050", "ethNetwork": "http://127.0.0.1:8545", "zksync": true, "chainId": 270},
			"l1": {"url": "http://127.0.0.1:8545", "zksync": false}
		},
		"solidity": {"version": "0.8.19"}
	}`
	yamlDoc := yamlSettingsDoc

	tests := []struct {
		name         string
		doc          string
		sourceFormat Format
		formats      []Format
	}{
		{name: "json source", doc: jsonDoc, sourceFormat: FormatJSON, formats: SupportedFormats},
		{name: "yaml source", doc: yamlDoc, sourceFormat: FormatYAML, formats: []Format{FormatYAML}},
	}
	for _, tc := range tests {
		first, err := ParseProjectConfig([]byte(tc.doc), tc.sourceFormat)
		require.NoError(t, err, tc.name)

		for _, format := range tc.formats {
			b, err := first.Marshal(format)
			require.NoError(t, err)
			second, err := ParseProjectConfig(b, format)
			require.NoError(t, err)
			b2, err := second.Marshal(format)
			require.NoError(t, err)

			// The serialized form is stable, and re-parsing it yields an identical record.
			assert.Equal(t, string(b), string(b2), "%s as %s", tc.name, format)
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("%s as %s: re-parsed configuration differs (-first +second):\n%s", tc.name, format, diff)
			}
		}
	}
}

// yamlSettingsDoc is a YAML configuration whose settings mix integers, whole-number floats and lists.
const yamlSettingsDoc = `zksolc:
  version: 1.3.10
  compilerSource: binary
  settings:
    optimizer:
      enabled: true
      runs: 200
      ratio: 1.0
      scale: 2.5
    libraries:
      - name: Math
        address: "0x0000000000000000000000000000000000000001"
    outputSelection:
      1: numeric key
defaultNetwork: hardhat
networks:
  hardhat:
    zksync: true
solidity:
  version: 0.8.17
`

// TestMarshalYAMLKeepsFloats verifies whole-number floats in settings are written as floats.
func TestMarshalYAMLKeepsFloats(t *testing.T) {
	parsed, err := ParseProjectConfig([]byte(yamlSettingsDoc), FormatYAML)
	require.NoError(t, err)
	optimizer := parsed.Zksolc.Settings["optimizer"].(map[string]any)
	assert.Equal(t, 200, optimizer["runs"])
	assert.Equal(t, 1.0, optimizer["ratio"])

	b, err := parsed.Marshal(FormatYAML)
	require.NoError(t, err)
	assert.Contains(t, string(b), "runs: 200\n")
	assert.Contains(t, string(b), "ratio: 1.0\n")
	assert.Contains(t, string(b), "scale: 2.5\n")
}

// TestParseNormalizes verifies omitted optional fields are filled with defaults.
func TestParseNormalizes(t *testing.T) {
	parsed, err := ParseProjectConfig([]byte(`{
		"zksolc": {"version": "1.3.10"},
		"networks": {"hardhat": {"zksync": true}},
		"solidity": {"version": "0.8.17"}
	}`), FormatJSON)
	require.NoError(t, err)
	require.NoError(t, parsed.Validate())

	assert.Equal(t, HardhatNetworkName, parsed.DefaultNetwork)
	assert.Equal(t, compilation.CompilerSourceBinary, parsed.Zksolc.CompilerSource)
	assert.NotNil(t, parsed.Zksolc.Settings)
}

// TestParseRejectsMalformedDocuments verifies unknown keys, trailing data and empty documents are rejected.
func TestParseRejectsMalformedDocuments(t *testing.T) {
	_, err := ParseProjectConfig([]byte(`{"zksolc": {"version": "1.3.10"}, "defaultNetwrok": "hardhat"}`), FormatJSON)
	assert.Error(t, err)

	_, err = ParseProjectConfig([]byte(`{"networks": {"hardhat": {"zksync": true, "zkSync": true}}}`), FormatJSON)
	assert.Error(t, err)

	_, err = ParseProjectConfig([]byte(`{} {}`), FormatJSON)
	assert.Error(t, err)

	_, err = ParseProjectConfig([]byte("defaultNetwrok: hardhat\n"), FormatYAML)
	assert.Error(t, err)

	_, err = ParseProjectConfig([]byte(""), FormatJSON)
	assert.ErrorIs(t, err, ErrEmptyConfig)

	_, err = ParseProjectConfig([]byte(""), FormatYAML)
	assert.ErrorIs(t, err, ErrEmptyConfig)

	_, err = ParseProjectConfig([]byte(defaultJSON), Format("toml"))
	assert.Error(t, err)
}

// TestValidate exercises each validation rule against a mutation of the default configuration.
func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(p *ProjectConfig)
		err    error
	}{
		{"default network is mainnet without a mainnet entry", func(p *ProjectConfig) { p.DefaultNetwork = "mainnet" }, ErrUnknownDefaultNetwork},
		{"no networks", func(p *ProjectConfig) { p.Networks = map[string]*NetworkConfig{} }, ErrNoNetworks},
		{"missing zksync flag", func(p *ProjectConfig) { p.Networks["hardhat"].Zksync = nil }, ErrMissingZksyncFlag},
		{"nil network entry", func(p *ProjectConfig) { p.Networks["hardhat"] = nil }, ErrMissingZksyncFlag},
		{"shorthand zksolc version", func(p *ProjectConfig) { p.Zksolc.Version = "1.3" }, ErrInvalidVersion},
		{"prefixed solidity version", func(p *ProjectConfig) { p.Solidity.Version = "v0.8.17" }, ErrInvalidVersion},
		{"empty solidity version", func(p *ProjectConfig) { p.Solidity.Version = "" }, ErrInvalidVersion},
		{"unsupported solidity version", func(p *ProjectConfig) { p.Solidity.Version = "0.3.6" }, ErrUnsupportedSolidityVersion},
		{"unsupported compiler source", func(p *ProjectConfig) { p.Zksolc.CompilerSource = "source" }, ErrUnsupportedCompilerSource},
		{"url without scheme", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].URL = "testnet.era.zksync.dev" }, ErrInvalidNetworkURL},
		{"url with ftp scheme", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].URL = "ftp://testnet.era.zksync.dev" }, ErrInvalidNetworkURL},
		{"zksync network without eth network", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].EthNetwork = "" }, ErrMissingEthNetwork},
		{"unknown eth network name", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].EthNetwork = "ropsten" }, ErrUnknownEthNetwork},
		{"malformed eth network url", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].EthNetwork = "https://" }, ErrInvalidNetworkURL},
		{"verify url with websocket scheme", func(p *ProjectConfig) { p.Networks["zkSyncTestnet"].VerifyURL = "wss://verify.example" }, ErrInvalidNetworkURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			projectConfig := GetDefaultProjectConfig()
			tc.mutate(projectConfig)
			assert.ErrorIs(t, projectConfig.Validate(), tc.err)
		})
	}
}

// TestValidateAcceptsVariants verifies configurations that differ from the default but are still valid.
func TestValidateAcceptsVariants(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()

	// Non-zksync networks may omit the base chain.
	projectConfig.Networks["l1"] = NewNetworkConfig("http://127.0.0.1:8545", "", false)
	// The base chain may be an RPC URL with an API key taken from the environment.
	projectConfig.Networks["zkSyncTestnet"].EthNetwork = "https://goerli.infura.io/v3/${INFURA_API_KEY}"
	projectConfig.Networks["zkSyncTestnet"].VerifyURL = "https://zksync2-testnet-explorer.zksync.dev/contract_verification"
	projectConfig.Zksolc.CompilerSource = compilation.CompilerSourceDocker
	projectConfig.DefaultNetwork = "l1"

	assert.NoError(t, projectConfig.Validate())
}

// TestNetworkResolution verifies default selection and environment expansion of resolved networks.
func TestNetworkResolution(t *testing.T) {
	projectConfig := GetDefaultProjectConfig()

	resolved, err := projectConfig.Network("")
	require.NoError(t, err)
	assert.Equal(t, "zkSyncTestnet", resolved.Name)
	assert.True(t, resolved.IsDefault)
	assert.True(t, resolved.Zksync)
	assert.Equal(t, DefaultNetworkURL, resolved.URL)
	require.NotNil(t, resolved.BaseChain)
	assert.Equal(t, uint64(5), resolved.BaseChain.ChainID)

	resolved, err = projectConfig.Network("hardhat")
	require.NoError(t, err)
	assert.False(t, resolved.IsDefault)
	assert.True(t, resolved.IsLocal())

	_, err = projectConfig.Network("mainnet")
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	// Environment variable references are expanded, and unset variables are reported.
	projectConfig.Networks["zkSyncTestnet"].EthNetwork = "https://goerli.infura.io/v3/${ZKCONF_TEST_API_KEY}"
	_, err = projectConfig.Network("zkSyncTestnet")
	assert.ErrorIs(t, err, ErrMissingEnvironmentVariable)

	t.Setenv("ZKCONF_TEST_API_KEY", "secret")
	resolved, err = projectConfig.Network("zkSyncTestnet")
	require.NoError(t, err)
	assert.Equal(t, "https://goerli.infura.io/v3/secret", resolved.EthNetworkURL)
	assert.Nil(t, resolved.BaseChain)
}

// TestClone verifies a clone shares no mutable state with the original.
func TestClone(t *testing.T) {
	original := GetDefaultProjectConfig()
	original.Zksolc.Settings["optimizer"] = map[string]any{"enabled": true}
	chainID := uint64(280)
	original.Networks["zkSyncTestnet"].ChainID = &chainID

	clone := original.Clone()
	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone differs (-original +clone):\n%s", diff)
	}

	*clone.Networks["hardhat"].Zksync = false
	*clone.Networks["zkSyncTestnet"].ChainID = 300
	clone.Networks["extra"] = NewNetworkConfig("", "", true)
	clone.Zksolc.Settings["optimizer"].(map[string]any)["enabled"] = false

	assert.True(t, original.Networks["hardhat"].IsZksync())
	assert.Equal(t, uint64(280), *original.Networks["zkSyncTestnet"].ChainID)
	assert.NotContains(t, original.Networks, "extra")
	assert.Equal(t, true, original.Zksolc.Settings["optimizer"].(map[string]any)["enabled"])
}

// TestCloneYAMLSettings verifies a clone of a YAML configuration keeps the decoded setting types.
func TestCloneYAMLSettings(t *testing.T) {
	original, err := ParseProjectConfig([]byte(yamlSettingsDoc), FormatYAML)
	require.NoError(t, err)

	clone := original.Clone()
	if diff := cmp.Diff(original, clone); diff != "" {
		t.Fatalf("clone differs (-original +clone):\n%s", diff)
	}

	clone.Zksolc.Settings["optimizer"].(map[string]any)["runs"] = 1
	clone.Zksolc.Settings["libraries"].([]any)[0].(map[string]any)["name"] = "Other"
	assert.Equal(t, 200, original.Zksolc.Settings["optimizer"].(map[string]any)["runs"])
	assert.Equal(t, "Math", original.Zksolc.Settings["libraries"].([]any)[0].(map[string]any)["name"])

	clone.Zksolc.Settings["outputSelection"].(map[any]any)[1] = "changed"
	assert.Equal(t, "numeric key", original.Zksolc.Settings["outputSelection"].(map[any]any)[1])
}

// TestReadAndWriteFile verifies configurations survive a write and read through each file format.
func TestReadAndWriteFile(t *testing.T) {
	directory := t.TempDir()
	for _, name := range []string{"zkconf.json", "zkconf.yaml", "zkconf.yml"} {
		path := filepath.Join(directory, name)
		require.NoError(t, GetDefaultProjectConfig().WriteToFile(path))

		read, err := ReadProjectConfigFromFile(path)
		require.NoError(t, err, name)
		if diff := cmp.Diff(GetDefaultProjectConfig(), read); diff != "" {
			t.Errorf("%s: read configuration differs (-want +got):\n%s", name, diff)
		}
	}

	// Unknown extensions and missing files are errors.
	assert.Error(t, GetDefaultProjectConfig().WriteToFile(filepath.Join(directory, "zkconf.toml")))
	_, err := ReadProjectConfigFromFile(filepath.Join(directory, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// TestFormatFromPath verifies the configuration format is taken from the file extension.
func TestFormatFromPath(t *testing.T) {
	format, err := FormatFromPath("project/zkconf.JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)

	format, err = FormatFromPath("zkconf.yml")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)

	_, err = FormatFromPath("zkconf")
	assert.Error(t, err)
	_, err = ParseFormat("ini")
	assert.Error(t, err)
}

// TestBaseChains verifies base chain names resolve to their chain ids.
func TestBaseChains(t *testing.T) {
	chain, ok := LookupBaseChain("sepolia")
	require.True(t, ok)
	assert.Equal(t, uint64(11155111), chain.ChainID)

	chain, ok = LookupBaseChain("goerli")
	require.True(t, ok)
	assert.Equal(t, uint64(5), chain.ChainID)
	assert.Empty(t, chain.RPCURL)

	_, ok = LookupBaseChain("ropsten")
	assert.False(t, ok)
	assert.Equal(t, []string{"goerli", "holesky", "localhost", "mainnet", "sepolia"}, BaseChainNames())
}
