package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crytic/zkconf/cmd/exitcodes"
	"github.com/crytic/zkconf/config"
	"github.com/crytic/zkconf/utils/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of the command tree to its default so commands can be executed repeatedly.
func resetFlags(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		_ = flag.Value.Set(flag.DefValue)
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// executeCommand runs the root command with the given arguments and stdin, returning what it wrote to stdout and
// stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
	})

	err := Execute()
	return stdout.String(), stderr.String(), err
}

// writeProjectConfig writes a JSON project configuration into dir and returns its path.
func writeProjectConfig(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultProjectConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestInitWritesDefaultConfig verifies init writes a configuration equal to the defaults which validates.
func TestInitWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)

	_, stderr, err := executeCommand(t, "", "init", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Project configuration successfully output to")

	written, err := config.ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultProjectConfig(), written)

	_, stderr, err = executeCommand(t, "", "validate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stderr, "is valid")
}

// TestInitFlagsAndFormat verifies init flags override defaults and --format adjusts the file extension.
func TestInitFlagsAndFormat(t *testing.T) {
	dir := t.TempDir()
	_, _, err := executeCommand(t, "", "init",
		"--out", filepath.Join(dir, DefaultProjectConfigFilename),
		"--format", "yaml",
		"--compiler-version", "1.3.13",
		"--compiler-source", "docker",
		"--solidity-version", "0.8.19",
	)
	require.NoError(t, err)

	path := filepath.Join(dir, "zkconf.yaml")
	assert.NoFileExists(t, filepath.Join(dir, DefaultProjectConfigFilename))
	written, err := config.ReadProjectConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1.3.13", written.Zksolc.Version)
	assert.EqualValues(t, "docker", written.Zksolc.CompilerSource)
	assert.Equal(t, "0.8.19", written.Solidity.Version)
}

// TestInitRejectsInvalidRequest verifies init refuses to write a configuration which would not validate.
func TestInitRejectsInvalidRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)
	_, _, err := executeCommand(t, "", "init", "--out", path, "--default-network", "mainnet")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownDefaultNetwork)
	assert.NoFileExists(t, path)
}

// TestInitOverwritePrompt verifies an existing file is only replaced after confirmation or with --force.
func TestInitOverwritePrompt(t *testing.T) {
	dir := t.TempDir()
	path := writeProjectConfig(t, dir, "existing")

	stdout, _, err := executeCommand(t, "n\n", "init", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Operation canceled.")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(b))

	_, _, err = executeCommand(t, "y\n", "init", "--out", path)
	require.NoError(t, err)
	_, err = config.ReadProjectConfigFromFile(path)
	require.NoError(t, err)

	writeProjectConfig(t, dir, "existing")
	_, _, err = executeCommand(t, "", "init", "--out", path, "--force")
	require.NoError(t, err)
	_, err = config.ReadProjectConfigFromFile(path)
	require.NoError(t, err)
}

// TestValidateInvalidConfig verifies validation failures carry the invalid configuration exit code.
func TestValidateInvalidConfig(t *testing.T) {
	path := writeProjectConfig(t, t.TempDir(), `{
	"zksolc": {"version": "1.3.10", "compilerSource": "binary", "settings": {}},
	"defaultNetwork": "mainnet",
	"networks": {"hardhat": {"zksync": true}},
	"solidity": {"version": "0.8.17"}
}`)

	_, _, err := executeCommand(t, "", "validate", "--config", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownDefaultNetwork)
	_, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
	assert.Equal(t, exitcodes.ExitCodeInvalidConfig, exitCode)
}

// TestValidateFindsConfigInWorkingDirectory verifies the configuration is discovered without --config.
func TestValidateFindsConfigInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	testutils.ExecuteInDirectory(t, dir, func() {
		_, _, err := executeCommand(t, "", "validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no project configuration found")

		_, _, err = executeCommand(t, "", "init")
		require.NoError(t, err)
		_, _, err = executeCommand(t, "", "validate")
		require.NoError(t, err)
	})
}

// TestShowNormalizesConfig verifies show prints the normalized record in the requested format.
func TestShowNormalizesConfig(t *testing.T) {
	path := writeProjectConfig(t, t.TempDir(), `{
	"zksolc": {"version": "1.3.10", "compilerSource": "binary"},
	"defaultNetwork": "hardhat",
	"networks": {"hardhat": {"zksync": true}},
	"solidity": {"version": "0.8.17"}
}`)

	stdout, _, err := executeCommand(t, "", "show", "--config", path)
	require.NoError(t, err)
	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &shown))
	assert.Equal(t, map[string]any{}, shown["zksolc"].(map[string]any)["settings"])

	stdout, _, err = executeCommand(t, "", "show", "--config", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "defaultNetwork: hardhat\n")
}

// TestExportHardhat verifies the hardhat configuration is rendered to stdout or to --out.
func TestExportHardhat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultProjectConfigFilename)
	require.NoError(t, config.GetDefaultProjectConfig().WriteToFile(path))

	stdout, _, err := executeCommand(t, "", "export", "hardhat", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, `import "@matterlabs/hardhat-zksync-solc";`)
	assert.Contains(t, stdout, `defaultNetwork: "zkSyncTestnet"`)

	out := filepath.Join(dir, "hardhat.config.ts")
	_, _, err = executeCommand(t, "", "export", "hardhat", "--config", path, "--out", out)
	require.NoError(t, err)
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, stdout, string(b))
}

// TestNetworksList verifies networks are listed by name with the default marked.
func TestNetworksList(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultProjectConfigFilename)
	require.NoError(t, config.GetDefaultProjectConfig().WriteToFile(path))

	stdout, _, err := executeCommand(t, "", "networks", "list", "--config", path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  hardhat (local) [zksync]", lines[0])
	assert.Equal(t, "* zkSyncTestnet https://testnet.era.zksync.dev on goerli [zksync]", lines[1])
}

// newChainIDServer starts a JSON-RPC endpoint answering eth_chainId and eth_blockNumber.
func newChainIDServer(t *testing.T, chainID uint64) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var request struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		response := map[string]any{"jsonrpc": "2.0", "id": request.ID, "result": "0x10"}
		if request.Method == "eth_chainId" {
			response["result"] = fmt.Sprintf("0x%x", chainID)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)
	return server
}

// TestNetworksCheck verifies endpoint probes are reported and failures carry the probe exit code.
func TestNetworksCheck(t *testing.T) {
	server := newChainIDServer(t, 270)
	dir := t.TempDir()
	path := writeProjectConfig(t, dir, fmt.Sprintf(`{
	"zksolc": {"version": "1.3.10", "compilerSource": "binary", "settings": {}},
	"defaultNetwork": "dockerizedNode",
	"networks": {
		"hardhat": {"zksync": true},
		"dockerizedNode": {"url": %q, "ethNetwork": "goerli", "zksync": true, "chainId": 270}
	},
	"solidity": {"version": "0.8.17"}
}`, server.URL))

	stdout, _, err := executeCommand(t, "", "networks", "check", "--config", path, "--no-cache")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✔ dockerizedNode chain 270 block 16")
	assert.Contains(t, stdout, "- hardhat local network, not contacted")

	writeProjectConfig(t, dir, fmt.Sprintf(`{
	"zksolc": {"version": "1.3.10", "compilerSource": "binary", "settings": {}},
	"defaultNetwork": "dockerizedNode",
	"networks": {
		"dockerizedNode": {"url": %q, "ethNetwork": "goerli", "zksync": true, "chainId": 280}
	},
	"solidity": {"version": "0.8.17"}
}`, server.URL))
	stdout, _, err = executeCommand(t, "", "networks", "check", "--config", path, "--no-cache")
	require.Error(t, err)
	assert.Contains(t, stdout, "✘ dockerizedNode")
	_, exitCode := exitcodes.GetInnerErrorAndExitCode(err)
	assert.Equal(t, exitcodes.ExitCodeProbeFailed, exitCode)
	assert.Contains(t, err.Error(), "1 of 1 network checks failed")
}

// TestCompilerLocate verifies the pinned binary release location is reported.
func TestCompilerLocate(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ZKCONF_CACHE_DIR", filepath.Join(dir, "cache"))
	path := filepath.Join(dir, DefaultProjectConfigFilename)
	require.NoError(t, config.GetDefaultProjectConfig().WriteToFile(path))

	stdout, _, err := executeCommand(t, "", "compiler", "locate", "--config", path, "--json")
	require.NoError(t, err)
	var location map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &location))
	assert.Equal(t, "1.3.10", location["version"])
	assert.Equal(t, false, location["installed"])
}

// TestVersionCommand verifies the version command prints build information.
func TestVersionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "zkconf "))
}

// TestInvalidLogLevel verifies unknown log levels are rejected before a command runs.
func TestInvalidLogLevel(t *testing.T) {
	_, _, err := executeCommand(t, "", "version", "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

// TestLogFileReceivesStructuredLogs verifies --log-file captures JSON log lines.
func TestLogFileReceivesStructuredLogs(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "zkconf.log")
	path := filepath.Join(dir, DefaultProjectConfigFilename)

	_, _, err := executeCommand(t, "", "init", "--out", path, "--log-file", logPath)
	require.NoError(t, err)
	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.Split(bytes.TrimSpace(b), []byte("\n"))[0], &entry))
	assert.Equal(t, "cli", entry["module"])
	assert.Contains(t, entry["message"], "Project configuration successfully output to")
}

// TestNetworksCheckCacheLocation verifies the chain id cache is kept inside the configured cache directory.
func TestNetworksCheckCacheLocation(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "cache")
	t.Setenv("ZKCONF_CACHE_DIR", cacheDir)
	assert.Equal(t, filepath.Join(cacheDir, chainIDCacheFilename), chainIDCachePath())

	server := newChainIDServer(t, 270)
	path := writeProjectConfig(t, t.TempDir(), fmt.Sprintf(`{
	"zksolc": {"version": "1.3.10", "compilerSource": "binary", "settings": {}},
	"defaultNetwork": "dockerizedNode",
	"networks": {
		"dockerizedNode": {"url": %q, "ethNetwork": "goerli", "zksync": true}
	},
	"solidity": {"version": "0.8.17"}
}`, server.URL))

	_, _, err := executeCommand(t, "", "networks", "check", "--config", path)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(cacheDir, chainIDCacheFilename))
}

// TestCompletionCommand verifies shell completion scripts are generated.
func TestCompletionCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "", "completion", "bash")
	require.NoError(t, err)
	assert.NotEmpty(t, stdout)
	assert.Contains(t, stdout, "zkconf")

	_, _, err = executeCommand(t, "", "completion", "tcsh")
	assert.Error(t, err)
}
