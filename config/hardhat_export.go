package config

import (
	"encoding/json"
	"io"
	"strconv"
	"text/template"

	"github.com/pkg/errors"
)

// hardhatConfigTemplate renders a ProjectConfig as a hardhat.config.ts using the zkSync solc and deploy plugins.
var hardhatConfigTemplate = template.Must(template.New("hardhat.config.ts").Funcs(template.FuncMap{
	"quote":    strconv.Quote,
	"settings": renderSettings,
}).Parse(`import { HardhatUserConfig } from "hardhat/config";

import "@matterlabs/hardhat-zksync-deploy";
import "@matterlabs/hardhat-zksync-solc";
{{- if .Verify }}
import "@matterlabs/hardhat-zksync-verify";
{{- end }}

const config: HardhatUserConfig = {
  zksolc: {
    version: {{ quote .Config.Zksolc.Version }},
    compilerSource: {{ quote (printf "%s" .Config.Zksolc.CompilerSource) }},
    settings: {{ settings .Config.Zksolc.Settings }},
  },
  defaultNetwork: {{ quote .Config.DefaultNetwork }},
  networks: {
{{- range .Networks }}
    {{ .Key }}: {
{{- if .Network.URL }}
      url: {{ quote .Network.URL }},
{{- end }}
{{- if .Network.EthNetwork }}
      ethNetwork: {{ quote .Network.EthNetwork }},
{{- end }}
{{- if .Network.ChainID }}
      chainId: {{ .Network.ChainID }},
{{- end }}
{{- if .Network.VerifyURL }}
      verifyURL: {{ quote .Network.VerifyURL }},
{{- end }}
      zksync: {{ .Network.IsZksync }},
    },
{{- end }}
  },
  solidity: {
    version: {{ quote .Config.Solidity.Version }},
  },
};

export default config;
`))

// hardhatNetwork pairs a network with the object key it is rendered under.
type hardhatNetwork struct {
	Key     string
	Network *NetworkConfig
}

// RenderHardhatConfig writes the ProjectConfig as a hardhat.config.ts to w. The configuration is validated first, so
// an invalid configuration is never rendered.
func RenderHardhatConfig(p *ProjectConfig, w io.Writer) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data := struct {
		Config   *ProjectConfig
		Networks []hardhatNetwork
		Verify   bool
	}{Config: p}

	for _, name := range p.NetworkNames() {
		network := p.Networks[name]
		data.Networks = append(data.Networks, hardhatNetwork{Key: objectKey(name), Network: network})
		if network.VerifyURL != "" {
			data.Verify = true
		}
	}

	return errors.WithStack(hardhatConfigTemplate.Execute(w, data))
}

// renderSettings renders compiler settings as an indented TypeScript object literal. JSON is a subset of the object
// literal syntax, so the JSON encoding is used directly.
func renderSettings(settings map[string]any) (string, error) {
	if len(settings) == 0 {
		return "{}", nil
	}
	b, err := json.MarshalIndent(settings, "    ", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(b), nil
}

// objectKey returns name as an object literal key, quoting it when it is not a valid identifier.
func objectKey(name string) string {
	if name == "" {
		return `""`
	}
	for i, r := range name {
		isLetter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !(isDigit && i > 0) {
			return strconv.Quote(name)
		}
	}
	return name
}
