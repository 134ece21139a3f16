package sources

import (
	"context"
	"regexp"

	"github.com/Masterminds/semver"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
)

// zksolcVersionRegex matches the release number in `zksolc --version` output, e.g.
// "zksolc, the zkEVM Solidity compiler v1.3.10".
var zksolcVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+`)

// GetZksolcVersion runs the compiler at the provided path with --version and parses the release it reports.
func GetZksolcVersion(ctx context.Context, path string) (*semver.Version, error) {
	out, err := utils.RunContextCommand(ctx, path, "--version")
	if err != nil {
		return nil, errors.Errorf("error while executing zksolc:\nOUTPUT:\n%s\nERROR: %s", string(out), err.Error())
	}
	return ParseZksolcVersionOutput(string(out))
}

// ParseZksolcVersionOutput extracts the release number from `zksolc --version` output.
func ParseZksolcVersionOutput(out string) (*semver.Version, error) {
	versionStr := zksolcVersionRegex.FindString(out)
	if versionStr == "" {
		return nil, errors.New("could not parse zksolc version using 'zksolc --version'")
	}
	return semver.NewVersion(versionStr)
}
