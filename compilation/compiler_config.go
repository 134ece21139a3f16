package compilation

import (
	"context"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/zkconf/compilation/sources"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
)

// CompilerSource selects how the zksolc compiler is obtained.
type CompilerSource string

const (
	// CompilerSourceBinary uses a prebuilt release binary downloaded from the zksolc-bin repository.
	CompilerSourceBinary CompilerSource = sources.BinarySourceId
	// CompilerSourceDocker uses the zksolc container image.
	CompilerSourceDocker CompilerSource = sources.DockerSourceId
)

// DefaultCompilerSource is the compiler source used when none is configured.
const DefaultCompilerSource = CompilerSourceBinary

// DefaultZksolcVersion is the zksolc release pinned by new project configurations.
const DefaultZksolcVersion = "1.3.10"

// DefaultSolidityVersion is the solc release pinned by new project configurations.
const DefaultSolidityVersion = "0.8.17"

// supportedSolidityRange is the range of solc releases zksolc can compile.
const supportedSolidityRange = ">=0.4.12, <0.9.0"

var (
	// ErrUnsupportedCompilerSource is returned when a compiler source has no registered locator.
	ErrUnsupportedCompilerSource = errors.New("unsupported compiler source")
	// ErrUnsupportedSolidityVersion is returned when a solc release is outside the range zksolc can compile.
	ErrUnsupportedSolidityVersion = errors.New("unsupported solidity version")
)

// CompilerConfig describes the zksolc compiler pinned by a project.
type CompilerConfig struct {
	// Version is the pinned zksolc release.
	Version string `json:"version" yaml:"version"`

	// CompilerSource describes how the compiler is obtained.
	CompilerSource CompilerSource `json:"compilerSource" yaml:"compilerSource"`

	// Settings describes compiler options which are passed through to zksolc untouched.
	Settings map[string]any `json:"settings" yaml:"settings"`
}

// NewCompilerConfig returns a CompilerConfig for the given release and source with empty settings.
func NewCompilerConfig(version string, source CompilerSource) *CompilerConfig {
	return &CompilerConfig{
		Version:        version,
		CompilerSource: source,
		Settings:       map[string]any{},
	}
}

// Normalize fills omitted fields so that re-serialization of the configuration is stable.
func (c *CompilerConfig) Normalize() {
	if c.CompilerSource == "" {
		c.CompilerSource = DefaultCompilerSource
	}
	if c.Settings == nil {
		c.Settings = map[string]any{}
	}
}

// Validate verifies the pinned release is a strict version and the compiler source is supported.
func (c *CompilerConfig) Validate() error {
	if _, err := utils.ParseStrictVersion(c.Version); err != nil {
		return errors.Wrap(err, "invalid zksolc version")
	}
	if !IsSupportedCompilerSource(c.CompilerSource) {
		return errors.Wrapf(ErrUnsupportedCompilerSource, "'%s' (options: %s)", c.CompilerSource, strings.Join(GetSupportedCompilerSources(), ", "))
	}
	return nil
}

// Locate resolves where the pinned compiler is obtained for the configured source.
func (c *CompilerConfig) Locate(ctx context.Context) (*sources.CompilerLocation, error) {
	locator, err := GetCompilerLocator(c.CompilerSource)
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedCompilerSource, err.Error())
	}
	return locator.Locate(ctx, c.Version)
}

// Clone returns a deep copy of the CompilerConfig.
func (c *CompilerConfig) Clone() *CompilerConfig {
	clone := &CompilerConfig{
		Version:        c.Version,
		CompilerSource: c.CompilerSource,
	}
	if c.Settings != nil {
		clone.Settings = copySettingsValue(c.Settings).(map[string]any)
	}
	return clone
}

// SupportsSolidityVersion returns whether zksolc can compile sources for the given solc release.
func SupportsSolidityVersion(version *semver.Version) bool {
	constraint, err := semver.NewConstraint(supportedSolidityRange)
	if err != nil {
		panic(errors.Wrap(err, "invalid supported solidity range"))
	}
	return constraint.Check(version)
}

// ValidateSolidityVersion verifies a solc release is a strict version that zksolc can compile.
func ValidateSolidityVersion(version string) error {
	v, err := utils.ParseStrictVersion(version)
	if err != nil {
		return errors.Wrap(err, "invalid solidity version")
	}
	if !SupportsSolidityVersion(v) {
		return errors.Wrapf(ErrUnsupportedSolidityVersion, "'%s' is outside the range zksolc supports (%s)", version, supportedSolidityRange)
	}
	return nil
}
