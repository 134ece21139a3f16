package utils

import (
	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

// ErrInvalidVersion is returned when a version string is not a strict MAJOR.MINOR.PATCH release.
var ErrInvalidVersion = errors.New("invalid version")

// ParseStrictVersion parses a MAJOR.MINOR.PATCH version string. Unlike semver.NewVersion, shorthand forms such as
// "1.3" and prefixed forms such as "v1.3.10" are rejected, since the compilers only publish full three-part releases.
func ParseStrictVersion(version string) (*semver.Version, error) {
	if version == "" {
		return nil, errors.Wrap(ErrInvalidVersion, "version string is empty")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidVersion, "could not parse version '%s': %v", version, err)
	}
	if v.String() != version {
		return nil, errors.Wrapf(ErrInvalidVersion, "version '%s' is not in MAJOR.MINOR.PATCH form", version)
	}
	return v, nil
}
