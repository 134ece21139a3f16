package sources

import "context"

// CompilerLocator describes the interface all zksolc compiler sources must implement. A locator knows how a given
// compiler release is obtained and where it is expected to live once obtained.
type CompilerLocator interface {
	// Source returns the compiler source identifier, as used in the project configuration.
	Source() string

	// Locate resolves where the given zksolc release is found for this source, and whether it is already present.
	Locate(ctx context.Context, version string) (*CompilerLocation, error)
}

// CompilerLocation describes where a pinned zksolc release lives for a given compiler source.
type CompilerLocation struct {
	// Source is the compiler source identifier which produced this location.
	Source string `json:"source"`

	// Version is the zksolc release which was located.
	Version string `json:"version"`

	// Path is the local file path of the compiler binary. It is empty for sources which do not use a local binary.
	Path string `json:"path,omitempty"`

	// Image is the container image reference of the compiler. It is empty for sources which do not use containers.
	Image string `json:"image,omitempty"`

	// DownloadURL is where the release can be fetched from, if it is fetched over HTTP.
	DownloadURL string `json:"downloadUrl,omitempty"`

	// Installed indicates the release is already present locally.
	Installed bool `json:"installed"`

	// InstalledVersion is the version reported by the installed compiler, if it could be queried.
	InstalledVersion string `json:"installedVersion,omitempty"`
}

// VersionMismatch returns true if an installed compiler reported a version other than the pinned one.
func (c *CompilerLocation) VersionMismatch() bool {
	return c.Installed && c.InstalledVersion != "" && c.InstalledVersion != c.Version
}
