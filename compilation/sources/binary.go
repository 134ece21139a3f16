package sources

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
)

const (
	// BinarySourceId is the compiler source identifier for prebuilt zksolc release binaries.
	BinarySourceId = "binary"

	// DefaultBinaryBaseURL is the root of the repository where zksolc release binaries are published.
	DefaultBinaryBaseURL = "https://github.com/matter-labs/zksolc-bin/raw/main"

	// CacheDirectoryEnv overrides the directory where compiler binaries are cached.
	CacheDirectoryEnv = "ZKCONF_CACHE_DIR"
)

// BinaryLocator locates prebuilt zksolc release binaries, as downloaded from the zksolc-bin repository.
type BinaryLocator struct {
	// CacheDirectory is the directory where downloaded binaries are stored.
	CacheDirectory string

	// BaseURL is the root URL from which release binaries are downloaded.
	BaseURL string

	// GOOS and GOARCH select the release platform. They default to the running platform.
	GOOS   string
	GOARCH string
}

// NewBinaryLocator returns a BinaryLocator for the running platform, caching under the user cache directory.
func NewBinaryLocator() *BinaryLocator {
	return &BinaryLocator{
		CacheDirectory: DefaultCacheDirectory(),
		BaseURL:        DefaultBinaryBaseURL,
		GOOS:           runtime.GOOS,
		GOARCH:         runtime.GOARCH,
	}
}

// DefaultCacheDirectory returns the zksolc cache directory, honoring CacheDirectoryEnv.
func DefaultCacheDirectory() string {
	if dir := os.Getenv(CacheDirectoryEnv); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "zkconf", "zksolc")
}

// Source returns the compiler source identifier.
func (b *BinaryLocator) Source() string {
	return BinarySourceId
}

// ReleasePlatform returns the release directory and file name published for a zksolc version on the locator's platform.
func (b *BinaryLocator) ReleasePlatform(version string) (string, string, error) {
	switch {
	case b.GOOS == "linux" && (b.GOARCH == "amd64" || b.GOARCH == "arm64"):
		dir := "linux-" + b.GOARCH
		return dir, fmt.Sprintf("zksolc-%s-musl-v%s", dir, version), nil
	case b.GOOS == "darwin" && (b.GOARCH == "amd64" || b.GOARCH == "arm64"):
		dir := "macosx-" + b.GOARCH
		return dir, fmt.Sprintf("zksolc-%s-v%s", dir, version), nil
	case b.GOOS == "windows" && b.GOARCH == "amd64":
		dir := "windows-amd64"
		return dir, fmt.Sprintf("zksolc-%s-gnu-v%s.exe", dir, version), nil
	}
	return "", "", errors.Errorf("zksolc release binaries are not published for %s/%s", b.GOOS, b.GOARCH)
}

// Locate resolves the cache path and download URL of the zksolc release. If the binary exists, it is queried for the
// version it reports.
func (b *BinaryLocator) Locate(ctx context.Context, version string) (*CompilerLocation, error) {
	if _, err := utils.ParseStrictVersion(version); err != nil {
		return nil, err
	}
	dir, file, err := b.ReleasePlatform(version)
	if err != nil {
		return nil, err
	}

	location := &CompilerLocation{
		Source:      BinarySourceId,
		Version:     version,
		Path:        filepath.Join(b.CacheDirectory, file),
		DownloadURL: fmt.Sprintf("%s/%s/%s", b.BaseURL, dir, file),
	}

	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)
	if !utils.FileExists(location.Path) {
		logger.Debug("zksolc ", version, " is not installed at ", location.Path)
		return location, nil
	}
	location.Installed = true

	// A binary that cannot report its version is still considered installed; the mismatch check simply cannot run.
	if v, err := GetZksolcVersion(ctx, location.Path); err == nil {
		location.InstalledVersion = v.String()
	} else {
		logger.Debug("Could not query the version of ", location.Path, err)
	}
	logger.Debug("zksolc ", version, " is installed at ", location.Path)
	return location, nil
}
