// Package version reports the zkconf release along with the VCS metadata Go embeds at build time.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// These variables can be set via ldflags at build time, e.g. -X github.com/crytic/zkconf/version.Version=0.2.0.
// The VCS fields are populated from the build info when left empty.
var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// GitCommit is the git commit hash.
	GitCommit = ""
	// GitCommitTime is the timestamp of the git commit.
	GitCommitTime = ""
	// GitTreeDirty indicates if the git tree was dirty at build time.
	GitTreeDirty = ""
)

// Info contains the full version information for the build.
type Info struct {
	Version       string `json:"version"`
	GitCommit     string `json:"gitCommit,omitempty"`
	GitCommitTime string `json:"gitCommitTime,omitempty"`
	GitTreeDirty  bool   `json:"gitTreeDirty"`
	GoVersion     string `json:"goVersion"`
}

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	applyBuildSettings(info.Settings)
}

// applyBuildSettings fills the VCS variables that were not set through ldflags.
func applyBuildSettings(settings []debug.BuildSetting) {
	for _, kv := range settings {
		switch kv.Key {
		case "vcs.revision":
			if GitCommit == "" {
				GitCommit = kv.Value
			}
		case "vcs.time":
			if GitCommitTime == "" {
				GitCommitTime = kv.Value
			}
		case "vcs.modified":
			if GitTreeDirty == "" {
				GitTreeDirty = kv.Value
			}
		}
	}
}

// GetInfo returns the complete version information.
func GetInfo() Info {
	return Info{
		Version:       Version,
		GitCommit:     GitCommit,
		GitCommitTime: GitCommitTime,
		GitTreeDirty:  GitTreeDirty == "true",
		GoVersion:     runtime.Version(),
	}
}

// ShortCommit returns the first 7 characters of the git commit hash.
func (i Info) ShortCommit() string {
	if len(i.GitCommit) >= 7 {
		return i.GitCommit[:7]
	}
	return i.GitCommit
}

// FormattedTime returns the commit time in a human-readable format.
func (i Info) FormattedTime() string {
	if i.GitCommitTime == "" {
		return "unknown"
	}
	t, err := time.Parse(time.RFC3339, i.GitCommitTime)
	if err != nil {
		return i.GitCommitTime
	}
	return t.UTC().Format("2006-01-02 15:04:05 MST")
}

// String returns a formatted multi-line version string.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "zkconf %s\n", i.Version)

	if i.GitCommit != "" {
		commit := i.ShortCommit()
		if i.GitTreeDirty {
			commit += "-dirty"
		}
		fmt.Fprintf(&sb, "  commit:     %s\n", commit)
	}
	if i.GitCommitTime != "" {
		fmt.Fprintf(&sb, "  built:      %s\n", i.FormattedTime())
	}
	fmt.Fprintf(&sb, "  go version: %s\n", i.GoVersion)
	fmt.Fprintf(&sb, "  platform:   %s/%s\n", runtime.GOOS, runtime.GOARCH)
	return sb.String()
}

// Short returns a single-line version string suitable for --version output.
func (i Info) Short() string {
	v := i.Version
	if i.GitCommit != "" {
		v += "+" + i.ShortCommit()
		if i.GitTreeDirty {
			v += "-dirty"
		}
	}
	return v
}
