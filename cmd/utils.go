package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/crytic/zkconf/cmd/exitcodes"
	"github.com/crytic/zkconf/compilation/sources"
	"github.com/crytic/zkconf/config"
	"github.com/crytic/zkconf/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// resolveProjectConfigPath returns the configuration path given by --config, or the first project configuration found
// in the working directory.
func resolveProjectConfigPath(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}

	workingDirectory, err := os.Getwd()
	if err != nil {
		return "", errors.WithStack(err)
	}
	for _, name := range projectConfigFilenames {
		candidate := filepath.Join(workingDirectory, name)
		if utils.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no project configuration found in %s (looked for %s); run 'zkconf init' to create one",
		workingDirectory, strings.Join(projectConfigFilenames, ", "))
}

// loadProjectConfig reads the project configuration and validates it. Validation failures are returned with
// exitcodes.ExitCodeInvalidConfig.
func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, string, error) {
	path, err := resolveProjectConfigPath(cmd)
	if err != nil {
		return nil, "", err
	}
	projectConfig, err := config.ReadProjectConfigFromFile(path)
	if err != nil {
		return nil, path, err
	}
	if err := projectConfig.Validate(); err != nil {
		return nil, path, exitcodes.NewErrorWithExitCode(errors.Wrapf(err, "invalid project configuration '%s'", path), exitcodes.ExitCodeInvalidConfig)
	}
	return projectConfig, path, nil
}

// outputFormat returns the --format flag as a config.Format, falling back to the format of path, then JSON.
func outputFormat(cmd *cobra.Command, path string) (config.Format, error) {
	if cmd.Flags().Changed("format") {
		name, err := cmd.Flags().GetString("format")
		if err != nil {
			return "", err
		}
		return config.ParseFormat(name)
	}
	if path != "" {
		if format, err := config.FormatFromPath(path); err == nil {
			return format, nil
		}
	}
	return config.FormatJSON, nil
}

// chainIDCachePath returns the path of the chain id cache. It lives inside the directory named by the cache directory
// environment variable when set, and next to the zksolc cache otherwise.
func chainIDCachePath() string {
	if dir := os.Getenv(sources.CacheDirectoryEnv); dir != "" {
		return filepath.Join(dir, chainIDCacheFilename)
	}
	return filepath.Join(filepath.Dir(sources.DefaultCacheDirectory()), chainIDCacheFilename)
}
