package config

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format describes a serialization format for project configuration files.
type Format string

const (
	// FormatJSON describes JSON project configuration files.
	FormatJSON Format = "json"
	// FormatYAML describes YAML project configuration files.
	FormatYAML Format = "yaml"
)

// SupportedFormats lists the configuration formats which can be read and written.
var SupportedFormats = []Format{FormatJSON, FormatYAML}

// ParseFormat parses a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", errors.Errorf("unsupported configuration format '%s' (options: json, yaml)", name)
}

// FormatFromPath determines the configuration format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", errors.Errorf("could not determine configuration format of '%s': file has no extension", path)
	}
	format, err := ParseFormat(strings.TrimPrefix(ext, "."))
	if err != nil {
		return "", errors.Wrapf(err, "could not determine configuration format of '%s'", path)
	}
	return format, nil
}
