package sources

import (
	"context"
	"os/exec"

	"github.com/crytic/zkconf/logging"
	"github.com/crytic/zkconf/utils"
)

const (
	// DockerSourceId is the compiler source identifier for the zksolc container image.
	DockerSourceId = "docker"

	// DefaultDockerImage is the repository of the published zksolc container image.
	DefaultDockerImage = "matterlabs/zksolc"
)

// DockerLocator locates zksolc releases published as container images.
type DockerLocator struct {
	// Image is the image repository, without a tag.
	Image string

	// Command is the container CLI used to inspect local images.
	Command string
}

// NewDockerLocator returns a DockerLocator for the official zksolc image.
func NewDockerLocator() *DockerLocator {
	return &DockerLocator{
		Image:   DefaultDockerImage,
		Command: "docker",
	}
}

// Source returns the compiler source identifier.
func (d *DockerLocator) Source() string {
	return DockerSourceId
}

// ImageReference returns the tagged image reference for a zksolc release.
func (d *DockerLocator) ImageReference(version string) string {
	return d.Image + ":v" + version
}

// Locate resolves the image reference for the zksolc release and checks whether the image has been pulled. If the
// container CLI is unavailable, the image is reported as not installed.
func (d *DockerLocator) Locate(ctx context.Context, version string) (*CompilerLocation, error) {
	if _, err := utils.ParseStrictVersion(version); err != nil {
		return nil, err
	}
	location := &CompilerLocation{
		Source:  DockerSourceId,
		Version: version,
		Image:   d.ImageReference(version),
	}

	logger := logging.GlobalLogger.NewSubLogger("module", logging.COMPILATION_SERVICE)
	if _, err := exec.LookPath(d.Command); err != nil {
		logger.Debug("Container CLI ", d.Command, " is unavailable, cannot inspect ", location.Image)
		return location, nil
	}
	if _, err := utils.RunContextCommand(ctx, d.Command, "image", "inspect", location.Image); err == nil {
		location.Installed = true
		location.InstalledVersion = version
	}
	logger.Debug("Image ", location.Image, " present: ", location.Installed)
	return location, nil
}
