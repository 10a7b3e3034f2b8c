package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/client"
)

// dockerPing probes the Docker daemon and returns its API version.
// Injectable so tests never need a daemon.
type dockerPing func(ctx context.Context) (string, error)

func defaultDockerPing(ctx context.Context) (string, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return "", err
	}
	defer cli.Close()

	pong, err := cli.Ping(ctx)
	if err != nil {
		return "", err
	}
	return pong.APIVersion, nil
}

// DockerCheck verifies the Docker daemon is reachable. A machine without
// Docker is normal, so absence warns rather than fails.
type DockerCheck struct {
	Enabled bool
	ping    dockerPing
}

func (c *DockerCheck) Name() string     { return "docker_daemon" }
func (c *DockerCheck) Category() string { return "CONTAINERS" }

func (c *DockerCheck) Run(ctx context.Context) CheckResult {
	if !c.Enabled {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "container polling disabled",
		}
	}

	ping := c.ping
	if ping == nil {
		ping = defaultDockerPing
	}

	version, err := ping(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "permission denied") {
			return CheckResult{
				Name:       c.Name(),
				Status:     StatusWarn,
				Message:    "docker socket exists but access was denied",
				Suggestion: "Add this user to the docker group, or run vigil as root",
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "docker daemon not reachable",
			Suggestion: "The containers tab will show unavailable until the daemon is running",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("docker daemon up (API %s)", version),
	}
}

func (c *DockerCheck) Fix() error {
	return nil // Starting the daemon is the operator's call
}

// NewContainerChecks creates the container telemetry checks.
func NewContainerChecks(enabled bool) []Check {
	return []Check{
		&DockerCheck{Enabled: enabled},
	}
}
