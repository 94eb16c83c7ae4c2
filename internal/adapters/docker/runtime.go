package docker

import (
	"context"
	"time"
)

// ContainerState represents the current state of a container
type ContainerState struct {
	Running   bool
	Status    string // running, exited, dead
	ImageID   string
	ImageName string
}

// ContainerConfig holds the desired configuration for a container
type ContainerConfig struct {
	Image   string
	Ports   []string          // -p "80:80"
	Volumes []string          // -v "/host:/container"
	Env     map[string]string // -e KEY=VALUE
	Command string            // trailing command, keeps scenario targets alive
}

// InspectResult is the subset of the inspect JSON shared by docker and
// podman.
type InspectResult struct {
	State struct {
		Running bool
		Status  string
	}
	Config struct {
		Image string
	}
	Image string // ID
}

// ContainerRuntime abstracts the container engine CLI (docker, podman).
type ContainerRuntime interface {
	Name() string

	// Inspect retrieves details about a container.
	// Returns nil, nil if the container does not exist.
	Inspect(ctx context.Context, name string) (*ContainerState, error)

	// Run creates and starts a container (equivalent to 'run -d').
	Run(ctx context.Context, name string, config *ContainerConfig) error

	// Stop stops a running container.
	Stop(ctx context.Context, name string, timeout time.Duration) error

	// Start starts a stopped container.
	Start(ctx context.Context, name string) error

	// Remove removes a container (optionally forcing it).
	Remove(ctx context.Context, name string, force bool) error
}

var _ ContainerRuntime = (*CLIRuntime)(nil)
