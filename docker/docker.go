package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/strslice"
	"github.com/docker/docker/client"
)

// BindMount describes a host directory made visible inside a container.
type BindMount struct {
	HostPath      string
	ContainerPath string
}

// ContainerSpec is the subset of a container definition needed to run the
// one-shot snapshot helper. Everything else is left to the daemon defaults.
type ContainerSpec struct {
	Name       string
	Image      string
	Entrypoint []string
	Cmd        []string
	Mounts     []BindMount
}

// Client wraps the Docker engine API client with the handful of operations
// the snapshot workflow performs on containers.
type Client struct {
	api *client.Client
}

// NewClient connects to the Docker daemon using the standard environment
// configuration (DOCKER_HOST and friends).
func NewClient() (*Client, error) {
	api, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to the docker daemon: %w", err)
	}
	return &Client{api: api}, nil
}

// StopContainer stops a container by name, waiting for the daemon's default
// grace period. Stopping an already stopped container is not an error.
func (c *Client) StopContainer(ctx context.Context, name string) error {
	if err := c.api.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return fmt.Errorf("couldn't stop container %q: %w", name, err)
	}
	return nil
}

// StartContainer starts a container by name. Starting an already running
// container is not an error.
func (c *Client) StartContainer(ctx context.Context, name string) error {
	if err := c.api.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return fmt.Errorf("couldn't start container %q: %w", name, err)
	}
	return nil
}

// CreateContainer creates and starts a container from the given spec, and
// returns its ID.
func (c *Client) CreateContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	mounts := make([]mount.Mount, 0, len(spec.Mounts))
	for _, m := range spec.Mounts {
		mounts = append(mounts, mount.Mount{
			Type:   mount.TypeBind,
			Source: m.HostPath,
			Target: m.ContainerPath,
		})
	}

	created, err := c.api.ContainerCreate(ctx,
		&container.Config{
			Image:      spec.Image,
			Entrypoint: strslice.StrSlice(spec.Entrypoint),
			Cmd:        strslice.StrSlice(spec.Cmd),
		},
		&container.HostConfig{
			Mounts: mounts,
		},
		nil, nil, spec.Name,
	)
	if err != nil {
		return "", fmt.Errorf("couldn't create container %q: %w", spec.Name, err)
	}

	if err := c.api.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("couldn't start container %q: %w", spec.Name, err)
	}

	return created.ID, nil
}

// IsContainerRunning reports whether the named container exists and is
// currently running.
func (c *Client) IsContainerRunning(ctx context.Context, name string) (bool, error) {
	inspected, err := c.api.ContainerInspect(ctx, name)
	if err != nil {
		if client.IsErrNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("couldn't inspect container %q: %w", name, err)
	}
	return inspected.State != nil && inspected.State.Running, nil
}

// RemoveContainer removes a container by name, killing it first if it is
// still running. Removing a container that doesn't exist is not an error.
func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	if err := c.api.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil {
		if client.IsErrNotFound(err) {
			return nil
		}
		return fmt.Errorf("couldn't remove container %q: %w", name, err)
	}
	return nil
}
