package snapshot

import (
	"context"

	"github.com/tezedge/tezedge-snapshots/docker"
	"github.com/tezedge/tezedge-snapshots/rpc"
)

// ContainerRuntime is the part of the container runtime the snapshot engine
// drives: the node, its monitoring companion and the transient helper.
type ContainerRuntime interface {
	StopContainer(ctx context.Context, name string) error
	StartContainer(ctx context.Context, name string) error
	CreateContainer(ctx context.Context, spec docker.ContainerSpec) (string, error)
	IsContainerRunning(ctx context.Context, name string) (bool, error)
	RemoveContainer(ctx context.Context, name string) error
}

// HeadProvider reports the node's current head block.
type HeadProvider interface {
	GetHeadHeader(ctx context.Context) (*rpc.HeadHeader, error)
}
