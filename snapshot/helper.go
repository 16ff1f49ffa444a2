package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tezedge/tezedge-snapshots/docker"
	vgrand "github.com/tezedge/tezedge-snapshots/libs/rand"
	"github.com/tezedge/tezedge-snapshots/logging"
)

const helperNamedLogger = "helper"

// ErrHelperTimedOut reports a helper container that outlived the configured
// timeout. It is fatal: a helper that never finishes would otherwise keep
// the node stopped forever.
var ErrHelperTimedOut = errors.New("the snapshot helper did not finish in time")

// ExportTask tells the helper where to read the database and where to write
// its export. The host paths are what the docker daemon mounts, they differ
// from the local ones only when this process runs in a container itself.
type ExportTask struct {
	SourcePath          string
	SourceHostPath      string
	DestinationPath     string
	DestinationHostPath string
}

// HelperSupervisor drives the transient container producing a full
// snapshot: a one-shot run of the node image in its snapshot role. The
// helper is a black box, the supervisor only creates it, waits for it to
// exit and removes it.
type HelperSupervisor struct {
	log     *logging.Logger
	runtime ContainerRuntime

	image        string
	network      string
	timeout      time.Duration
	pollInterval time.Duration
}

func NewHelperSupervisor(log *logging.Logger, runtime ContainerRuntime, cfg Config) *HelperSupervisor {
	return &HelperSupervisor{
		log:          log.Named(helperNamedLogger),
		runtime:      runtime,
		image:        cfg.NodeImage,
		network:      cfg.Network,
		timeout:      cfg.HelperTimeout.Duration,
		pollInterval: cfg.HelperPollInterval.Duration,
	}
}

// Run launches a uniquely named helper container for the given task and
// blocks until it exits. The helper container is removed no matter how the
// wait ends, a failed packaging step must not leak containers.
func (s *HelperSupervisor) Run(ctx context.Context, task ExportTask) error {
	name := fmt.Sprintf("tezedge-snapshot-helper-%s", vgrand.RandomStr(8))

	s.log.Info("Running the snapshot helper container",
		logging.String("container", name),
		logging.String("image", s.image),
		logging.String("source", task.SourcePath),
		logging.String("destination", task.DestinationPath),
	)

	_, err := s.runtime.CreateContainer(ctx, docker.ContainerSpec{
		Name:  name,
		Image: s.image,
		Cmd: []string{
			"snapshot",
			"--network", s.network,
			"--source-path", task.SourcePath,
			"--target-path", task.DestinationPath,
		},
		Mounts: []docker.BindMount{
			{HostPath: task.SourceHostPath, ContainerPath: task.SourcePath},
			{HostPath: task.DestinationHostPath, ContainerPath: task.DestinationPath},
		},
	})
	if err != nil {
		return fmt.Errorf("couldn't run the snapshot helper: %w", err)
	}

	defer func() {
		removeCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.runtime.RemoveContainer(removeCtx, name); err != nil {
			s.log.Warn("Couldn't remove the snapshot helper container",
				logging.String("container", name),
				logging.Error(err),
			)
		}
	}()

	return s.waitUntilExited(ctx, name)
}

// waitUntilExited polls the runtime until the helper stops reporting itself
// as running. Cancellation is deliberately left out of the wait, an
// in-flight snapshot attempt runs to completion and only the timeout can
// end it early.
func (s *HelperSupervisor) waitUntilExited(ctx context.Context, name string) error {
	started := time.Now()

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(s.timeout)
	defer deadline.Stop()

	for {
		select {
		case <-deadline.C:
			return fmt.Errorf("%w after %s", ErrHelperTimedOut, s.timeout)
		case <-ticker.C:
			running, err := s.runtime.IsContainerRunning(ctx, name)
			if err != nil {
				return fmt.Errorf("couldn't watch the snapshot helper: %w", err)
			}
			if !running {
				s.log.Info("The snapshot helper finished",
					logging.String("container", name),
					logging.Duration("after", time.Since(started)),
				)
				return nil
			}
		}
	}
}
