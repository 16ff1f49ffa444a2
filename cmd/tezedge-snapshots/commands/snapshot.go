package commands

import (
	"context"
	"fmt"

	"github.com/tezedge/tezedge-snapshots/config"
	"github.com/tezedge/tezedge-snapshots/docker"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/rpc"
	"github.com/tezedge/tezedge-snapshots/snapshot"

	"github.com/jessevdk/go-flags"
)

type SnapshotCmd struct {
	ctx context.Context

	config.HomeFlag
	config.Config
}

var snapshotCmd SnapshotCmd

func (opts *SnapshotCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	cfg, _, err := loadConfig(logger, opts.Home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.LoggingConfig())
	defer log.AtExit()

	probe, err := rpc.NewClient(cfg.Snapshot.NodeURL)
	if err != nil {
		return fmt.Errorf("couldn't create the node RPC client: %w", err)
	}

	runtime, err := docker.NewClient()
	if err != nil {
		return err
	}

	executor, err := snapshot.NewExecutor(log, cfg.Snapshot, probe, runtime)
	if err != nil {
		return fmt.Errorf("couldn't prepare the snapshot workspace: %w", err)
	}

	return executor.Take(opts.ctx, cfg.Snapshot.Kind)
}

func Snapshot(ctx context.Context, parser *flags.Parser) error {
	snapshotCmd = SnapshotCmd{
		ctx: ctx,
	}

	short := "Takes a single snapshot"
	long := "Take one snapshot of the tezedge node right away, regardless of the configured frequency, and exit"

	_, err := parser.AddCommand("snapshot", short, long, &snapshotCmd)
	return err
}
