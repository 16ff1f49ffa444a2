package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tezedge/tezedge-snapshots/config"
	"github.com/tezedge/tezedge-snapshots/docker"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/metrics"
	"github.com/tezedge/tezedge-snapshots/rpc"
	"github.com/tezedge/tezedge-snapshots/snapshot"
	"github.com/tezedge/tezedge-snapshots/version"

	"github.com/jessevdk/go-flags"
)

type RunCmd struct {
	ctx context.Context

	config.HomeFlag
	config.Config
}

var runCmd RunCmd

func (opts *RunCmd) Execute(_ []string) error {
	logger := logging.NewLoggerFromConfig(logging.NewDefaultConfig())
	defer logger.AtExit()

	cfg, cfgLoader, err := loadConfig(logger, opts.Home)
	if err != nil {
		return err
	}

	log := logging.NewLoggerFromConfig(cfg.LoggingConfig())
	defer log.AtExit()

	log.Info("Starting the tezedge snapshotter",
		logging.String("version", version.Get()),
		logging.String("commit-hash", version.GetCommitHash()),
	)

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

	scheduler := snapshot.NewScheduler(log, cfg.Snapshot, probe, executor)

	metrics.Start(cfg.Metrics)

	ctx, cancel := context.WithCancel(opts.ctx)
	defer cancel()

	// The watcher can only follow a file that exists, a run on pure defaults
	// goes without live reloading.
	if exists, err := cfgLoader.ConfigExists(); err == nil && exists {
		watcher, err := config.NewWatcher(ctx, log, cfgLoader.ConfigFilePath())
		if err != nil {
			return fmt.Errorf("couldn't watch the configuration file: %w", err)
		}
		watcher.OnConfigUpdate(func(c config.Config) {
			log.SetLevel(c.Level.Get())
			scheduler.ReloadConfig(c.Snapshot)
		})
	}

	// Used to retrieve the error from the scheduler in the main thread.
	errCh := make(chan error, 1)
	defer close(errCh)

	schedulerCtx, stopScheduler := context.WithCancel(ctx)

	schedulerStopped := make(chan any)
	go func() {
		if err := scheduler.Run(schedulerCtx); err != nil {
			errCh <- err
		}
		close(schedulerStopped)
	}()

	err = waitUntilInterruption(log, errCh)

	stopScheduler()
	<-schedulerStopped

	return err
}

func Run(ctx context.Context, parser *flags.Parser) error {
	runCmd = RunCmd{
		ctx: ctx,
	}

	short := "Runs the snapshotter"
	long := "Run the tezedge snapshotter until it is interrupted, snapshotting the node every time the configured frequency elapses"

	_, err := parser.AddCommand("run", short, long, &runCmd)
	return err
}

// waitUntilInterruption will wait for a sigterm or sigint interrupt.
func waitUntilInterruption(log *logging.Logger, errChan <-chan error) error {
	gracefulStop := make(chan os.Signal, 1)
	defer func() {
		signal.Stop(gracefulStop)
		close(gracefulStop)
	}()

	signal.Notify(gracefulStop, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	select {
	case sig := <-gracefulStop:
		log.Info("OS signal received", logging.String("signal", fmt.Sprintf("%+v", sig)))
		return nil
	case err := <-errChan:
		log.Error("Initiating shutdown due to an internal error reported by the snapshot scheduler", logging.Error(err))
		return err
	}
}
