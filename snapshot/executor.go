package snapshot

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	vgfs "github.com/tezedge/tezedge-snapshots/libs/fs"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/metrics"
)

const executorNamedLogger = "executor"

// Executor runs one snapshot attempt end to end: stop the node, produce the
// requested artefacts, restart the node. At most one attempt is ever in
// flight, the scheduler invokes it sequentially.
type Executor struct {
	log *logging.Logger
	cfg Config

	probe      HeadProvider
	controller *NodeController
	retention  *RetentionManager
	staging    *StagingArea
	helper     *HelperSupervisor
}

func NewExecutor(log *logging.Logger, cfg Config, probe HeadProvider, runtime ContainerRuntime) (*Executor, error) {
	e := &Executor{
		log:        log.Named(executorNamedLogger),
		cfg:        cfg,
		probe:      probe,
		controller: NewNodeController(log, runtime, probe, cfg.NodeContainerName, cfg.MonitoringContainerName),
		retention:  NewRetentionManager(log, cfg.Capacity),
		staging:    NewStagingArea(log),
		helper:     NewHelperSupervisor(log, runtime, cfg),
	}

	if err := e.prepareLayout(); err != nil {
		return nil, err
	}
	return e, nil
}

// prepareLayout creates the kind directories and clears whatever a previous
// run left behind. Nothing can be in flight at construction time, so stale
// staging entries and scratch content are safe to remove.
func (e *Executor) prepareLayout() error {
	for _, dir := range []string{e.archiveDir(), e.fullDir(), e.cfg.ScratchDirectory} {
		if err := vgfs.EnsureDir(dir); err != nil {
			return fmt.Errorf("couldn't create directory %q: %w", dir, err)
		}
	}

	for _, kindDir := range []string{e.archiveDir(), e.fullDir()} {
		if err := e.retention.SweepStaleStaging(kindDir); err != nil {
			return err
		}
	}

	if err := vgfs.RemoveAllFromDirectoryIfExists(e.cfg.ScratchDirectory); err != nil {
		return fmt.Errorf("couldn't clear the scratch directory %q: %w", e.cfg.ScratchDirectory, err)
	}
	return nil
}

// Take runs one snapshot attempt for the given selector. The node is
// restarted on success and failure alike, only a failed stop leaves it
// untouched. A restart failure does not mask the failure that preceded it.
func (e *Executor) Take(ctx context.Context, selector Selector) error {
	head, err := e.probe.GetHeadHeader(ctx)
	if err != nil {
		return err
	}

	identity := NewIdentity(e.cfg.Network, head.Hash, time.Now())
	observe := metrics.StartSnapshotAttempt(selector.String())

	e.log.Info("Taking a snapshot",
		logging.String("kind", selector.String()),
		logging.String("head", head.Hash),
		logging.Int64("level", head.Level),
	)

	e.log.Info("Stopping the tezedge containers")
	if err := e.controller.Stop(ctx); err != nil {
		observe(metrics.OutcomeFailure)
		return err
	}

	produceErr := e.produceArtefacts(ctx, identity, selector)

	e.log.Info("Starting the tezedge containers back up")
	startErr := e.controller.Start(ctx)
	if startErr != nil {
		startErr = fmt.Errorf("couldn't restart the node after the attempt: %w", startErr)
	}

	if err := errors.Join(produceErr, startErr); err != nil {
		observe(metrics.OutcomeFailure)
		return err
	}

	observe(metrics.OutcomeSuccess)
	e.log.Info("Snapshot attempt finished", logging.String("head", head.Hash))
	return nil
}

func (e *Executor) produceArtefacts(ctx context.Context, id Identity, selector Selector) error {
	switch selector {
	case SelectorArchive:
		stagingDir, err := e.produceArchive(id)
		if len(stagingDir) != 0 {
			e.staging.Discard(stagingDir)
		}
		return err
	case SelectorFull:
		return e.produceFull(ctx, id, e.cfg.DatabaseDirectory, e.cfg.HostDatabasePath())
	case SelectorAll:
		stagingDir, err := e.produceArchive(id)
		if err != nil {
			if len(stagingDir) != 0 {
				e.staging.Discard(stagingDir)
			}
			return err
		}
		defer e.staging.Discard(stagingDir)
		// The full export reads the already purged archive tree instead of
		// the live database, so the live database is read only once per
		// attempt.
		return e.produceFull(ctx, id, stagingDir, stagingDir)
	default:
		return fmt.Errorf("unsupported snapshot kind %q", selector)
	}
}

// produceArchive stages a copy of the database on the scratch directory,
// packages it under the archive kind directory and promotes it. The staged
// tree is returned so an all-kind attempt can reuse it as the full export's
// source, and so failure paths can discard it.
func (e *Executor) produceArchive(id Identity) (string, error) {
	archiveDir := e.archiveDir()

	e.log.Info("Checking the archive retention capacity")
	if err := e.retention.EvictOldestIfAtCapacity(archiveDir); err != nil {
		return "", err
	}

	e.log.Info("Extracting the node database", logging.String("database", e.cfg.DatabaseDirectory))
	stagingDir, err := e.staging.Begin(e.cfg.ScratchDirectory, id.TempName(KindArchive))
	if err != nil {
		return "", err
	}
	if err := e.staging.Extract(stagingDir, e.cfg.DatabaseDirectory); err != nil {
		return stagingDir, err
	}

	e.log.Info("Removing transient files from the extracted database")
	if err := e.staging.PurgeTransientFiles(stagingDir); err != nil {
		return stagingDir, err
	}

	e.log.Info("Packaging the archive snapshot", logging.String("snapshot", id.Name(KindArchive)))
	archivePath := filepath.Join(archiveDir, id.TempName(KindArchive))
	if err := e.staging.Package(stagingDir, archivePath, id.Name(KindArchive)); err != nil {
		e.staging.Discard(archivePath)
		return stagingDir, err
	}

	if _, err := e.staging.Promote(archivePath); err != nil {
		e.staging.Discard(archivePath)
		return stagingDir, err
	}

	e.updateKeptMetric(KindArchive, archiveDir)
	return stagingDir, nil
}

// produceFull has the helper write its export under the full kind directory
// and packages the export in place. The staged file and its final name
// share a parent directory, so promotion stays a single atomic rename.
func (e *Executor) produceFull(ctx context.Context, id Identity, sourceDir, sourceHostDir string) error {
	fullDir := e.fullDir()

	e.log.Info("Checking the full retention capacity")
	if err := e.retention.EvictOldestIfAtCapacity(fullDir); err != nil {
		return err
	}

	exportName := id.Name(KindFull) + ".export" + tempSuffix
	exportDir, err := e.staging.Begin(fullDir, exportName)
	if err != nil {
		return err
	}
	defer e.staging.Discard(exportDir)

	err = e.helper.Run(ctx, ExportTask{
		SourcePath:          sourceDir,
		SourceHostPath:      sourceHostDir,
		DestinationPath:     exportDir,
		DestinationHostPath: filepath.Join(e.cfg.HostTargetPath(), string(KindFull), exportName),
	})
	if err != nil {
		return err
	}

	e.log.Info("Packaging the full snapshot", logging.String("snapshot", id.Name(KindFull)))
	archivePath := filepath.Join(fullDir, id.TempName(KindFull))
	if err := e.staging.Package(exportDir, archivePath, id.Name(KindFull)); err != nil {
		e.staging.Discard(archivePath)
		return err
	}

	if _, err := e.staging.Promote(archivePath); err != nil {
		e.staging.Discard(archivePath)
		return err
	}

	e.updateKeptMetric(KindFull, fullDir)
	return nil
}

func (e *Executor) updateKeptMetric(kind Kind, kindDir string) {
	count, err := e.retention.CountPromoted(kindDir)
	if err != nil {
		e.log.Debug("Couldn't count the promoted snapshots", logging.Error(err))
		return
	}
	metrics.SnapshotsKeptSet(string(kind), count)
}

func (e *Executor) archiveDir() string {
	return filepath.Join(e.cfg.TargetDirectory, string(KindArchive))
}

func (e *Executor) fullDir() string {
	return filepath.Join(e.cfg.TargetDirectory, string(KindFull))
}
