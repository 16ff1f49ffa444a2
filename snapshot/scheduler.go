package snapshot

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/rpc"
)

const schedulerNamedLogger = "scheduler"

// snapshotTaker is the part of the executor the scheduler drives.
type snapshotTaker interface {
	Take(ctx context.Context, selector Selector) error
}

// Scheduler decides when a snapshot is due and runs attempts one at a time.
// An unreachable node is routine and the loop carries on, any other failure
// stops the loop for an operator to look at.
type Scheduler struct {
	log *logging.Logger

	probe HeadProvider
	taker snapshotTaker

	mu            sync.Mutex
	checkInterval time.Duration
	frequency     time.Duration
	selector      Selector
	lastAttempt   time.Time
}

func NewScheduler(log *logging.Logger, cfg Config, probe HeadProvider, taker snapshotTaker) *Scheduler {
	return &Scheduler{
		log:           log.Named(schedulerNamedLogger),
		probe:         probe,
		taker:         taker,
		checkInterval: cfg.CheckInterval.Duration,
		frequency:     cfg.Frequency.Duration,
		selector:      cfg.Kind,
	}
}

// Run drives the eligibility loop until ctx is cancelled. Cancellation is
// honoured between iterations only: a started attempt runs to completion,
// so the node is never left stopped by a shutdown.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.Info("Snapshot scheduler started",
		logging.String("kind", s.currentSelector().String()),
		logging.Duration("frequency", s.currentFrequency()),
		logging.Duration("check-interval", s.currentCheckInterval()),
	)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Snapshot scheduler stopped")
			return nil
		default:
		}

		if s.canSnapshot(ctx) {
			// The timestamp is recorded before the attempt, so a slow or
			// failed attempt counts toward pacing too. Retrying a just
			// failed attempt right away would stop the node all over again.
			s.recordAttempt(time.Now())

			if err := s.taker.Take(context.Background(), s.currentSelector()); err != nil {
				if !errors.Is(err, rpc.ErrNodeUnreachable) {
					s.log.Error("The snapshot attempt failed", logging.Error(err))
					return err
				}
				s.log.Warn("The node became unreachable, the attempt will be retried later", logging.Error(err))
			}
		}

		s.sleep(ctx)
	}
}

// ReloadConfig applies the pacing settings of a reloaded configuration.
// Directories, container names and the snapshot kind stay as they were,
// changing those needs a restart.
func (s *Scheduler) ReloadConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkInterval = cfg.CheckInterval.Duration
	s.frequency = cfg.Frequency.Duration

	s.log.Info("Scheduler configuration reloaded",
		logging.Duration("frequency", s.frequency),
		logging.Duration("check-interval", s.checkInterval),
	)
}

// canSnapshot reports whether a new attempt is due: the node answers its
// head query and the last attempt is old enough. An unreachable node always
// means no, a node restarted on a wiped database serves nothing for a while
// and must not be snapshotted.
func (s *Scheduler) canSnapshot(ctx context.Context) bool {
	if _, err := s.probe.GetHeadHeader(ctx); err != nil {
		s.log.Debug("The node is not ready for a snapshot", logging.Error(err))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastAttempt.IsZero() {
		return true
	}
	return time.Since(s.lastAttempt) >= s.frequency
}

func (s *Scheduler) sleep(ctx context.Context) {
	timer := time.NewTimer(s.currentCheckInterval())
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func (s *Scheduler) recordAttempt(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastAttempt = at
}

func (s *Scheduler) currentSelector() Selector {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selector
}

func (s *Scheduler) currentCheckInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checkInterval
}

func (s *Scheduler) currentFrequency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frequency
}
