package snapshot_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/tezedge/tezedge-snapshots/config/encoding"
	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/rpc"
	"github.com/tezedge/tezedge-snapshots/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler(t *testing.T) {
	t.Run("A reachable node triggers an attempt", testAReachableNodeTriggersAnAttempt)
	t.Run("An unreachable node never triggers an attempt", testAnUnreachableNodeNeverTriggersAnAttempt)
	t.Run("Attempts are paced by the frequency", testAttemptsArePacedByTheFrequency)
	t.Run("An attempt against a node that became unreachable is retried later", testAnAttemptAgainstANodeThatBecameUnreachableIsRetriedLater)
	t.Run("Any other attempt failure stops the loop", testAnyOtherAttemptFailureStopsTheLoop)
	t.Run("Shutting down cuts a pending sleep short", testShuttingDownCutsAPendingSleepShort)
}

type takerStub struct {
	mu        sync.Mutex
	err       error
	calls     int
	selectors []snapshot.Selector
}

func (s *takerStub) Take(_ context.Context, selector snapshot.Selector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.selectors = append(s.selectors, selector)
	return s.err
}

func (s *takerStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newSchedulerTestConfig(frequency, checkInterval time.Duration) snapshot.Config {
	cfg := snapshot.NewDefaultConfig()
	cfg.Frequency = encoding.Duration{Duration: frequency}
	cfg.CheckInterval = encoding.Duration{Duration: checkInterval}
	return cfg
}

func startScheduler(t *testing.T, scheduler *snapshot.Scheduler) (stop func() error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	return func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("the scheduler did not stop in time")
			return nil
		}
	}
}

func testAReachableNodeTriggersAnAttempt(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	taker := &takerStub{}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(time.Hour, 2*time.Millisecond), head, taker)

	// when
	stop := startScheduler(t, scheduler)

	// then
	assert.Eventually(t, func() bool { return taker.callCount() == 1 }, time.Second, time.Millisecond)
	require.NoError(t, stop())
	assert.Equal(t, []snapshot.Selector{snapshot.SelectorArchive}, taker.selectors)
}

func testAnUnreachableNodeNeverTriggersAnAttempt(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	head.setErr(rpc.ErrNodeUnreachable)
	taker := &takerStub{}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(time.Hour, 2*time.Millisecond), head, taker)

	// when
	stop := startScheduler(t, scheduler)

	// then
	assert.Eventually(t, func() bool { return head.callCount() >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, stop())
	assert.Zero(t, taker.callCount())
}

func testAttemptsArePacedByTheFrequency(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	taker := &takerStub{}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(150*time.Millisecond, 2*time.Millisecond), head, taker)

	// when
	stop := startScheduler(t, scheduler)

	// then
	assert.Eventually(t, func() bool { return taker.callCount() == 1 }, time.Second, time.Millisecond)
	assert.Never(t, func() bool { return taker.callCount() > 1 }, 50*time.Millisecond, time.Millisecond)
	assert.Eventually(t, func() bool { return taker.callCount() == 2 }, time.Second, time.Millisecond)
	require.NoError(t, stop())
}

func testAnAttemptAgainstANodeThatBecameUnreachableIsRetriedLater(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	taker := &takerStub{err: rpc.ErrNodeUnreachable}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(10*time.Millisecond, 2*time.Millisecond), head, taker)

	// when
	stop := startScheduler(t, scheduler)

	// then
	assert.Eventually(t, func() bool { return taker.callCount() >= 2 }, time.Second, time.Millisecond)
	require.NoError(t, stop())
}

func testAnyOtherAttemptFailureStopsTheLoop(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	taker := &takerStub{err: errors.New("the disk is full")}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(10*time.Millisecond, 2*time.Millisecond), head, taker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// when
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	// then
	select {
	case err := <-done:
		require.ErrorContains(t, err, "the disk is full")
	case <-time.After(5 * time.Second):
		t.Fatal("the scheduler did not stop on a fatal attempt failure")
	}
	assert.Equal(t, 1, taker.callCount())
}

func testShuttingDownCutsAPendingSleepShort(t *testing.T) {
	// given
	head := newHeadStub("BK1")
	head.setErr(rpc.ErrNodeUnreachable)
	taker := &takerStub{}
	scheduler := snapshot.NewScheduler(logging.NewTestLogger(), newSchedulerTestConfig(time.Hour, time.Hour), head, taker)

	// when
	stop := startScheduler(t, scheduler)

	// then
	stopped := make(chan error, 1)
	go func() { stopped <- stop() }()
	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("the scheduler kept sleeping after the shutdown request")
	}
	assert.Zero(t, taker.callCount())
}
