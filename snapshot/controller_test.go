package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeController(t *testing.T) {
	t.Run("Stopping acts on the node before its monitoring companion", testStoppingActsOnTheNodeBeforeItsMonitoringCompanion)
	t.Run("A failed node stop leaves the monitoring companion alone", testAFailedNodeStopLeavesTheMonitoringCompanionAlone)
	t.Run("Starting acts on the node before its monitoring companion", testStartingActsOnTheNodeBeforeItsMonitoringCompanion)
	t.Run("A failed monitoring start surfaces", testAFailedMonitoringStartSurfaces)
}

func newTestController(runtime *runtimeStub, head *headStub) *snapshot.NodeController {
	return snapshot.NewNodeController(logging.NewTestLogger(), runtime, head, "tezedge-node", "tezedge-monitoring")
}

func testStoppingActsOnTheNodeBeforeItsMonitoringCompanion(t *testing.T) {
	// given
	runtime := newRuntimeStub()
	controller := newTestController(runtime, newHeadStub("BK1"))

	// when
	err := controller.Stop(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"stop tezedge-node", "stop tezedge-monitoring"}, runtime.recordedCalls())
}

func testAFailedNodeStopLeavesTheMonitoringCompanionAlone(t *testing.T) {
	// given
	runtime := newRuntimeStub()
	runtime.stopErr["tezedge-node"] = errors.New("no such container")
	controller := newTestController(runtime, newHeadStub("BK1"))

	// when
	err := controller.Stop(context.Background())

	// then
	require.Error(t, err)
	assert.Equal(t, []string{"stop tezedge-node"}, runtime.recordedCalls())
}

func testStartingActsOnTheNodeBeforeItsMonitoringCompanion(t *testing.T) {
	// given
	runtime := newRuntimeStub()
	head := newHeadStub("BK1")
	controller := newTestController(runtime, head)

	// when
	err := controller.Start(context.Background())

	// then
	require.NoError(t, err)
	assert.Equal(t, []string{"start tezedge-node", "start tezedge-monitoring"}, runtime.recordedCalls())
	assert.Equal(t, 1, head.callCount())
}

func testAFailedMonitoringStartSurfaces(t *testing.T) {
	// given
	runtime := newRuntimeStub()
	runtime.startErr["tezedge-monitoring"] = errors.New("no such container")
	head := newHeadStub("BK1")
	controller := newTestController(runtime, head)

	// when
	err := controller.Start(context.Background())

	// then
	require.Error(t, err)
	assert.Equal(t, []string{"start tezedge-node", "start tezedge-monitoring"}, runtime.recordedCalls())
	assert.Equal(t, 0, head.callCount())
}
