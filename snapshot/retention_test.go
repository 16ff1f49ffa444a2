package snapshot_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tezedge/tezedge-snapshots/logging"
	"github.com/tezedge/tezedge-snapshots/snapshot"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetentionManager(t *testing.T) {
	t.Run("Eviction leaves a directory under capacity untouched", testEvictionLeavesADirectoryUnderCapacityUntouched)
	t.Run("Eviction removes the single oldest snapshot at capacity", testEvictionRemovesTheSingleOldestSnapshotAtCapacity)
	t.Run("Eviction ignores staging entries", testEvictionIgnoresStagingEntries)
	t.Run("Eviction fails on a missing directory", testEvictionFailsOnAMissingDirectory)
	t.Run("Counting only accounts for promoted snapshots", testCountingOnlyAccountsForPromotedSnapshots)
	t.Run("Sweeping removes only stale staging entries", testSweepingRemovesOnlyStaleStagingEntries)
}

func testEvictionLeavesADirectoryUnderCapacityUntouched(t *testing.T) {
	// given
	kindDir := t.TempDir()
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220401-120000_BK1_archive", time.Now().Add(-2*time.Hour))
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	err := manager.EvictOldestIfAtCapacity(kindDir)

	// then
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tezedge_mainnet_20220401-120000_BK1_archive"}, listEntries(t, kindDir))
}

func testEvictionRemovesTheSingleOldestSnapshotAtCapacity(t *testing.T) {
	// given
	kindDir := t.TempDir()
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220401-120000_BK1_archive", time.Unix(100, 0))
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220402-120000_BK2_archive", time.Unix(200, 0))
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	err := manager.EvictOldestIfAtCapacity(kindDir)

	// then
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tezedge_mainnet_20220402-120000_BK2_archive"}, listEntries(t, kindDir))
}

func testEvictionIgnoresStagingEntries(t *testing.T) {
	// given
	kindDir := t.TempDir()
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220401-120000_BK1_archive", time.Unix(100, 0))
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220402-120000_BK2_archive.temp", time.Unix(50, 0))
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	err := manager.EvictOldestIfAtCapacity(kindDir)

	// then
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"tezedge_mainnet_20220401-120000_BK1_archive",
		"tezedge_mainnet_20220402-120000_BK2_archive.temp",
	}, listEntries(t, kindDir))
}

func testEvictionFailsOnAMissingDirectory(t *testing.T) {
	// given
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	err := manager.EvictOldestIfAtCapacity(filepath.Join(t.TempDir(), "does-not-exist"))

	// then
	require.Error(t, err)
}

func testCountingOnlyAccountsForPromotedSnapshots(t *testing.T) {
	// given
	kindDir := t.TempDir()
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220401-120000_BK1_archive", time.Unix(100, 0))
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220402-120000_BK2_archive", time.Unix(200, 0))
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220403-120000_BK3_archive.temp", time.Unix(300, 0))
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	count, err := manager.CountPromoted(kindDir)

	// then
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func testSweepingRemovesOnlyStaleStagingEntries(t *testing.T) {
	// given
	kindDir := t.TempDir()
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220401-120000_BK1_archive", time.Unix(100, 0))
	addSnapshotEntry(t, kindDir, "tezedge_mainnet_20220402-120000_BK2_archive.temp", time.Unix(200, 0))
	manager := snapshot.NewRetentionManager(logging.NewTestLogger(), 2)

	// when
	err := manager.SweepStaleStaging(kindDir)

	// then
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"tezedge_mainnet_20220401-120000_BK1_archive"}, listEntries(t, kindDir))
}

func addSnapshotEntry(t *testing.T, kindDir, name string, lastModified time.Time) {
	t.Helper()
	path := filepath.Join(kindDir, name)
	require.NoError(t, os.Mkdir(path, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(path, "content"), []byte("data"), 0o600))
	require.NoError(t, os.Chtimes(path, lastModified, lastModified))
}

func listEntries(t *testing.T, dir string) []string {
	t.Helper()
	dirEntries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(dirEntries))
	for _, entry := range dirEntries {
		names = append(names, entry.Name())
	}
	return names
}
