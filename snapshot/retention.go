package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tezedge/tezedge-snapshots/logging"
)

const retentionNamedLogger = "retention"

// RetentionManager keeps the number of promoted snapshots in a kind
// directory under a fixed capacity. It only ever looks at direct children,
// and entries still wearing the staging suffix are invisible to it.
type RetentionManager struct {
	log      *logging.Logger
	capacity int
}

func NewRetentionManager(log *logging.Logger, capacity int) *RetentionManager {
	return &RetentionManager{
		log:      log.Named(retentionNamedLogger),
		capacity: capacity,
	}
}

type retainedEntry struct {
	path         string
	lastModified time.Time
}

// EvictOldestIfAtCapacity removes the single oldest promoted snapshot when
// the directory already holds as many as the capacity allows. It runs right
// before a new snapshot is staged, so peak disk usage stays bounded by the
// capacity rather than capacity plus one.
func (m *RetentionManager) EvictOldestIfAtCapacity(kindDir string) error {
	entries, err := m.promotedEntries(kindDir)
	if err != nil {
		return err
	}

	if len(entries) < m.capacity {
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].lastModified.Before(entries[j].lastModified)
	})

	oldest := entries[0]
	m.log.Info("Removing the oldest snapshot",
		logging.String("snapshot", filepath.Base(oldest.path)),
		logging.Int("kept", len(entries)-1),
		logging.Int("capacity", m.capacity),
	)

	if err := os.RemoveAll(oldest.path); err != nil {
		return fmt.Errorf("couldn't remove the oldest snapshot %q: %w", oldest.path, err)
	}
	return nil
}

// CountPromoted reports how many promoted snapshots a kind directory holds.
func (m *RetentionManager) CountPromoted(kindDir string) (int, error) {
	entries, err := m.promotedEntries(kindDir)
	if err != nil {
		return 0, err
	}
	return len(entries), nil
}

// SweepStaleStaging removes staging entries orphaned by a previous run that
// crashed between staging and promotion. It only makes sense at startup,
// while no attempt can be in flight.
func (m *RetentionManager) SweepStaleStaging(kindDir string) error {
	dirEntries, err := os.ReadDir(kindDir)
	if err != nil {
		return fmt.Errorf("couldn't list the snapshots in %q: %w", kindDir, err)
	}

	for _, entry := range dirEntries {
		if !strings.HasSuffix(entry.Name(), tempSuffix) {
			continue
		}
		stale := filepath.Join(kindDir, entry.Name())
		m.log.Warn("Removing a stale staging entry left behind by a previous run",
			logging.String("entry", stale),
		)
		if err := os.RemoveAll(stale); err != nil {
			return fmt.Errorf("couldn't remove the stale staging entry %q: %w", stale, err)
		}
	}
	return nil
}

func (m *RetentionManager) promotedEntries(kindDir string) ([]retainedEntry, error) {
	dirEntries, err := os.ReadDir(kindDir)
	if err != nil {
		return nil, fmt.Errorf("couldn't list the snapshots in %q: %w", kindDir, err)
	}

	entries := make([]retainedEntry, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if strings.HasSuffix(entry.Name(), tempSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("couldn't read the metadata of %q: %w", entry.Name(), err)
		}
		entries = append(entries, retainedEntry{
			path:         filepath.Join(kindDir, entry.Name()),
			lastModified: info.ModTime(),
		})
	}
	return entries, nil
}
