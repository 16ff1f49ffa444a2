package snapshot

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	vgfs "github.com/tezedge/tezedge-snapshots/libs/fs"
	"github.com/tezedge/tezedge-snapshots/logging"
)

const stagingNamedLogger = "staging"

const (
	// identityFileName is the node's identity credential. It must never leave
	// the host inside a snapshot.
	identityFileName = "identity.json"

	// lockFileName sits under context/index while a node process holds the
	// database. A snapshot must never contain it.
	lockFileName = "lock"
)

// snapshotSubtrees are the database subtrees a packaged snapshot is made of.
// Anything else living in the database directory stays behind.
var snapshotSubtrees = []string{"context", "bootstrap_db"}

// StagingArea builds snapshots under temporary names and promotes them with
// a single rename once they are complete. Nothing under a final name is ever
// observable in a partially written state.
type StagingArea struct {
	log *logging.Logger
}

func NewStagingArea(log *logging.Logger) *StagingArea {
	return &StagingArea{
		log: log.Named(stagingNamedLogger),
	}
}

// Begin creates an empty staging directory under the given parent.
func (s *StagingArea) Begin(parentDir, tempName string) (string, error) {
	path := filepath.Join(parentDir, tempName)
	if err := vgfs.EnsureDir(path); err != nil {
		return "", fmt.Errorf("couldn't create the staging directory %q: %w", path, err)
	}
	return path, nil
}

// Extract copies the node's database tree into the staging directory. The
// database lock file is removed first: it only reflects a running process,
// and its absence is not an error.
func (s *StagingArea) Extract(stagingDir, databaseDir string) error {
	lockFile := filepath.Join(databaseDir, "context", "index", lockFileName)
	if err := os.Remove(lockFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("couldn't remove the database lock file %q: %w", lockFile, err)
	}

	if err := vgfs.CopyDirContents(databaseDir, stagingDir); err != nil {
		return fmt.Errorf("couldn't copy the node database into %q: %w", stagingDir, err)
	}
	return nil
}

// PurgeTransientFiles removes the log files and the node's identity file
// from the staged copy. Dropping the identity file is a correctness
// requirement, not a cosmetic one.
func (s *StagingArea) PurgeTransientFiles(stagingDir string) error {
	err := filepath.Walk(stagingDir, func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk files: %w", err)
		}
		if fi.IsDir() || !strings.Contains(fi.Name(), ".log") {
			return nil
		}
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("failed to remove log file %s: %w", file, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("couldn't purge the log files from %q: %w", stagingDir, err)
	}

	identityFile := filepath.Join(stagingDir, identityFileName)
	if err := os.Remove(identityFile); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("couldn't remove the identity file %q: %w", identityFile, err)
	}
	return nil
}

// Package writes the staged tree as a gzip-compressed tar at archivePath.
// Only the database subtrees are packaged, under a common root named
// rootName, so unpacking produces a directory already wearing the final
// snapshot name.
func (s *StagingArea) Package(stagedDir, archivePath, rootName string) error {
	file, err := os.Create(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create archive file %s: %w", archivePath, err)
	}
	defer func() { _ = file.Close() }()

	zw := gzip.NewWriter(file)
	tw := tar.NewWriter(zw)

	for _, subtree := range snapshotSubtrees {
		if err := tarSubtree(tw, stagedDir, subtree, rootName); err != nil {
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to close tar writer:%w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to close compressed archive file %s :%w", archivePath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close archive file %s: %w", archivePath, err)
	}
	return nil
}

// Promote atomically renames a staged entry to its final name and returns
// that name. This is the single point where a snapshot becomes visible.
func (s *StagingArea) Promote(tempPath string) (string, error) {
	finalPath := strings.TrimSuffix(tempPath, tempSuffix)
	if finalPath == tempPath {
		return "", fmt.Errorf("%q is not a staging entry, promotion refused", tempPath)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		return "", fmt.Errorf("couldn't promote the snapshot %q: %w", tempPath, err)
	}

	s.log.Info("Snapshot promoted", logging.String("snapshot", filepath.Base(finalPath)))
	return finalPath, nil
}

// Discard removes a staging location. It is used on failure paths and after
// promotion, a leftover is only worth a warning.
func (s *StagingArea) Discard(path string) {
	if err := os.RemoveAll(path); err != nil {
		s.log.Warn("Couldn't discard a staging location",
			logging.String("path", path),
			logging.Error(err),
		)
	}
}

func tarSubtree(tw *tar.Writer, stagedDir, subtree, rootName string) error {
	err := filepath.Walk(filepath.Join(stagedDir, subtree), func(file string, fi os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk files: %w", err)
		}

		rel, err := filepath.Rel(stagedDir, file)
		if err != nil {
			return fmt.Errorf("failed to resolve the path of %s: %w", file, err)
		}

		header, err := tar.FileInfoHeader(fi, file)
		if err != nil {
			return fmt.Errorf("failed to get tar file header information for file %s: %w", file, err)
		}
		header.Name = filepath.Join(rootName, rel)

		if fi.IsDir() {
			if err := tw.WriteHeader(header); err != nil {
				return fmt.Errorf("failed to write tar file header information for file %s: %w", file, err)
			}
			return nil
		}
		if !fi.Mode().IsRegular() {
			return nil
		}

		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar file header information for file %s: %w", file, err)
		}

		data, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open source file %s: %w", file, err)
		}
		defer func() { _ = data.Close() }()

		if _, err = io.Copy(tw, data); err != nil {
			return fmt.Errorf("failed to copy source file data %s: %w", file, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("couldn't package the %s subtree: %w", subtree, err)
	}
	return nil
}
