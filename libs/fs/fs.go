package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory at the given path, along with any missing
// parents, if it does not already exist.
func EnsureDir(path string) error {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(path, 0o700)
		}
		return err
	}
	return nil
}

// PathExists reports whether a file or a directory exists at the given path.
func PathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// FileExists reports whether a file exists at the given path. Pointing it at
// a directory is an error.
func FileExists(path string) (bool, error) {
	stats, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if stats.IsDir() {
		return false, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	return true, nil
}

func WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o600)
}

func ReadFile(path string) ([]byte, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// CopyDirContents copies every entry of sourceDir into targetDir, preserving
// the directory structure and file modes. targetDir is created if needed. The
// copy descends the whole tree; symlinks are not followed.
func CopyDirContents(sourceDir, targetDir string) error {
	if err := EnsureDir(targetDir); err != nil {
		return err
	}

	return filepath.Walk(sourceDir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk files: %w", err)
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		target := filepath.Join(targetDir, rel)
		if fi.IsDir() {
			return os.MkdirAll(target, fi.Mode().Perm())
		}

		return copyFile(path, target, fi.Mode().Perm())
	})
}

func copyFile(source, target string, perm os.FileMode) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", source, err)
	}
	defer in.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("failed to create target file %s: %w", target, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy file data to %s: %w", target, err)
	}

	return out.Close()
}

// RemoveAllFromDirectoryIfExists used in place of os.RemoveAll when the
// directory should be emptied but not removed. A missing directory is not an
// error.
func RemoveAllFromDirectoryIfExists(dir string) error {
	exists, err := PathExists(dir)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}

	return nil
}
