// Package filesys collects the small filesystem operations the storage
// engine needs: creating the database directory, probing existence,
// whole-file read/write, incremental append, and recursive removal.
package filesys

import (
	"errors"
	"os"
)

// ErrIsNotDir is returned by CreateDir when the target path exists and is
// a regular file rather than a directory.
var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates dirPath with permission if it doesn't already exist.
// If it exists and is a directory, this is a no-op; if it exists and is a
// file, ErrIsNotDir is returned.
func CreateDir(dirPath string, permission os.FileMode) error {
	stat, err := os.Stat(dirPath)
	if err == nil {
		if !stat.IsDir() {
			return ErrIsNotDir
		}
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(dirPath, permission)
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile reads the entire content of path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// WriteFile truncates (or creates) path and writes contents to it.
func WriteFile(path string, permission os.FileMode, contents []byte) error {
	return os.WriteFile(path, contents, permission)
}

// AppendFile opens path for append (creating it if necessary) and writes
// contents, without reading or rewriting what was already there — the
// mechanism behind the index's incremental-insert optimization.
func AppendFile(path string, permission os.FileMode, contents []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, permission)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(contents)
	return err
}

// RemoveAll recursively removes path and everything under it.
func RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// FileSize returns the current size in bytes of the file at path.
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Rename renames oldPath to newPath (used for the atomic .log -> .cky
// segment-roll rename).
func Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}
