package backup

import (
	"io"
	"io/fs"
)

// Filesystem abstracts the file operations the pipeline needs so it can run
// against an in-memory filesystem in tests.
type Filesystem interface {
	// Stat returns fresh file info for path.
	Stat(path string) (fs.FileInfo, error)

	// ReadDir lists the immediate entries of a directory, sorted by name.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Create opens path for writing, truncating any existing file.
	Create(path string, perm fs.FileMode) (io.WriteCloser, error)

	// CreateTemp creates a new uniquely named file in dir.
	CreateTemp(dir, pattern string) (TempFile, error)

	// Rename moves oldPath to newPath, replacing newPath if it exists.
	Rename(oldPath, newPath string) error

	// Remove deletes a single file.
	Remove(path string) error
}

// TempFile is a writable file that knows its own path. Temp files are
// created with mode 0600; Chmod sets the mode the renamed file keeps.
type TempFile interface {
	io.WriteCloser
	Name() string
	Chmod(mode fs.FileMode) error
}
