package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"cronba/internal/backup"
)

// OSFilesystem is the real filesystem implementation of backup.Filesystem.
// It performs actual filesystem operations using the os package.
type OSFilesystem struct{}

// NewOSFilesystem creates a filesystem that operates on the real filesystem.
func NewOSFilesystem() *OSFilesystem {
	return &OSFilesystem{}
}

// Stat returns fresh file info for path.
func (f *OSFilesystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists the immediate entries of a directory, sorted by name.
func (f *OSFilesystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// Open opens a file for reading.
func (f *OSFilesystem) Open(path string) (io.ReadCloser, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Create opens path for writing, truncating any existing file.
func (f *OSFilesystem) Create(path string, perm fs.FileMode) (io.WriteCloser, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// CreateTemp creates a new uniquely named file in dir.
func (f *OSFilesystem) CreateTemp(dir, pattern string) (backup.TempFile, error) {
	tmp, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, err
	}
	return tmp, nil
}

// Rename moves oldPath to newPath.
func (f *OSFilesystem) Rename(oldPath, newPath string) error {
	return os.Rename(oldPath, newPath)
}

// Remove deletes a single file.
func (f *OSFilesystem) Remove(path string) error {
	return os.Remove(path)
}

// Compile-time check that OSFilesystem implements backup.Filesystem interface
var _ backup.Filesystem = (*OSFilesystem)(nil)
