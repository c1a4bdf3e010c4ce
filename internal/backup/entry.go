package backup

import (
	"fmt"
	"path/filepath"
	"strings"
)

// FileEntry is one file tracked through a pipeline run: where it comes from,
// where its staged copy goes and how large it was when it was prepared.
// FileEntry values are created by NewFileEntry and never modified.
type FileEntry struct {
	sourceDirectory     string
	fullSourcePath      string
	fullDestinationPath string
	baseName            string
	extension           string
	size                int64
}

// NewFileEntry builds the FileEntry for the directory entry name found in
// sourceDir. The staged copy keeps the original file name inside
// destinationDir. Names without a base name or an extension are rejected.
// The size is read once here and not re-validated by later stages.
func NewFileEntry(fsys Filesystem, name, sourceDir, destinationDir string) (*FileEntry, error) {
	fileName := filepath.Base(name)
	extension := filepath.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, extension)

	if baseName == "" {
		return nil, &InvalidNameError{Name: name, Reason: "no base name"}
	}
	if extension == "" {
		return nil, &InvalidNameError{Name: name, Reason: "no extension"}
	}

	sourceDirectory, err := filepath.Abs(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("resolving source directory: %w", err)
	}
	destinationDirectory, err := filepath.Abs(destinationDir)
	if err != nil {
		return nil, fmt.Errorf("resolving destination directory: %w", err)
	}

	fullSourcePath := filepath.Join(sourceDirectory, fileName)
	info, err := fsys.Stat(fullSourcePath)
	if err != nil {
		return nil, &IOError{Op: "stat", Path: fullSourcePath, Err: err}
	}

	return &FileEntry{
		sourceDirectory:     sourceDirectory,
		fullSourcePath:      fullSourcePath,
		fullDestinationPath: filepath.Join(destinationDirectory, fileName),
		baseName:            baseName,
		extension:           extension,
		size:                info.Size(),
	}, nil
}

// SourceDirectory returns the absolute directory the file was scanned from.
func (e *FileEntry) SourceDirectory() string { return e.sourceDirectory }

// FullSourcePath returns the absolute path of the original file.
func (e *FileEntry) FullSourcePath() string { return e.fullSourcePath }

// FullDestinationPath returns the absolute path of the staged copy.
func (e *FileEntry) FullDestinationPath() string { return e.fullDestinationPath }

// BaseName returns the file name without its extension.
func (e *FileEntry) BaseName() string { return e.baseName }

// Extension returns the file extension including the leading dot.
func (e *FileEntry) Extension() string { return e.extension }

// FileName returns the base name and extension joined back together.
func (e *FileEntry) FileName() string { return e.baseName + e.extension }

// Size returns the source file size captured at construction.
func (e *FileEntry) Size() int64 { return e.size }
