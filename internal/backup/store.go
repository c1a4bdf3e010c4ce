package backup

import (
	"context"
	"io"
	"io/fs"
)

// Scanner lists the files of a directory that should be backed up.
type Scanner interface {
	// ListMatching returns the regular files directly inside directory whose
	// name matches the regular expression pattern.
	ListMatching(directory, pattern string) ([]fs.DirEntry, error)
}

// Store performs the physical operations of a run: staging copies, packing
// them into an archive payload, writing the archive and removing the copies.
type Store interface {
	// CopyAll copies every entry's source file to its destination path and
	// returns the entries that were copied.
	CopyAll(entries []*FileEntry) ([]*FileEntry, error)

	// PackAll serializes the staged copies into a finalized archive payload.
	PackAll(entries []*FileEntry) (io.Reader, error)

	// WriteArchive streams payload into the file name and returns its size.
	WriteArchive(ctx context.Context, name string, payload io.Reader) (int64, error)

	// DeleteAll removes every entry's staged copy.
	DeleteAll(entries []*FileEntry) error
}

// Vault receives a copy of each finished archive.
type Vault interface {
	// Name identifies the vault in logs.
	Name() string

	// PutArchive stores the archive read from r under name.
	// size is the number of bytes that will be read from r.
	PutArchive(ctx context.Context, name string, r io.Reader, size int64) error

	// ValidateSetup verifies that the vault is accessible.
	ValidateSetup(ctx context.Context) error
}
