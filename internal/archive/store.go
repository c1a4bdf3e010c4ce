// Package archive stages files next to the archive, packs them into a tar
// payload, writes the archive file and removes the staged copies.
package archive

import (
	"archive/tar"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"cronba/internal/backup"
)

// ArchiveMode is the permission of a written archive.
const ArchiveMode fs.FileMode = 0644

// Store is the filesystem-backed implementation of backup.Store.
// It keeps no state between calls.
type Store struct {
	fsys     backup.Filesystem
	reporter backup.Reporter
}

// NewStore creates a Store operating on fsys.
func NewStore(fsys backup.Filesystem, reporter backup.Reporter) *Store {
	return &Store{fsys: fsys, reporter: reporter}
}

// CopyAll copies every entry's source file over its destination path.
// It stops at the first failure; copies made before it are left in place.
func (s *Store) CopyAll(entries []*backup.FileEntry) ([]*backup.FileEntry, error) {
	copied := make([]*backup.FileEntry, 0, len(entries))
	for i, entry := range entries {
		s.reporter.Log(fmt.Sprintf("\t[%d/%d] Copying", i+1, len(entries)), fmt.Sprintf("%q", entry.FullSourcePath()))
		if err := s.copyFile(entry.FullSourcePath(), entry.FullDestinationPath()); err != nil {
			return nil, &backup.IOError{Op: "copy", Path: entry.FullSourcePath(), Err: err}
		}
		s.reporter.Progress(fmt.Sprintf("\t[%d/%d] Copied:", i+1, len(entries)), fmt.Sprintf("=> %q", entry.FullDestinationPath()))
		copied = append(copied, entry)
	}
	return copied, nil
}

// copyFile copies src to dst, keeping the permission bits of src.
func (s *Store) copyFile(src, dst string) error {
	if src == dst {
		return fmt.Errorf("source and destination are the same file")
	}

	info, err := s.fsys.Stat(src)
	if err != nil {
		return err
	}

	r, err := s.fsys.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := s.fsys.Create(dst, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// PackAll builds a finalized tar payload in memory. Each entry's staged copy
// becomes one member named by its destination path, in entry order.
func (s *Store) PackAll(entries []*backup.FileEntry) (io.Reader, error) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)

	for i, entry := range entries {
		if err := s.packFile(tw, entry.FullDestinationPath()); err != nil {
			return nil, &backup.IOError{Op: "pack", Path: entry.FullDestinationPath(), Err: err}
		}
		s.reporter.Log(fmt.Sprintf("\t[%d/%d] Packed", i+1, len(entries)), fmt.Sprintf("%q", entry.FullSourcePath()))
	}

	if err := tw.Close(); err != nil {
		return nil, &backup.IOError{Op: "pack", Path: "", Err: fmt.Errorf("finalizing archive: %w", err)}
	}
	return &buf, nil
}

// packFile appends the file at path as a tar member named path.
func (s *Store) packFile(tw *tar.Writer, path string) error {
	info, err := s.fsys.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file")
	}

	r, err := s.fsys.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     path,
		Mode:     int64(info.Mode().Perm()),
		Size:     int64(len(data)),
		ModTime:  info.ModTime(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := tw.Write(data); err != nil {
		return fmt.Errorf("writing content: %w", err)
	}
	return nil
}

// WriteArchive streams payload into a temp file next to name, renames it
// into place and returns the size of the written archive. The temp file is
// removed on failure, so name never holds a partial archive.
func (s *Store) WriteArchive(ctx context.Context, name string, payload io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &backup.IOError{Op: "write", Path: name, Err: err}
	}

	tmp, err := s.fsys.CreateTemp(filepath.Dir(name), ".tmp-*")
	if err != nil {
		return 0, &backup.IOError{Op: "write", Path: name, Err: fmt.Errorf("creating temp file: %w", err)}
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			s.fsys.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, &contextReader{ctx: ctx, r: payload}); err != nil {
		tmp.Close()
		return 0, &backup.IOError{Op: "write", Path: name, Err: err}
	}
	if err := tmp.Chmod(ArchiveMode); err != nil {
		tmp.Close()
		return 0, &backup.IOError{Op: "write", Path: name, Err: fmt.Errorf("setting archive mode: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		return 0, &backup.IOError{Op: "write", Path: name, Err: fmt.Errorf("closing temp file: %w", err)}
	}

	if err := s.fsys.Rename(tmpPath, name); err != nil {
		return 0, &backup.IOError{Op: "write", Path: name, Err: fmt.Errorf("renaming temp file: %w", err)}
	}
	success = true

	info, err := s.fsys.Stat(name)
	if err != nil {
		return 0, &backup.IOError{Op: "stat", Path: name, Err: err}
	}
	return info.Size(), nil
}

// DeleteAll removes each entry's staged copy and stops at the first failure.
func (s *Store) DeleteAll(entries []*backup.FileEntry) error {
	for i, entry := range entries {
		s.reporter.Log(fmt.Sprintf("\t[%d/%d] Cleaning", i+1, len(entries)), fmt.Sprintf("%q", entry.FullDestinationPath()))
		if err := s.fsys.Remove(entry.FullDestinationPath()); err != nil {
			return &backup.IOError{Op: "delete", Path: entry.FullDestinationPath(), Err: err}
		}
	}
	return nil
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Compile-time check that Store implements backup.Store interface
var _ backup.Store = (*Store)(nil)
