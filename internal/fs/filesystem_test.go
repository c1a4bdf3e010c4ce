package fs

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFilesystem_CreateAndOpen(t *testing.T) {
	dir := t.TempDir()
	f := NewOSFilesystem()
	path := filepath.Join(dir, "file.txt")

	w, err := f.Create(path, 0600)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := io.WriteString(w, "first version, longer"); err != nil {
		t.Fatalf("writing: %v", err)
	}
	w.Close()

	// A second Create truncates.
	w, err = f.Create(path, 0600)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	io.WriteString(w, "second")
	w.Close()

	r, err := f.Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()
	data, _ := io.ReadAll(r)
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	info, err := f.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestOSFilesystem_OpenDirectory(t *testing.T) {
	if _, err := NewOSFilesystem().Open(t.TempDir()); err == nil {
		t.Error("Open() expected error for directory")
	}
}

func TestOSFilesystem_TempRenameRemove(t *testing.T) {
	dir := t.TempDir()
	f := NewOSFilesystem()

	tmp, err := f.CreateTemp(dir, ".tmp-*")
	if err != nil {
		t.Fatalf("CreateTemp() error = %v", err)
	}
	io.WriteString(tmp, "data")
	tmp.Close()

	final := filepath.Join(dir, "final.tar")
	if err := f.Rename(tmp.Name(), final); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}
	if _, err := os.Stat(tmp.Name()); !os.IsNotExist(err) {
		t.Errorf("temp file still present after rename")
	}

	if err := f.Remove(final); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	entries, _ := f.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("ReadDir() = %d entries, want 0", len(entries))
	}
}
