package vault

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileSystemVault(t *testing.T) {
	t.Run("creates directory structure", func(t *testing.T) {
		tmpDir := t.TempDir()
		root := filepath.Join(tmpDir, "vault")

		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "archives")); err != nil {
			t.Errorf("archives directory not created: %v", err)
		}
		if v.Name() != "test" {
			t.Errorf("Name() = %q, want %q", v.Name(), "test")
		}
	})

	t.Run("works with existing directory", func(t *testing.T) {
		tmpDir := t.TempDir()

		_, err := NewFileSystemVault("test", tmpDir)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
	})

	t.Run("fails when root is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if _, err := NewFileSystemVault("test", file); err == nil {
			t.Fatal("NewFileSystemVault() expected error")
		}
	})
}

func TestFileSystemVault_PutArchive(t *testing.T) {
	tests := []struct {
		name    string
		archive string
		data    string
		size    int64
		wantErr bool
	}{
		{
			name:    "store archive successfully",
			archive: "Arch1.tar",
			data:    "hello world",
			size:    11,
		},
		{
			name:    "size mismatch",
			archive: "Arch2.tar",
			data:    "hello",
			size:    100,
			wantErr: true,
		},
		{
			name:    "name with separator",
			archive: "../Arch3.tar",
			data:    "hello",
			size:    5,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			v, err := NewFileSystemVault("test", root)
			if err != nil {
				t.Fatalf("NewFileSystemVault() error = %v", err)
			}

			err = v.PutArchive(context.Background(), tt.archive, strings.NewReader(tt.data), tt.size)
			if (err != nil) != tt.wantErr {
				t.Fatalf("PutArchive() error = %v, wantErr %v", err, tt.wantErr)
			}

			entries, _ := os.ReadDir(filepath.Join(root, "archives"))
			if tt.wantErr {
				if len(entries) != 0 {
					t.Errorf("archives after failure = %v, want none", entries)
				}
				return
			}

			got, err := os.ReadFile(filepath.Join(root, "archives", tt.archive))
			if err != nil {
				t.Fatalf("reading stored archive: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("stored archive = %q, want %q", got, tt.data)
			}
		})
	}
}

func TestFileSystemVault_PutArchive_Replaces(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	ctx := context.Background()

	if err := v.PutArchive(ctx, "Arch1.tar", strings.NewReader("old"), 3); err != nil {
		t.Fatalf("first PutArchive() error = %v", err)
	}
	if err := v.PutArchive(ctx, "Arch1.tar", strings.NewReader("newer"), 5); err != nil {
		t.Fatalf("second PutArchive() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(v.archiveDir, "Arch1.tar"))
	if err != nil {
		t.Fatalf("reading stored archive: %v", err)
	}
	if string(got) != "newer" {
		t.Errorf("stored archive = %q, want %q", got, "newer")
	}
}

func TestFileSystemVault_PutArchive_CancelledContext(t *testing.T) {
	v, err := NewFileSystemVault("test", t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = v.PutArchive(ctx, "Arch1.tar", strings.NewReader("data"), 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("PutArchive() error = %v, want %v", err, context.Canceled)
	}
}

func TestFileSystemVault_ValidateSetup(t *testing.T) {
	t.Run("valid setup", func(t *testing.T) {
		v, err := NewFileSystemVault("test", t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := v.ValidateSetup(context.Background()); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}
	})

	t.Run("archives directory removed", func(t *testing.T) {
		root := t.TempDir()
		v, err := NewFileSystemVault("test", root)
		if err != nil {
			t.Fatalf("NewFileSystemVault() error = %v", err)
		}
		if err := os.RemoveAll(filepath.Join(root, "archives")); err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if err := v.ValidateSetup(context.Background()); err == nil {
			t.Error("ValidateSetup() expected error")
		}
	})
}
