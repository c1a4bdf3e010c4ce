package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"cronba/internal/backup"
)

// MockFile represents a file or directory in the mock filesystem.
type MockFile struct {
	Content []byte
	Mode    fs.FileMode
	ModTime time.Time
}

// MockFilesystem is an in-memory backup.Filesystem for testing.
// Paths are absolute and cleaned. Failures can be injected per operation
// and path with FailOn.
type MockFilesystem struct {
	mu       sync.Mutex
	files    map[string]*MockFile
	failures map[string]error
	tempSeq  int
}

// NewMockFilesystem creates an empty mock filesystem containing only "/".
func NewMockFilesystem() *MockFilesystem {
	m := &MockFilesystem{
		files:    make(map[string]*MockFile),
		failures: make(map[string]error),
	}
	m.files["/"] = &MockFile{Mode: fs.ModeDir | 0755, ModTime: time.Now()}
	return m
}

// AddDirectory adds a directory and its missing parents.
func (m *MockFilesystem) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mkdirAll(filepath.Clean(path))
}

// AddFile adds a regular file, creating its parent directories.
func (m *MockFilesystem) AddFile(path string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAll(filepath.Dir(path))
	m.files[path] = &MockFile{Content: append([]byte{}, content...), Mode: 0644, ModTime: time.Now()}
}

// AddSymlink adds a symlink entry. Its target is not followed.
func (m *MockFilesystem) AddSymlink(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	m.mkdirAll(filepath.Dir(path))
	m.files[path] = &MockFile{Mode: fs.ModeSymlink | 0777, ModTime: time.Now()}
}

// FailOn makes op ("stat", "readdir", "open", "create", "createtemp",
// "rename", "remove", "write", "chmod") on path return err.
func (m *MockFilesystem) FailOn(op, path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op+":"+filepath.Clean(path)] = err
}

// Mode returns the permission bits of path and whether it exists.
func (m *MockFilesystem) Mode(path string) (fs.FileMode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[filepath.Clean(path)]
	if !ok {
		return 0, false
	}
	return f.Mode.Perm(), true
}

// Content returns the content of a file and whether it exists.
func (m *MockFilesystem) Content(path string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.files[filepath.Clean(path)]
	if !ok || f.Mode.IsDir() {
		return nil, false
	}
	return append([]byte{}, f.Content...), true
}

// Exists reports whether path exists.
func (m *MockFilesystem) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[filepath.Clean(path)]
	return ok
}

// List returns the names directly inside dir, sorted.
func (m *MockFilesystem) List(dir string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.children(filepath.Clean(dir))
}

func (m *MockFilesystem) mkdirAll(path string) {
	for p := path; ; p = filepath.Dir(p) {
		if _, ok := m.files[p]; !ok {
			m.files[p] = &MockFile{Mode: fs.ModeDir | 0755, ModTime: time.Now()}
		}
		if p == filepath.Dir(p) {
			return
		}
	}
}

func (m *MockFilesystem) children(dir string) []string {
	var names []string
	for p := range m.files {
		if p != dir && filepath.Dir(p) == dir {
			names = append(names, filepath.Base(p))
		}
	}
	sort.Strings(names)
	return names
}

func (m *MockFilesystem) failure(op, path string) error {
	return m.failures[op+":"+path]
}

func (m *MockFilesystem) Stat(path string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.failure("stat", path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
	return &mockFileInfo{name: filepath.Base(path), file: f}, nil
}

func (m *MockFilesystem) ReadDir(path string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.failure("readdir", path); err != nil {
		return nil, err
	}
	dir, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}
	if !dir.Mode.IsDir() {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fmt.Errorf("not a directory")}
	}

	var entries []fs.DirEntry
	for _, name := range m.children(path) {
		info := &mockFileInfo{name: name, file: m.files[filepath.Join(path, name)]}
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	return entries, nil
}

func (m *MockFilesystem) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.failure("open", path); err != nil {
		return nil, err
	}
	f, ok := m.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	if f.Mode.IsDir() {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(append([]byte{}, f.Content...))), nil
}

func (m *MockFilesystem) Create(path string, perm fs.FileMode) (io.WriteCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.create(path, perm); err != nil {
		return nil, err
	}
	return &mockWriter{fs: m, path: path, failWrite: m.failure("write", path)}, nil
}

func (m *MockFilesystem) CreateTemp(dir, pattern string) (backup.TempFile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dir = filepath.Clean(dir)
	if err := m.failure("createtemp", dir); err != nil {
		return nil, err
	}
	m.tempSeq++
	name := strings.Replace(pattern, "*", fmt.Sprintf("%06d", m.tempSeq), 1)
	path := filepath.Join(dir, name)
	if err := m.create(path, 0600); err != nil {
		return nil, err
	}
	return &mockWriter{fs: m, path: path, failWrite: m.failure("write", dir)}, nil
}

// create must be called with m.mu held.
func (m *MockFilesystem) create(path string, perm fs.FileMode) error {
	if err := m.failure("create", path); err != nil {
		return err
	}
	parent, ok := m.files[filepath.Dir(path)]
	if !ok || !parent.Mode.IsDir() {
		return &fs.PathError{Op: "create", Path: path, Err: fs.ErrNotExist}
	}
	if f, ok := m.files[path]; ok && f.Mode.IsDir() {
		return &fs.PathError{Op: "create", Path: path, Err: fmt.Errorf("is a directory")}
	}
	m.files[path] = &MockFile{Mode: perm, ModTime: time.Now()}
	return nil
}

func (m *MockFilesystem) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	oldPath, newPath = filepath.Clean(oldPath), filepath.Clean(newPath)
	if err := m.failure("rename", newPath); err != nil {
		return err
	}
	f, ok := m.files[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}
	m.files[newPath] = f
	delete(m.files, oldPath)
	return nil
}

func (m *MockFilesystem) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	path = filepath.Clean(path)
	if err := m.failure("remove", path); err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return &fs.PathError{Op: "remove", Path: path, Err: fs.ErrNotExist}
	}
	if len(m.children(path)) > 0 {
		return &fs.PathError{Op: "remove", Path: path, Err: fmt.Errorf("directory not empty")}
	}
	delete(m.files, path)
	return nil
}

// mockWriter buffers writes and stores them in the filesystem on every Write.
type mockWriter struct {
	fs        *MockFilesystem
	path      string
	failWrite error
	closed    bool
}

func (w *mockWriter) Name() string { return w.path }

func (w *mockWriter) Write(p []byte) (int, error) {
	if w.closed {
		return 0, fs.ErrClosed
	}
	if w.failWrite != nil {
		return 0, w.failWrite
	}
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	f, ok := w.fs.files[w.path]
	if !ok {
		return 0, &fs.PathError{Op: "write", Path: w.path, Err: fs.ErrNotExist}
	}
	f.Content = append(f.Content, p...)
	return len(p), nil
}

func (w *mockWriter) Chmod(mode fs.FileMode) error {
	if w.closed {
		return fs.ErrClosed
	}
	w.fs.mu.Lock()
	defer w.fs.mu.Unlock()
	if err := w.fs.failure("chmod", w.path); err != nil {
		return err
	}
	f, ok := w.fs.files[w.path]
	if !ok {
		return &fs.PathError{Op: "chmod", Path: w.path, Err: fs.ErrNotExist}
	}
	f.Mode = mode
	return nil
}

func (w *mockWriter) Close() error {
	if w.closed {
		return fs.ErrClosed
	}
	w.closed = true
	return nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name string
	file *MockFile
}

func (i *mockFileInfo) Name() string       { return i.name }
func (i *mockFileInfo) Size() int64        { return int64(len(i.file.Content)) }
func (i *mockFileInfo) Mode() fs.FileMode  { return i.file.Mode }
func (i *mockFileInfo) ModTime() time.Time { return i.file.ModTime }
func (i *mockFileInfo) IsDir() bool        { return i.file.Mode.IsDir() }
func (i *mockFileInfo) Sys() any           { return i.file }

// Compile-time check
var _ backup.Filesystem = (*MockFilesystem)(nil)
