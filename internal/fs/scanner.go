package fs

import (
	"errors"
	"io/fs"
	"regexp"
	"sort"

	"cronba/internal/backup"
)

// DirectoryScanner finds the files of a directory that a run should back up.
type DirectoryScanner struct {
	fsys   backup.Filesystem
	ignore *IgnoreMatcher
}

// NewDirectoryScanner creates a scanner over fsys. ignore may be nil.
func NewDirectoryScanner(fsys backup.Filesystem, ignore *IgnoreMatcher) *DirectoryScanner {
	if ignore == nil {
		ignore = NewIgnoreMatcher(nil)
	}
	return &DirectoryScanner{fsys: fsys, ignore: ignore}
}

// SetIgnore replaces the ignore matcher used by later scans. A nil matcher
// drops only the default patterns.
func (s *DirectoryScanner) SetIgnore(ignore *IgnoreMatcher) {
	if ignore == nil {
		ignore = NewIgnoreMatcher(nil)
	}
	s.ignore = ignore
}

// ListMatching lists the immediate entries of directory and keeps the regular
// files whose name matches pattern and is not ignored. Directories and special
// files are dropped even when their name matches. The result is sorted by name.
func (s *DirectoryScanner) ListMatching(directory, pattern string) ([]fs.DirEntry, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &backup.ValidationError{Field: "pattern", Reason: err.Error()}
	}

	entries, err := s.fsys.ReadDir(directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &backup.PathNotFoundError{Role: "scan", Path: directory}
		}
		return nil, &backup.IOError{Op: "readdir", Path: directory, Err: err}
	}

	matched := make([]fs.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !re.MatchString(entry.Name()) {
			continue
		}
		if s.ignore.Match(entry.Name()) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name() < matched[j].Name() })
	return matched, nil
}

var _ backup.Scanner = (*DirectoryScanner)(nil)
