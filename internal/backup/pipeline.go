package backup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/dustin/go-humanize"
)

// Pipeline is one backup run: scan, prepare, copy, archive and clean, invoked
// in that order. Each stage consumes the sequence produced by the previous one
// and fails with an *EmptyResultError when that sequence is empty, so calling
// a stage out of order fails the same way as a stage that found nothing.
//
// A Pipeline is not safe for concurrent use and must not be reused across runs.
type Pipeline struct {
	source      string
	destination string
	pattern     string
	archiveName string

	fsys     Filesystem
	scanner  Scanner
	store    Store
	reporter Reporter

	scanned     []fs.DirEntry
	prepared    []*FileEntry
	copied      []*FileEntry
	archiveSize int64
}

// Summary describes a pipeline's parameters and progress so far.
type Summary struct {
	Source      string
	Destination string
	Pattern     string
	ArchiveName string
	Scanned     int
	Prepared    int
	Copied      int
	ArchiveSize int64
}

// NewPipeline validates the run parameters and creates a Pipeline.
// source, destination and pattern must be non-empty, pattern must compile as
// a regular expression, and both directories must exist. The archive name is
// fixed here as <destination>/Arch<unix-millis>.tar.
func NewPipeline(source, destination, pattern string, fsys Filesystem, scanner Scanner, store Store, reporter Reporter, clock Clock) (*Pipeline, error) {
	if source == "" {
		return nil, &ValidationError{Field: "source"}
	}
	if destination == "" {
		return nil, &ValidationError{Field: "destination"}
	}
	if pattern == "" {
		return nil, &ValidationError{Field: "pattern"}
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return nil, &ValidationError{Field: "pattern", Reason: err.Error()}
	}

	absSource, err := resolveDirectory(fsys, "source", source)
	if err != nil {
		return nil, err
	}
	absDestination, err := resolveDirectory(fsys, "destination", destination)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		source:      absSource,
		destination: absDestination,
		pattern:     pattern,
		archiveName: filepath.Join(absDestination, fmt.Sprintf("Arch%d.tar", clock.Now().UnixMilli())),
		fsys:        fsys,
		scanner:     scanner,
		store:       store,
		reporter:    reporter,
	}

	reporter.Title("Summary", "")
	reporter.Log("\t[F]:", fmt.Sprintf("%q", p.source))
	reporter.Log("\t[T]:", fmt.Sprintf("%q", p.destination))
	reporter.Log("\t[P]:", fmt.Sprintf("%q", p.pattern))
	return p, nil
}

// resolveDirectory makes path absolute and checks that it is an existing directory.
func resolveDirectory(fsys Filesystem, role, path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving %s directory: %w", role, err)
	}

	info, err := fsys.Stat(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &PathNotFoundError{Role: role, Path: absPath}
		}
		return "", &IOError{Op: "stat", Path: absPath, Err: err}
	}
	if !info.IsDir() {
		return "", &PathNotFoundError{Role: role, Path: absPath}
	}
	return absPath, nil
}

// Run invokes every stage in order and stops at the first failure.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Scan(); err != nil {
		return err
	}
	if err := p.Prepare(); err != nil {
		return err
	}
	if err := p.Copy(); err != nil {
		return err
	}
	if err := p.Archive(ctx); err != nil {
		return err
	}
	return p.Clean()
}

// Scan lists the source files matching the pattern.
func (p *Pipeline) Scan() error {
	p.reporter.Title("Scanning", p.source)

	scanned, err := p.scanner.ListMatching(p.source, p.pattern)
	if err != nil {
		return err
	}
	p.scanned = scanned
	if len(p.scanned) == 0 {
		return &EmptyResultError{Stage: "scan"}
	}

	p.reporter.Success("=> Scanned", fmt.Sprintf("%d files", len(p.scanned)))
	return nil
}

// Prepare turns every scanned entry into a FileEntry.
func (p *Pipeline) Prepare() error {
	if len(p.scanned) == 0 {
		return &EmptyResultError{Stage: "prepare"}
	}
	p.reporter.Title("Preparing", fmt.Sprintf("%d files", len(p.scanned)))

	prepared := make([]*FileEntry, 0, len(p.scanned))
	for i, raw := range p.scanned {
		entry, err := NewFileEntry(p.fsys, raw.Name(), p.source, p.destination)
		if err != nil {
			return err
		}
		p.reporter.Log(fmt.Sprintf("\t[%d/%d] Prepared", i+1, len(p.scanned)), fmt.Sprintf("%q", entry.FullSourcePath()))
		prepared = append(prepared, entry)
	}
	if len(prepared) == 0 {
		return &EmptyResultError{Stage: "prepare"}
	}
	p.prepared = prepared

	p.reporter.Success("=> Prepared", fmt.Sprintf("%d files", len(p.prepared)))
	return nil
}

// Copy stages every prepared file into the destination directory.
// Files copied before a failure are left in place.
func (p *Pipeline) Copy() error {
	if len(p.prepared) == 0 {
		return &EmptyResultError{Stage: "copy"}
	}
	p.reporter.Title("Copying", fmt.Sprintf("%d files", len(p.prepared)))

	copied, err := p.store.CopyAll(p.prepared)
	if err != nil {
		return err
	}
	if len(copied) == 0 {
		return &EmptyResultError{Stage: "copy"}
	}
	p.copied = copied

	p.reporter.Success("=> Copied", fmt.Sprintf("%d files", len(p.copied)))
	return nil
}

// Archive packs the staged copies and writes the archive file. It blocks
// until the archive is fully written or ctx is done.
func (p *Pipeline) Archive(ctx context.Context) error {
	if len(p.copied) == 0 {
		return &EmptyResultError{Stage: "archive"}
	}

	p.reporter.Title("Packing", fmt.Sprintf("%d files", len(p.copied)))
	payload, err := p.store.PackAll(p.copied)
	if err != nil {
		return err
	}
	p.reporter.Success("=> Packed", fmt.Sprintf("%d files", len(p.copied)))

	p.reporter.Title("Archiving", fmt.Sprintf("%d files", len(p.copied)))
	size, err := p.store.WriteArchive(ctx, p.archiveName, payload)
	if err != nil {
		return err
	}
	if size <= 0 {
		return &EmptyResultError{Stage: "archive"}
	}
	p.archiveSize = size

	p.reporter.Success("=> Archived", fmt.Sprintf("%d files (%s)", len(p.copied), humanize.Bytes(uint64(size))))
	return nil
}

// Clean removes the staged copies. The original files are never touched.
func (p *Pipeline) Clean() error {
	if len(p.copied) == 0 {
		return &EmptyResultError{Stage: "clean"}
	}
	p.reporter.Title("Cleaning", fmt.Sprintf("%d files", len(p.copied)))

	if err := p.store.DeleteAll(p.copied); err != nil {
		return err
	}

	p.reporter.Success("=> Cleaned", fmt.Sprintf("%d files", len(p.copied)))
	return nil
}

// ArchiveName returns the absolute path of the archive this run writes.
func (p *Pipeline) ArchiveName() string { return p.archiveName }

// ArchiveSize returns the size of the written archive, or 0 before Archive succeeds.
func (p *Pipeline) ArchiveSize() int64 { return p.archiveSize }

// ScannedEntries returns the directory entries found by Scan.
func (p *Pipeline) ScannedEntries() []fs.DirEntry { return p.scanned }

// PreparedEntries returns the entries built by Prepare.
func (p *Pipeline) PreparedEntries() []*FileEntry { return p.prepared }

// CopiedEntries returns the entries staged by Copy.
func (p *Pipeline) CopiedEntries() []*FileEntry { return p.copied }

// Summary returns the run parameters and the size of every sequence.
func (p *Pipeline) Summary() Summary {
	return Summary{
		Source:      p.source,
		Destination: p.destination,
		Pattern:     p.pattern,
		ArchiveName: p.archiveName,
		Scanned:     len(p.scanned),
		Prepared:    len(p.prepared),
		Copied:      len(p.copied),
		ArchiveSize: p.archiveSize,
	}
}
