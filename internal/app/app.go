package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"cronba/internal/archive"
	"cronba/internal/backup"
	"cronba/internal/config"
	"cronba/internal/fs"
	"cronba/internal/vault"
)

// App is the application layer between the CLI and the backup pipeline.
// It constructs all dependencies from config, runs one backup, ships the
// archive to the configured vaults and writes the run record on Close.
type App struct {
	cfg      *config.Config
	fsys     backup.Filesystem
	vaults   []backup.Vault
	reporter backup.Reporter
	logger   *slog.Logger
	logFile  *os.File
	clock    backup.Clock
	runID    string
	run      *Run
}

// NewApp creates a fully wired App from the given config. The human-readable
// trail goes to console. The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, console io.Writer) (*App, error) {
	return newApp(ctx, cfg, console, backup.RealClock{}, backup.UUIDGenerator{})
}

func newApp(ctx context.Context, cfg *config.Config, console io.Writer, clock backup.Clock, ids backup.IDGenerator) (*App, error) {
	vaults, err := vault.NewVaultsFromConfig(ctx, cfg.Vaults)
	if err != nil {
		return nil, fmt.Errorf("creating vaults: %w", err)
	}

	runID := ids.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &App{
		cfg:      cfg,
		fsys:     fs.NewOSFilesystem(),
		vaults:   vaults,
		reporter: multiReporter{newConsoleReporter(console), &slogReporter{l: logger}},
		logger:   logger,
		logFile:  logFile,
		clock:    clock,
		runID:    runID,
	}, nil
}

// RunID returns the identifier attached to every log line of this App.
func (a *App) RunID() string { return a.runID }

// Run returns the record of the last Backup call, or nil.
func (a *App) Run() *Run { return a.run }

// Backup runs the pipeline from source to destination for files matching
// pattern, then ships the archive to every configured vault. Any failure is
// reported before it is returned.
func (a *App) Backup(ctx context.Context, source, destination, pattern string) (*backup.Summary, error) {
	a.run = NewRun(a.runID, source, destination, pattern, a.clock.Now())
	a.logger.Info("run started", "from", source, "to", destination, "pattern", pattern)

	summary, err := a.backup(ctx, source, destination, pattern)
	a.run.Finish(err, a.clock.Now())
	if err != nil {
		a.reporter.Error(err)
		return summary, fmt.Errorf("backup: %w", err)
	}
	return summary, nil
}

func (a *App) backup(ctx context.Context, source, destination, pattern string) (*backup.Summary, error) {
	scanner := fs.NewDirectoryScanner(a.fsys, nil)
	store := archive.NewStore(a.fsys, a.reporter)
	p, err := backup.NewPipeline(source, destination, pattern, a.fsys, scanner, store, a.reporter, a.clock)
	if err != nil {
		return nil, err
	}

	// The ignore file is only read once the source is known to be a directory.
	matcher, err := a.ignoreMatcher(p.Summary().Source)
	if err != nil {
		return nil, err
	}
	scanner.SetIgnore(matcher)

	err = p.Run(ctx)
	summary := p.Summary()
	a.run.ArchiveName = summary.ArchiveName
	a.run.ArchiveSize = summary.ArchiveSize
	a.run.Files = summary.Copied
	if err != nil {
		return &summary, err
	}

	if err := a.ship(ctx, p.ArchiveName(), p.ArchiveSize()); err != nil {
		return &summary, err
	}
	return &summary, nil
}

// ignoreMatcher combines the configured ignore patterns with the source
// directory's ignore file, if any.
func (a *App) ignoreMatcher(source string) (*fs.IgnoreMatcher, error) {
	filePatterns, err := fs.ParseIgnoreFile(filepath.Join(source, fs.IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns := append(append([]string{}, a.cfg.Filesystem.Ignore...), filePatterns...)

	matcher := fs.NewIgnoreMatcher(patterns)
	if err := matcher.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ignore pattern: %w", err)
	}
	return matcher, nil
}

// ship uploads the archive to every vault in order and stops at the first failure.
func (a *App) ship(ctx context.Context, archiveName string, size int64) error {
	for _, v := range a.vaults {
		a.reporter.Title("Shipping", v.Name())
		if err := a.putArchive(ctx, v, archiveName, size); err != nil {
			return fmt.Errorf("shipping to vault %s: %w", v.Name(), err)
		}
		a.reporter.Success("=> Shipped", fmt.Sprintf("%s (%s)", v.Name(), humanize.Bytes(uint64(size))))
	}
	return nil
}

func (a *App) putArchive(ctx context.Context, v backup.Vault, archiveName string, size int64) error {
	r, err := a.fsys.Open(archiveName)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer r.Close()

	return v.PutArchive(ctx, filepath.Base(archiveName), r, size)
}

// ValidateVaults checks that every configured vault is reachable.
func (a *App) ValidateVaults(ctx context.Context) error {
	for _, v := range a.vaults {
		if err := v.ValidateSetup(ctx); err != nil {
			a.reporter.Warn("Vault unavailable:", v.Name())
			return fmt.Errorf("vault %s: %w", v.Name(), err)
		}
		a.reporter.Success("Vault ready:", v.Name())
	}
	return nil
}

// Vaults returns the names of the configured vaults, in shipping order.
func (a *App) Vaults() []string {
	names := make([]string, len(a.vaults))
	for i, v := range a.vaults {
		names[i] = v.Name()
	}
	return names
}

// Close logs the run record, if any, and closes the log file.
func (a *App) Close() error {
	if a.run != nil && a.run.Done() {
		a.logger.Info("run finished",
			"status", a.run.Status,
			"duration", a.run.Duration().String(),
			"archive", a.run.ArchiveName,
			"files", a.run.Files,
			"size", humanize.Bytes(uint64(a.run.ArchiveSize)),
		)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil {
			return fmt.Errorf("closing log file: %w", err)
		}
	}
	return nil
}
