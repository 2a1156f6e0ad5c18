// Package pack packages a directory tree into a single ZIP archive whose only
// top-level folder is named after the source directory.
package pack

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/glorpus-work/zipack/internal/logger"
	"github.com/glorpus-work/zipack/pkg/archive"
	"github.com/glorpus-work/zipack/pkg/compression"
	"github.com/glorpus-work/zipack/pkg/errors"
)

// Archiver drives one packaging run of a Source.
//
// An Archiver moves through Configured, Ready, Running and then Done or
// Failed. It is not safe for concurrent use and cannot be reused after a run.
type Archiver struct {
	source     *Source
	config     *compression.Config
	state      State
	outputDir  string
	extension  string
	enumerator Enumerator
	reporter   Reporter
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithOutputDir sets the directory the archive is written to. It defaults to
// the working directory at the time Package is called.
func WithOutputDir(dir string) Option {
	return func(a *Archiver) {
		a.outputDir = dir
	}
}

// WithReporter sets the receiver of per-entry progress events.
func WithReporter(r Reporter) Option {
	return func(a *Archiver) {
		a.reporter = r
	}
}

// WithEnumerator replaces the default WalkEnumerator.
func WithEnumerator(e Enumerator) Option {
	return func(a *Archiver) {
		a.enumerator = e
	}
}

// WithExtension overrides the archive file extension (default ".zip").
func WithExtension(ext string) Option {
	return func(a *Archiver) {
		a.extension = ext
	}
}

// New creates an Archiver for source. Compression must be configured before
// Package is called.
func New(source *Source, opts ...Option) *Archiver {
	a := &Archiver{
		source:     source,
		state:      StateConfigured,
		extension:  archive.Extension,
		enumerator: WalkEnumerator{},
		reporter:   ReporterFunc(func(Event) {}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// State returns the current lifecycle state.
func (a *Archiver) State() State {
	return a.state
}

// Source returns the source being packaged.
func (a *Archiver) Source() *Source {
	return a.source
}

// Config returns the configured compression, or nil before Configure.
func (a *Archiver) Config() *compression.Config {
	return a.config
}

// ArchivePath returns the path the archive is published at.
func (a *Archiver) ArchivePath() (string, error) {
	return filepath.Abs(filepath.Join(a.outputDir, a.source.Name()+a.extension))
}

// Configure sets the compression method and level for every entry.
// Unknown method names resolve to store.
func (a *Archiver) Configure(method string, level int) error {
	if a.state != StateConfigured && a.state != StateReady {
		return errors.Wrapf(errors.ErrInvalidState, "cannot configure archiver in state %s", a.state)
	}
	cfg := compression.Resolve(method, level)
	a.config = &cfg
	a.state = StateReady
	return nil
}

// Package writes the archive. The first error from enumeration, delta
// resolution or writing aborts the run, leaves the Archiver Failed and removes
// the partial output; nothing is published at the archive path.
func (a *Archiver) Package(ctx context.Context) (*Result, error) {
	switch a.state {
	case StateReady:
	case StateConfigured:
		return nil, errors.ErrCompressionUnset
	default:
		return nil, errors.Wrapf(errors.ErrInvalidState, "cannot package in state %s", a.state)
	}
	a.state = StateRunning

	result, err := a.run(ctx)
	if err != nil {
		a.state = StateFailed
		logger.Debug("packaging failed", logger.Fields{"source": a.source.Path(), "error": err.Error()})
		return nil, err
	}
	a.state = StateDone
	return result, nil
}

func (a *Archiver) run(ctx context.Context) (*Result, error) {
	cfg := *a.config
	if !cfg.Method.Supported() {
		return nil, errors.Wrapf(errors.ErrUnsupportedMethod, "cannot write %s entries", cfg.Method)
	}

	archivePath, err := a.ArchivePath()
	if err != nil {
		return nil, errors.WrapKind(errors.ErrOutputCreation, err, "resolve archive path")
	}

	// Enumerate before the output exists so the archive never contains itself.
	entries, err := a.enumerator.Enumerate(a.source)
	if err != nil {
		if !stderrors.Is(err, errors.ErrEnumeration) {
			err = errors.WrapKind(errors.ErrEnumeration, err, "enumerate %s", a.source.Path())
		}
		return nil, err
	}
	logger.Debug("enumerated source", logger.Fields{"source": a.source.Path(), "entries": len(entries)})

	w, err := archive.Create(archivePath)
	if err != nil {
		return nil, err
	}

	canonicalPath := canonicalize(archivePath)
	result := &Result{ArchivePath: archivePath}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			a.abort(w)
			return nil, errors.WrapKind(errors.ErrInterrupted, err, "before %s", entry.Path)
		}
		if entry.Path == canonicalPath {
			logger.Debug("skipping previous archive inside source", logger.Fields{"path": entry.Path})
			continue
		}

		event, err := a.writeEntry(w, entry, cfg)
		if err != nil {
			a.abort(w)
			return nil, err
		}

		if event.Kind == KindDirectory {
			result.Directories++
		} else {
			result.Files++
			result.BytesWritten += event.BytesWritten
			result.ContentLength += event.ContentLength
		}
		a.reporter.Report(event)
	}

	if err := w.Finalize(); err != nil {
		return nil, err
	}
	logger.Debug("archive finalized", logger.Fields{
		"archive":     archivePath,
		"files":       result.Files,
		"directories": result.Directories,
	})
	return result, nil
}

func (a *Archiver) writeEntry(w *archive.Writer, entry Entry, cfg compression.Config) (Event, error) {
	name, err := Delta(entry.Path, a.source)
	if err != nil {
		return Event{}, err
	}

	if entry.IsDir {
		if err := w.AddDirectory(name, cfg, entry.Info); err != nil {
			return Event{}, err
		}
		return Event{Path: entry.Path, Name: name + "/", Kind: KindDirectory}, nil
	}

	file, err := os.Open(entry.Path)
	if err != nil {
		return Event{}, errors.WrapKind(errors.ErrEntryWrite, err, "open %s", entry.Path)
	}
	defer func() { _ = file.Close() }()

	stats, err := w.AddFile(name, file, cfg, entry.Info)
	if err != nil {
		return Event{}, err
	}
	logger.Debug("wrote entry", logger.Fields{
		"name":           name,
		"method":         cfg.String(),
		"bytes_written":  stats.BytesWritten,
		"content_length": stats.ContentLength,
	})

	return Event{
		Path:          entry.Path,
		Name:          name,
		Kind:          KindFile,
		BytesWritten:  stats.BytesWritten,
		ContentLength: stats.ContentLength,
	}, nil
}

// abort discards the partial archive. A temporary file that cannot be removed
// is logged; the run error is what the caller sees.
func (a *Archiver) abort(w *archive.Writer) {
	if err := w.Abort(); err != nil {
		logger.Error("failed to remove partial archive", logger.Fields{"path": w.TempPath(), "error": err.Error()})
	}
}

// canonicalize resolves symlinks in the directory of path so it can be compared
// with enumerated entry paths.
func canonicalize(path string) string {
	dir, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return path
	}
	return filepath.Join(dir, filepath.Base(path))
}
