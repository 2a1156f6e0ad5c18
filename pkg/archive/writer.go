package archive

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/STARRY-S/zip"

	"github.com/glorpus-work/zipack/pkg/compression"
	"github.com/glorpus-work/zipack/pkg/errors"
	"github.com/glorpus-work/zipack/pkg/fsutil"
)

// DefaultBufferSize is the chunk size used to stream file contents into entries.
const DefaultBufferSize = 32 * 1024

// Extension is appended to the source name to form the archive file name.
const Extension = ".zip"

// Stats describes a single file entry after it has been written.
type Stats struct {
	// BytesWritten is the number of compressed bytes emitted into the container.
	BytesWritten int64
	// ContentLength is the number of bytes read from the source.
	ContentLength int64
}

// Writer writes entries into a ZIP container backed by a temporary file next
// to the destination. The destination only appears once Finalize succeeds.
type Writer struct {
	path    string
	file    *os.File
	zw      *zip.Writer
	pending compression.Config
	current *entryCodec
	buf     []byte
	closed  bool
}

// Create opens a new archive that will be published at destPath on Finalize.
func Create(destPath string) (*Writer, error) {
	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return nil, errors.WrapKind(errors.ErrOutputCreation, err, "resolve %s", destPath)
	}

	isDir, err := fsutil.IsDir(absPath)
	if err != nil {
		return nil, errors.WrapKind(errors.ErrOutputCreation, err, "stat %s", absPath)
	}
	if isDir {
		return nil, errors.Wrapf(errors.ErrOutputCreation, "%s is a directory", absPath)
	}

	dir, base := filepath.Split(absPath)
	file, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return nil, errors.WrapKind(errors.ErrOutputCreation, err, "create temporary file for %s", absPath)
	}

	w := &Writer{
		path: absPath,
		file: file,
		zw:   zip.NewWriter(file),
		buf:  make([]byte, DefaultBufferSize),
	}
	for _, m := range []compression.Method{compression.Store, compression.Deflate, compression.Bzip2, compression.Zstd} {
		w.zw.RegisterCompressor(m.ZipMethod(), w.compressor)
	}
	return w, nil
}

// Path returns the destination path of the archive.
func (w *Writer) Path() string {
	return w.path
}

// TempPath returns the path of the temporary file entries are written to.
func (w *Writer) TempPath() string {
	return w.file.Name()
}

// AddDirectory writes a zero-length directory marker named name + "/".
// Directory markers are always stored; cfg only needs to name a writable method.
func (w *Writer) AddDirectory(name string, cfg compression.Config, info fs.FileInfo) error {
	if w.closed {
		return errors.ErrWriterClosed
	}
	if !cfg.Method.Supported() {
		return errors.Wrapf(errors.ErrUnsupportedMethod, "directory %s with method %s", name, cfg.Method)
	}
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}

	fh, err := newHeader(name, info)
	if err != nil {
		return errors.WrapKind(errors.ErrEntryWrite, err, "directory header %s", name)
	}
	fh.Method = compression.Store.ZipMethod()

	if _, err := w.zw.CreateHeader(fh); err != nil {
		return errors.WrapKind(errors.ErrEntryWrite, err, "add directory %s", name)
	}
	return nil
}

// AddFile opens a new entry called name, streams r through the codec selected
// by cfg and returns how many compressed bytes were written for how many bytes
// of content.
func (w *Writer) AddFile(name string, r io.Reader, cfg compression.Config, info fs.FileInfo) (Stats, error) {
	if w.closed {
		return Stats{}, errors.ErrWriterClosed
	}
	if !cfg.Method.Supported() {
		return Stats{}, errors.Wrapf(errors.ErrUnsupportedMethod, "file %s with method %s", name, cfg.Method)
	}

	fh, err := newHeader(name, info)
	if err != nil {
		return Stats{}, errors.WrapKind(errors.ErrEntryWrite, err, "file header %s", name)
	}
	fh.Method = cfg.Method.ZipMethod()

	w.pending = cfg
	w.current = nil
	ew, err := w.zw.CreateHeader(fh)
	if err != nil {
		return Stats{}, errors.WrapKind(errors.ErrEntryWrite, err, "add file %s", name)
	}
	codec := w.current
	if codec == nil {
		return Stats{}, errors.Wrapf(errors.ErrEntryWrite, "no compressor opened for %s", name)
	}

	n, err := io.CopyBuffer(ew, r, w.buf)
	if err != nil {
		_ = codec.finish()
		return Stats{}, errors.WrapKind(errors.ErrEntryWrite, err, "write %s", name)
	}
	// The container closes the codec lazily; finish it now so the count is final.
	if err := codec.finish(); err != nil {
		return Stats{}, errors.WrapKind(errors.ErrEntryWrite, err, "flush %s", name)
	}

	return Stats{BytesWritten: codec.out.n, ContentLength: n}, nil
}

// Finalize writes the central directory, closes the temporary file and moves
// it to the destination path. The writer cannot be used afterwards.
func (w *Writer) Finalize() error {
	if w.closed {
		return errors.ErrWriterClosed
	}
	w.closed = true
	tempPath := w.file.Name()

	if err := w.zw.Close(); err != nil {
		w.discard()
		return errors.WrapKind(errors.ErrFinalize, err, "write central directory")
	}
	// Ensure data is flushed before the rename publishes the archive
	if err := w.file.Sync(); err != nil {
		w.discard()
		return errors.WrapKind(errors.ErrFinalize, err, "sync %s", tempPath)
	}
	if err := w.file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapKind(errors.ErrFinalize, err, "close %s", tempPath)
	}
	if err := os.Rename(tempPath, w.path); err != nil {
		_ = os.Remove(tempPath)
		return errors.WrapKind(errors.ErrFinalize, err, "rename %s to %s", tempPath, w.path)
	}
	if err := os.Chmod(w.path, fsutil.FileModeDefault); err != nil {
		return errors.WrapKind(errors.ErrFinalize, err, "set permissions on %s", w.path)
	}
	return nil
}

// Abort releases the output handle and removes the temporary file. It does
// nothing once the writer has been finalized.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if w.current != nil {
		_ = w.current.finish()
	}
	return w.discard()
}

func (w *Writer) discard() error {
	_ = w.file.Close()
	if err := os.Remove(w.file.Name()); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// compressor is registered on the container for every writable method and
// builds the codec for the entry currently being opened.
func (w *Writer) compressor(out io.Writer) (io.WriteCloser, error) {
	cw := &countingWriter{w: out}
	codec, err := w.pending.NewCompressor(cw)
	if err != nil {
		return nil, err
	}
	w.current = &entryCodec{codec: codec, out: cw}
	return w.current, nil
}

func newHeader(name string, info fs.FileInfo) (*zip.FileHeader, error) {
	if info == nil {
		return &zip.FileHeader{Name: name}, nil
	}
	fh, err := zip.FileInfoHeader(info)
	if err != nil {
		return nil, err
	}
	fh.Name = name
	return fh, nil
}

// entryCodec lets the writer close the codec before the container does.
type entryCodec struct {
	codec  io.WriteCloser
	out    *countingWriter
	closed bool
	err    error
}

func (e *entryCodec) Write(p []byte) (int, error) {
	return e.codec.Write(p)
}

func (e *entryCodec) Close() error {
	return e.finish()
}

func (e *entryCodec) finish() error {
	if e.closed {
		return e.err
	}
	e.closed = true
	e.err = e.codec.Close()
	return e.err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
