package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/STARRY-S/zip"
	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/zipack/pkg/compression"
	zerrors "github.com/glorpus-work/zipack/pkg/errors"
)

// openZip opens an archive with decompressors for every method the writer produces.
func openZip(t *testing.T, path string) *zip.ReadCloser {
	t.Helper()
	r, err := zip.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })

	r.RegisterDecompressor(compression.Zstd.ZipMethod(), func(in io.Reader) io.ReadCloser {
		dec, err := zstd.NewReader(in, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return io.NopCloser(errReader{err})
		}
		return dec.IOReadCloser()
	})
	r.RegisterDecompressor(compression.Bzip2.ZipMethod(), func(in io.Reader) io.ReadCloser {
		dec, err := bzip2.NewReader(in, nil)
		if err != nil {
			return io.NopCloser(errReader{err})
		}
		return dec
	})
	return r
}

type errReader struct{ err error }

func (e errReader) Read([]byte) (int, error) { return 0, e.err }

func readEntry(t *testing.T, f *zip.File) []byte {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestWriter_AllMethods(t *testing.T) {
	payload := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog\n"), 1000)

	methods := []compression.Method{compression.Store, compression.Deflate, compression.Bzip2, compression.Zstd}
	for _, method := range methods {
		t.Run(method.String(), func(t *testing.T) {
			dest := filepath.Join(t.TempDir(), "proj.zip")
			cfg := compression.Config{Method: method, Level: 6}

			w, err := Create(dest)
			require.NoError(t, err)

			require.NoError(t, w.AddDirectory("proj/sub", cfg, nil))
			stats, err := w.AddFile("proj/sub/data.txt", bytes.NewReader(payload), cfg, nil)
			require.NoError(t, err)
			empty, err := w.AddFile("proj/empty.txt", bytes.NewReader(nil), cfg, nil)
			require.NoError(t, err)
			require.NoError(t, w.Finalize())

			assert.Equal(t, int64(len(payload)), stats.ContentLength)
			assert.Equal(t, int64(0), empty.ContentLength)
			if method == compression.Store {
				assert.Equal(t, stats.ContentLength, stats.BytesWritten)
				assert.Equal(t, int64(0), empty.BytesWritten)
			} else {
				assert.Less(t, stats.BytesWritten, stats.ContentLength)
			}

			r := openZip(t, dest)
			require.Len(t, r.File, 3)
			assert.Equal(t, "proj/sub/", r.File[0].Name)
			assert.True(t, r.File[0].FileInfo().IsDir())
			assert.Equal(t, compression.Store.ZipMethod(), r.File[0].Method)

			assert.Equal(t, "proj/sub/data.txt", r.File[1].Name)
			assert.Equal(t, method.ZipMethod(), r.File[1].Method)
			assert.Equal(t, uint64(stats.BytesWritten), r.File[1].CompressedSize64)
			assert.Equal(t, payload, readEntry(t, r.File[1]))

			assert.Equal(t, "proj/empty.txt", r.File[2].Name)
			assert.Empty(t, readEntry(t, r.File[2]))
		})
	}
}

func TestWriter_DestinationOnlyAppearsOnFinalize(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "proj.zip")
	cfg := compression.Config{Method: compression.Deflate, Level: 1}

	w, err := Create(dest)
	require.NoError(t, err)
	assert.Equal(t, dest, w.Path())
	assert.Equal(t, dir, filepath.Dir(w.TempPath()))

	_, err = w.AddFile("proj/a.txt", bytes.NewReader([]byte("0123456789")), cfg, nil)
	require.NoError(t, err)

	assert.NoFileExists(t, dest)
	assert.FileExists(t, w.TempPath())

	require.NoError(t, w.Finalize())
	assert.FileExists(t, dest)
	assert.NoFileExists(t, w.TempPath())

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.False(t, info.IsDir())
}

func TestWriter_Abort(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "proj.zip")
	cfg := compression.Config{Method: compression.Zstd, Level: 3}

	w, err := Create(dest)
	require.NoError(t, err)
	_, err = w.AddFile("proj/a.txt", bytes.NewReader([]byte("partial")), cfg, nil)
	require.NoError(t, err)

	require.NoError(t, w.Abort())
	assert.NoFileExists(t, dest)
	assert.NoFileExists(t, w.TempPath())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Abort is idempotent and the writer stays closed.
	require.NoError(t, w.Abort())
	assert.ErrorIs(t, w.AddDirectory("proj", cfg, nil), zerrors.ErrWriterClosed)
}

func TestWriter_FinalizeOnce(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "proj.zip")
	cfg := compression.Config{Method: compression.Store}

	w, err := Create(dest)
	require.NoError(t, err)
	require.NoError(t, w.Finalize())

	assert.ErrorIs(t, w.Finalize(), zerrors.ErrWriterClosed)
	_, err = w.AddFile("proj/a.txt", bytes.NewReader(nil), cfg, nil)
	assert.ErrorIs(t, err, zerrors.ErrWriterClosed)
	assert.NoError(t, w.Abort())
	assert.FileExists(t, dest)
}

func TestCreate_Errors(t *testing.T) {
	t.Run("destination is a directory", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "proj.zip")
		require.NoError(t, os.Mkdir(dest, 0o755))

		_, err := Create(dest)
		require.Error(t, err)
		assert.ErrorIs(t, err, zerrors.ErrOutputCreation)
	})

	t.Run("missing parent directory", func(t *testing.T) {
		dest := filepath.Join(t.TempDir(), "missing", "proj.zip")

		_, err := Create(dest)
		require.Error(t, err)
		assert.ErrorIs(t, err, zerrors.ErrOutputCreation)
	})
}

func TestWriter_UnsupportedMethod(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "proj.zip")
	cfg := compression.Config{Method: compression.AES}

	w, err := Create(dest)
	require.NoError(t, err)
	defer func() { _ = w.Abort() }()

	_, err = w.AddFile("proj/a.txt", bytes.NewReader([]byte("secret")), cfg, nil)
	assert.ErrorIs(t, err, zerrors.ErrUnsupportedMethod)
	assert.ErrorIs(t, w.AddDirectory("proj/sub", cfg, nil), zerrors.ErrUnsupportedMethod)
}

type failingReader struct{ after int }

func (f *failingReader) Read(p []byte) (int, error) {
	if f.after <= 0 {
		return 0, errors.New("device not ready")
	}
	n := min(len(p), f.after)
	f.after -= n
	return n, nil
}

func TestWriter_ReadFailure(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "proj.zip")
	cfg := compression.Config{Method: compression.Deflate, Level: 5}

	w, err := Create(dest)
	require.NoError(t, err)

	_, err = w.AddFile("proj/a.txt", &failingReader{after: 100}, cfg, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, zerrors.ErrEntryWrite)
	assert.Contains(t, err.Error(), "device not ready")

	require.NoError(t, w.Abort())
	assert.NoFileExists(t, dest)
}
