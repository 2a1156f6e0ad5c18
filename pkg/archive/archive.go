// Package archive writes ZIP archives entry by entry and inspects the archives
// it produced.
package archive

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/mholt/archives"

	"github.com/glorpus-work/zipack/pkg/compression"
	"github.com/glorpus-work/zipack/pkg/errors"
)

// EntryInfo describes one entry found in an archive.
type EntryInfo struct {
	Name           string
	IsDir          bool
	Method         string
	Size           int64
	CompressedSize int64
}

// Manager handles read-side archive operations.
type Manager struct{}

// NewManager creates a new Manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// Inspect lists every entry of the archive at archivePath in container order.
// File entries are read to the end so that corrupt data or checksum
// mismatches surface as errors.
func (am *Manager) Inspect(ctx context.Context, archivePath string) ([]EntryInfo, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive file %s", archivePath)
	}
	defer func() { _ = file.Close() }()

	var entries []EntryInfo
	handler := func(_ context.Context, info archives.FileInfo) error {
		entry := EntryInfo{
			Name:  info.NameInArchive,
			IsDir: info.IsDir() || strings.HasSuffix(info.NameInArchive, "/"),
		}
		if fh, ok := zipHeader(info.Header); ok {
			entry.Name = fh.Name
			entry.CompressedSize = int64(fh.CompressedSize64)
			entry.Size = int64(fh.UncompressedSize64)
			entry.Method = methodName(fh.Method)
		}

		if !entry.IsDir {
			n, err := am.drain(info)
			if err != nil {
				return err
			}
			entry.Size = n
		}

		entries = append(entries, entry)
		return nil
	}

	if err := (archives.Zip{}).Extract(ctx, file, handler); err != nil {
		return nil, errors.Wrapf(err, "failed to read archive %s", archivePath)
	}
	return entries, nil
}

// drain reads an entry's content to EOF, letting the decompressor verify it.
func (am *Manager) drain(info archives.FileInfo) (int64, error) {
	rc, err := info.Open()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to open entry %s", info.NameInArchive)
	}
	defer func() { _ = rc.Close() }()

	n, err := io.Copy(io.Discard, rc)
	if err != nil {
		return n, errors.Wrapf(err, "failed to read entry %s", info.NameInArchive)
	}
	return n, nil
}

// zipHeader extracts the entry header archives.Zip attaches to each file. It
// reads with klauspost/compress/zip, not the writer's container package.
func zipHeader(header any) (zip.FileHeader, bool) {
	switch h := header.(type) {
	case zip.FileHeader:
		return h, true
	case *zip.FileHeader:
		if h != nil {
			return *h, true
		}
	}
	return zip.FileHeader{}, false
}

func methodName(id uint16) string {
	if m, ok := compression.MethodForZip(id); ok {
		return m.String()
	}
	return "unknown"
}
