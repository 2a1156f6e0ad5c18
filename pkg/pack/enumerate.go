package pack

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/glorpus-work/zipack/pkg/errors"
)

// WalkEnumerator lists a source tree with filepath.WalkDir. Entries come in
// walk order, which is lexical within each directory.
type WalkEnumerator struct{}

// Enumerate returns every file and directory below root. The root itself is
// not included. Any traversal error aborts the enumeration.
func (WalkEnumerator) Enumerate(root *Source) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(root.Path(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapKind(errors.ErrEnumeration, err, "error accessing path %s", path)
		}
		if path == root.Path() {
			return nil
		}

		info, err := entryInfo(path, d)
		if err != nil {
			return errors.WrapKind(errors.ErrEnumeration, err, "error reading %s", path)
		}

		entries = append(entries, Entry{
			Path:  path,
			IsDir: info.IsDir(),
			Info:  info,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// entryInfo describes path, following a symlink to its target so that it is
// archived as whatever it points to. Symlinked directories are not descended.
func entryInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		return os.Stat(path)
	}
	return d.Info()
}
