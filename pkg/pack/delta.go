package pack

import (
	"path/filepath"
	"strings"

	"github.com/glorpus-work/zipack/pkg/errors"
	"github.com/glorpus-work/zipack/pkg/fsutil"
)

// Delta returns the archive entry name for entryPath: the path with the
// source's parent directory stripped, using forward slashes. The result always
// starts with the source name.
func Delta(entryPath string, root *Source) (string, error) {
	cleaned := filepath.Clean(entryPath)
	if !filepath.IsAbs(cleaned) {
		return "", errors.Wrapf(errors.ErrPathResolution, "%s is not absolute", entryPath)
	}

	prefix := root.Parent()
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	if !strings.HasPrefix(cleaned, prefix) || len(cleaned) == len(prefix) {
		return "", errors.Wrapf(errors.ErrPathResolution, "%s is not below %s", entryPath, root.Parent())
	}
	if !fsutil.IsWithin(root.Path(), cleaned) {
		return "", errors.Wrapf(errors.ErrPathResolution, "%s is outside of %s", entryPath, root.Path())
	}

	return filepath.ToSlash(cleaned[len(prefix):]), nil
}
