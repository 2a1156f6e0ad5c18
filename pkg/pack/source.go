package pack

import (
	"os"
	"path/filepath"

	"github.com/glorpus-work/zipack/pkg/errors"
)

// Source is a canonicalized source directory. Its path, parent and name are
// captured once so later delta computations do not depend on the working
// directory.
type Source struct {
	path   string
	parent string
	name   string
}

// NewSource validates that path is an existing directory and canonicalizes it.
func NewSource(path string) (*Source, error) {
	if path == "" {
		return nil, errors.Wrap(errors.ErrInvalidSource, "source path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapKind(errors.ErrInvalidSource, err, "%q", path)
	}
	canonical, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, errors.WrapKind(errors.ErrInvalidSource, err, "%q does not exist or is not a directory", path)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, errors.WrapKind(errors.ErrInvalidSource, err, "%q does not exist or is not a directory", path)
	}
	if !info.IsDir() {
		return nil, errors.Wrapf(errors.ErrInvalidSource, "%q does not exist or is not a directory", path)
	}

	parent := filepath.Dir(canonical)
	if parent == canonical {
		return nil, errors.Wrapf(errors.ErrInvalidSource, "%q is a filesystem root", path)
	}

	return &Source{
		path:   canonical,
		parent: parent,
		name:   filepath.Base(canonical),
	}, nil
}

// Path returns the canonical absolute path of the source directory.
func (s *Source) Path() string {
	return s.path
}

// Parent returns the canonical directory containing the source.
func (s *Source) Parent() string {
	return s.parent
}

// Name returns the directory name. It names the archive and its top-level folder.
func (s *Source) Name() string {
	return s.name
}

func (s *Source) String() string {
	return s.path
}
