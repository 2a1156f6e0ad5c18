package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDir(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), FileModeDefault))

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{name: "existing directory", path: tempDir, expected: true},
		{name: "regular file", path: filePath, expected: false},
		{name: "missing path", path: filepath.Join(tempDir, "missing"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := IsDir(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ok)
		})
	}
}

func TestIsWithin(t *testing.T) {
	sep := string(filepath.Separator)
	base := filepath.Join(sep+"work", "proj")

	tests := []struct {
		name     string
		base     string
		target   string
		expected bool
	}{
		{name: "same path", base: base, target: base, expected: true},
		{name: "direct child", base: base, target: filepath.Join(base, "a.txt"), expected: true},
		{name: "nested child", base: base, target: filepath.Join(base, "sub", "b.txt"), expected: true},
		{name: "sibling with shared prefix", base: base, target: base + "-old", expected: false},
		{name: "parent", base: base, target: filepath.Dir(base), expected: false},
		{name: "unclean target", base: base, target: base + sep + "sub" + sep + ".." + sep + "a.txt", expected: true},
		{name: "filesystem root base", base: sep, target: filepath.Join(sep+"etc", "hosts"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsWithin(tt.base, tt.target))
		})
	}
}
