package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// DirMarker as a WriteTree value creates an empty directory instead of a file
const DirMarker = "<dir>"

// LinkPrefix as a WriteTree value prefix creates a symlink to the rest of the value
const LinkPrefix = "-> "

// WriteTree creates files under root. Keys are slash separated relative
// paths, values are file contents, DirMarker or LinkPrefix+target.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(root, 0755))
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		switch {
		case content == DirMarker:
			require.NoError(t, os.MkdirAll(path, 0755))
		case strings.HasPrefix(content, LinkPrefix):
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.Symlink(strings.TrimPrefix(content, LinkPrefix), path))
		default:
			require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
			require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		}
	}
}

// ReadTree returns every entry under root in the WriteTree format.
// Directories are only listed when empty.
func ReadTree(t *testing.T, root string) map[string]string {
	t.Helper()

	tree := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			tree[rel] = LinkPrefix + target
		case d.IsDir():
			entries, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				tree[rel] = DirMarker
			}
		default:
			content, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree[rel] = string(content)
		}
		return nil
	})
	require.NoError(t, err)
	return tree
}

// AssertNotExists fails the test when path exists
func AssertNotExists(t *testing.T, path string) {
	t.Helper()

	_, err := os.Lstat(path)
	require.Truef(t, os.IsNotExist(err), "expected %s to be gone, stat err = %v", path, err)
}

// IsolateTempDir points the platform temp directory at a fresh directory
// and returns it, so tests can assert nothing is left behind.
func IsolateTempDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	t.Setenv("TMP", dir)
	t.Setenv("TEMP", dir)
	return dir
}

// ListDir returns the entry names of dir
func ListDir(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
