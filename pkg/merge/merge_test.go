// pkg/merge/merge_test.go
// TEST TYPE: Integration (real filesystem in temp dirs)
// DEPENDENCIES: testutil.WriteTree, testutil.FaultyFS, isolated TMPDIR
// PURPOSE: Verify directory merge semantics, overlap handling and staging cleanup

package merge_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/merge"
	"github.com/arthur-debert/postgen/pkg/testutil"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_DisjointChildren(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{
		"one.txt":      "1",
		"dir/two.txt":  "2",
		".env.example": "KEY=",
		"empty":        testutil.DirMarker,
		"dir/link":     testutil.LinkPrefix + "two.txt",
	})
	testutil.WriteTree(t, b, map[string]string{"existing.txt": "e"})

	require.NoError(t, merge.Merge(filesystem.NewOS(), a, b))

	assert.Equal(t, map[string]string{
		"existing.txt": "e",
		"one.txt":      "1",
		"dir/two.txt":  "2",
		"dir/link":     testutil.LinkPrefix + "two.txt",
		".env.example": "KEY=",
		"empty":        testutil.DirMarker,
	}, testutil.ReadTree(t, b))
	testutil.AssertNotExists(t, a)
	assert.Empty(t, testutil.ListDir(t, tmp), "staging directory must be removed")
}

func TestMerge_SourceFileWins(t *testing.T) {
	testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{"same.txt": "from a"})
	testutil.WriteTree(t, b, map[string]string{"same.txt": "from b"})

	require.NoError(t, merge.Merge(filesystem.NewOS(), a, b))

	assert.Equal(t, map[string]string{"same.txt": "from a"}, testutil.ReadTree(t, b))
}

func TestMerge_DirectoriesUnionRecursively(t *testing.T) {
	testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{
		"src/main.py":          "a-main",
		"src/lib/util.py":      "a-util",
		"src/lib/deeper/x.txt": "a-x",
	})
	testutil.WriteTree(t, b, map[string]string{
		"src/main.py":          "b-main",
		"src/README.md":        "b-readme",
		"src/lib/util.py":      "b-util",
		"src/lib/deeper/y.txt": "b-y",
	})

	require.NoError(t, merge.Merge(filesystem.NewOS(), a, b))

	assert.Equal(t, map[string]string{
		"src/main.py":          "a-main",
		"src/README.md":        "b-readme",
		"src/lib/util.py":      "a-util",
		"src/lib/deeper/x.txt": "a-x",
		"src/lib/deeper/y.txt": "b-y",
	}, testutil.ReadTree(t, b))
}

func TestMerge_IntoParentWithSelfNamedChild(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	parent := t.TempDir()
	project := filepath.Join(parent, "myproj")
	testutil.WriteTree(t, project, map[string]string{
		"setup.py":           "setup",
		"myproj/__init__.py": "pkg",
		"myproj/core.py":     "core",
	})
	testutil.WriteTree(t, parent, map[string]string{"notes.txt": "keep"})

	require.NoError(t, merge.Merge(filesystem.NewOS(), project, parent))

	assert.Equal(t, map[string]string{
		"notes.txt":          "keep",
		"setup.py":           "setup",
		"myproj/__init__.py": "pkg",
		"myproj/core.py":     "core",
	}, testutil.ReadTree(t, parent))
	assert.Empty(t, testutil.ListDir(t, tmp))
}

func TestMerge_EmptySource(t *testing.T) {
	testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, nil)

	require.NoError(t, merge.Merge(filesystem.NewOS(), a, b))

	testutil.AssertNotExists(t, a)
	assert.Empty(t, testutil.ListDir(t, b))
}

func TestMerge_FailureCleansStagingAndRestoresSource(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{
		"first.txt":  "1",
		"locked.txt": "2",
		"third.txt":  "3",
	})
	testutil.WriteTree(t, b, nil)

	faulty := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpMkdirAll, b, fs.ErrPermission)

	err := merge.Merge(faulty, a, b)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPermissionFailure))
	assert.Equal(t, "drain", errors.GetErrorDetails(err)["pass"])

	require.Len(t, faulty.TempDirs(), 1)
	testutil.AssertNotExists(t, faulty.TempDirs()[0])
	assert.Empty(t, testutil.ListDir(t, tmp))

	// Nothing reached the destination, so everything is back in the source
	assert.Equal(t, map[string]string{
		"first.txt":  "1",
		"locked.txt": "2",
		"third.txt":  "3",
	}, testutil.ReadTree(t, a))
}

func TestMerge_FailureDuringStaging(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{"a.txt": "a", "b.txt": "b"})

	faulty := testutil.NewFaultyFS(filesystem.NewOS()).
		WithError(testutil.OpRename, filepath.Join(a, "b.txt"), fs.ErrPermission)

	err := merge.Merge(faulty, a, b)

	require.Error(t, err)
	assert.Equal(t, "stage", errors.GetErrorDetails(err)["pass"])
	assert.Empty(t, testutil.ListDir(t, tmp))
	assert.Equal(t, map[string]string{"a.txt": "a", "b.txt": "b"}, testutil.ReadTree(t, a))
}

func TestMerge_RejectsOverlappingLayouts(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	testutil.WriteTree(t, a, map[string]string{"x": "x"})

	err := merge.Merge(filesystem.NewOS(), a, a)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	err = merge.Merge(filesystem.NewOS(), a, filepath.Join(a, "inner"))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	assert.Equal(t, map[string]string{"x": "x"}, testutil.ReadTree(t, a))
}

func TestMerge_RejectsSourceChildClashingWithAncestorPath(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	root := t.TempDir()
	src := filepath.Join(root, "a", "b")
	testutil.WriteTree(t, src, map[string]string{"a/x.txt": "x"})

	err := merge.Merge(filesystem.NewOS(), src, root)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Equal(t, map[string]string{"a/b/a/x.txt": "x"}, testutil.ReadTree(t, root))
	assert.Empty(t, testutil.ListDir(t, tmp))
}

func TestMerge_IntoGrandparentWithoutClash(t *testing.T) {
	testutil.IsolateTempDir(t)
	root := t.TempDir()
	src := filepath.Join(root, "a", "b")
	testutil.WriteTree(t, src, map[string]string{"x.txt": "x"})

	require.NoError(t, merge.Merge(filesystem.NewOS(), src, root))

	assert.Equal(t, map[string]string{
		"a":     testutil.DirMarker,
		"x.txt": "x",
	}, testutil.ReadTree(t, root))
}

// fullDiskFS forces the cross-device copy path and fails every write into
// the staging area after persisting half of the data.
type fullDiskFS struct {
	types.FS
}

func (f fullDiskFS) Rename(oldpath, newpath string) error {
	return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
}

func (f fullDiskFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if !strings.Contains(name, strings.TrimSuffix(merge.StagingPattern, "*")) {
		return f.FS.WriteFile(name, data, perm)
	}
	if err := f.FS.WriteFile(name, data[:len(data)/2], perm); err != nil {
		return err
	}
	return &fs.PathError{Op: "write", Path: name, Err: syscall.ENOSPC}
}

func TestMerge_PartialStagingCopyKeepsSourceIntact(t *testing.T) {
	tmp := testutil.IsolateTempDir(t)
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	testutil.WriteTree(t, a, map[string]string{"big.txt": "0123456789ABCDEFGHIJ"})

	err := merge.Merge(fullDiskFS{FS: filesystem.NewOS()}, a, b)

	require.Error(t, err)
	assert.Equal(t, map[string]string{"big.txt": "0123456789ABCDEFGHIJ"}, testutil.ReadTree(t, a))
	testutil.AssertNotExists(t, b)
	assert.Empty(t, testutil.ListDir(t, tmp))
}

func TestMerge_MissingSource(t *testing.T) {
	root := t.TempDir()

	err := merge.Merge(filesystem.NewOS(), filepath.Join(root, "nope"), filepath.Join(root, "b"))

	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
}
