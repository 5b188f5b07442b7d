package testutil

import (
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/arthur-debert/postgen/pkg/types"
)

// Operation names accepted by FaultyFS.WithError
const (
	OpStat      = "stat"
	OpLstat     = "lstat"
	OpReadFile  = "readfile"
	OpWriteFile = "writefile"
	OpMkdirAll  = "mkdirall"
	OpReadDir   = "readdir"
	OpMkdirTemp = "mkdirtemp"
	OpSymlink   = "symlink"
	OpReadlink  = "readlink"
	OpRename    = "rename"
	OpRemove    = "remove"
	OpRemoveAll = "removeall"
)

// AnyPath makes an injected error apply to every path of an operation
const AnyPath = "*"

// FaultyFS wraps another filesystem and fails selected operations
type FaultyFS struct {
	inner types.FS

	mu       sync.Mutex
	errors   map[string]map[string]error
	tempDirs []string
	calls    map[string]int
}

// NewFaultyFS wraps inner. Without injected errors it is a pass-through.
func NewFaultyFS(inner types.FS) *FaultyFS {
	return &FaultyFS{
		inner:  inner,
		errors: make(map[string]map[string]error),
		calls:  make(map[string]int),
	}
}

// WithError makes op fail with err for path (or AnyPath). For rename the
// path is matched against the source path.
func (f *FaultyFS) WithError(op, path string, err error) *FaultyFS {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.errors[op] == nil {
		f.errors[op] = make(map[string]error)
	}
	if path != AnyPath {
		path = filepath.Clean(path)
	}
	f.errors[op][path] = err
	return f
}

// TempDirs returns every directory created through MkdirTemp
func (f *FaultyFS) TempDirs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tempDirs...)
}

// Calls returns how many times op was invoked
func (f *FaultyFS) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *FaultyFS) check(op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++
	byPath := f.errors[op]
	if byPath == nil {
		return nil
	}
	if err, ok := byPath[filepath.Clean(path)]; ok {
		return err
	}
	return byPath[AnyPath]
}

func (f *FaultyFS) Stat(name string) (fs.FileInfo, error) {
	if err := f.check(OpStat, name); err != nil {
		return nil, &fs.PathError{Op: OpStat, Path: name, Err: err}
	}
	return f.inner.Stat(name)
}

func (f *FaultyFS) Lstat(name string) (fs.FileInfo, error) {
	if err := f.check(OpLstat, name); err != nil {
		return nil, &fs.PathError{Op: OpLstat, Path: name, Err: err}
	}
	return f.inner.Lstat(name)
}

func (f *FaultyFS) ReadFile(name string) ([]byte, error) {
	if err := f.check(OpReadFile, name); err != nil {
		return nil, &fs.PathError{Op: OpReadFile, Path: name, Err: err}
	}
	return f.inner.ReadFile(name)
}

func (f *FaultyFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if err := f.check(OpWriteFile, name); err != nil {
		return &fs.PathError{Op: OpWriteFile, Path: name, Err: err}
	}
	return f.inner.WriteFile(name, data, perm)
}

func (f *FaultyFS) MkdirAll(path string, perm fs.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return &fs.PathError{Op: OpMkdirAll, Path: path, Err: err}
	}
	return f.inner.MkdirAll(path, perm)
}

func (f *FaultyFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if err := f.check(OpReadDir, name); err != nil {
		return nil, &fs.PathError{Op: OpReadDir, Path: name, Err: err}
	}
	return f.inner.ReadDir(name)
}

func (f *FaultyFS) MkdirTemp(dir, pattern string) (string, error) {
	if err := f.check(OpMkdirTemp, dir); err != nil {
		return "", &fs.PathError{Op: OpMkdirTemp, Path: dir, Err: err}
	}
	name, err := f.inner.MkdirTemp(dir, pattern)
	if err == nil {
		f.mu.Lock()
		f.tempDirs = append(f.tempDirs, name)
		f.mu.Unlock()
	}
	return name, err
}

func (f *FaultyFS) Symlink(oldname, newname string) error {
	if err := f.check(OpSymlink, newname); err != nil {
		return &fs.PathError{Op: OpSymlink, Path: newname, Err: err}
	}
	return f.inner.Symlink(oldname, newname)
}

func (f *FaultyFS) Readlink(name string) (string, error) {
	if err := f.check(OpReadlink, name); err != nil {
		return "", &fs.PathError{Op: OpReadlink, Path: name, Err: err}
	}
	return f.inner.Readlink(name)
}

func (f *FaultyFS) Rename(oldpath, newpath string) error {
	if err := f.check(OpRename, oldpath); err != nil {
		return &fs.PathError{Op: OpRename, Path: oldpath, Err: err}
	}
	return f.inner.Rename(oldpath, newpath)
}

func (f *FaultyFS) Remove(name string) error {
	if err := f.check(OpRemove, name); err != nil {
		return &fs.PathError{Op: OpRemove, Path: name, Err: err}
	}
	return f.inner.Remove(name)
}

func (f *FaultyFS) RemoveAll(path string) error {
	if err := f.check(OpRemoveAll, path); err != nil {
		return &fs.PathError{Op: OpRemoveAll, Path: path, Err: err}
	}
	return f.inner.RemoveAll(path)
}

var _ types.FS = (*FaultyFS)(nil)
