package relocate

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Copy copies src to dst recursively. Symlinks are recreated, not followed,
// and file permission bits are preserved.
func Copy(fsys types.FS, src, dst string) error {
	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.FromOS(err, "lstat", src)
	}

	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := fsys.Readlink(src)
		if err != nil {
			return errors.FromOS(err, "readlink", src)
		}
		if err := fsys.Symlink(target, dst); err != nil {
			return errors.FromOS(err, "symlink", dst).WithDetail("source", src)
		}
		return nil

	case info.IsDir():
		return copyDir(fsys, src, dst, info.Mode().Perm())

	default:
		data, err := fsys.ReadFile(src)
		if err != nil {
			return errors.FromOS(err, "read", src)
		}
		if err := fsys.WriteFile(dst, data, info.Mode().Perm()); err != nil {
			return errors.FromOS(err, "write", dst).WithDetail("source", src)
		}
		return nil
	}
}

func copyDir(fsys types.FS, src, dst string, perm fs.FileMode) error {
	if err := fsys.MkdirAll(dst, perm|0700); err != nil {
		return errors.FromOS(err, "mkdir", dst).WithDetail("source", src)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.FromOS(err, "readdir", src)
	}
	for _, entry := range entries {
		if err := Copy(fsys, filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
