package relocate

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"syscall"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Relocate moves sourceDir/name so that it becomes destDir/name.
// destDir is created when missing. After success sourceDir/name no longer exists.
func Relocate(fsys types.FS, sourceDir, destDir, name string) error {
	logger := logging.GetLogger("relocate")

	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.Newf(errors.ErrInvalidInput, "invalid entry name %q", name)
	}

	src := filepath.Join(sourceDir, name)
	dst := filepath.Join(destDir, name)

	info, err := fsys.Lstat(src)
	if err != nil {
		return errors.FromOS(err, "lstat", src).WithDetail("destination", dst)
	}

	if err := fsys.MkdirAll(destDir, 0755); err != nil {
		return errors.FromOS(err, "mkdir", destDir).WithDetail("source", src)
	}

	logger.Trace().
		Str("source", src).
		Str("destination", dst).
		Bool("dir", info.IsDir()).
		Msg("Relocating entry")

	if info.IsDir() {
		return mergeDir(fsys, src, dst)
	}
	return replaceLeaf(fsys, src, dst)
}

// Move renames src to dst as a whole, without merging. dst must not exist.
// A rename across devices is replaced by a copy followed by removal of src;
// when the copy fails, whatever was written to dst is removed again.
func Move(fsys types.FS, src, dst string) error {
	err := fsys.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return errors.FromOS(err, "rename", src).WithDetail("destination", dst)
	}

	logger := logging.GetLogger("relocate")
	logger.Debug().
		Str("source", src).
		Str("destination", dst).
		Msg("Rename crosses devices, copying instead")

	if err := Copy(fsys, src, dst); err != nil {
		// A partial copy must not survive next to the intact source
		if rmErr := fsys.RemoveAll(dst); rmErr != nil {
			logger.Error().Err(rmErr).Str("destination", dst).Msg("Failed to remove partial copy")
		}
		return err
	}
	if err := fsys.RemoveAll(src); err != nil {
		return errors.FromOS(err, "remove", src).WithDetail("destination", dst)
	}
	return nil
}

// replaceLeaf moves a file or symlink over whatever is at dst
func replaceLeaf(fsys types.FS, src, dst string) error {
	if err := clearPath(fsys, dst); err != nil {
		return err
	}
	return Move(fsys, src, dst)
}

// mergeDir merges the directory src into dst, then removes src
func mergeDir(fsys types.FS, src, dst string) error {
	dstInfo, err := fsys.Lstat(dst)
	switch {
	case isNotExist(err):
		return Move(fsys, src, dst)
	case err != nil:
		return errors.FromOS(err, "lstat", dst).WithDetail("source", src)
	case !dstInfo.IsDir():
		// A file or link in the way is replaced by the whole directory
		if err := clearPath(fsys, dst); err != nil {
			return err
		}
		return Move(fsys, src, dst)
	}

	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.FromOS(err, "readdir", src).WithDetail("destination", dst)
	}
	for _, entry := range entries {
		if err := Relocate(fsys, src, dst, entry.Name()); err != nil {
			return err
		}
	}

	if err := fsys.Remove(src); err != nil {
		return errors.FromOS(err, "remove", src).WithDetail("destination", dst)
	}
	return nil
}

// clearPath removes path if something is there
func clearPath(fsys types.FS, path string) error {
	info, err := fsys.Lstat(path)
	if isNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.FromOS(err, "lstat", path)
	}
	if info.IsDir() {
		err = fsys.RemoveAll(path)
	} else {
		err = fsys.Remove(path)
	}
	if err != nil {
		return errors.FromOS(err, "remove", path)
	}
	return nil
}

func isNotExist(err error) bool {
	return err != nil && stderrors.Is(err, fs.ErrNotExist)
}

func isCrossDevice(err error) bool {
	return stderrors.Is(err, syscall.EXDEV)
}
