// Package merge merges the children of one directory into another through
// a private staging directory.
//
// Staging makes it safe to merge a directory into a location that overlaps
// it on disk, for example merging <dir>/<name> into <dir> when the tree
// itself contains a <name> entry.
//
// Merging into an ancestor more than one level up is refused when the source
// holds a child named like the top directory on the path between them: for
// <dir>/a/b into <dir>, an "a" child would be merged back over the source.
package merge

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/relocate"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/rs/zerolog"
)

// StagingPattern names the temporary directory created by each merge
const StagingPattern = "postgen-merge-*"

// Merge relocates every child of sourceDir into destDir and removes
// sourceDir. Same-named files in destDir are overwritten and same-named
// directories are merged recursively.
//
// The merge is not transactional. On failure entries already staged are
// moved back into sourceDir where possible, and the staging directory is
// always removed.
func Merge(fsys types.FS, sourceDir, destDir string) (err error) {
	logger := logging.GetLogger("merge")
	done := logging.LogOperationStart(logger, "merge")
	defer done()

	src, dst, err := checkPaths(fsys, sourceDir, destDir)
	if err != nil {
		return err
	}

	// Snapshot before anything moves
	entries, err := fsys.ReadDir(src)
	if err != nil {
		return errors.FromOS(err, "readdir", src)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	if err := checkAncestorClash(src, dst, names); err != nil {
		return err
	}

	staging, err := fsys.MkdirTemp("", StagingPattern)
	if err != nil {
		return errors.FromOS(err, "mkdirtemp", "staging")
	}
	logger.Debug().
		Str("source", src).
		Str("destination", dst).
		Str("staging", staging).
		Int("entries", len(names)).
		Msg("Merging directory")

	defer func() {
		if err != nil {
			restore(fsys, logger, staging, src)
		}
		if rmErr := fsys.RemoveAll(staging); rmErr != nil {
			logger.Warn().Err(rmErr).Str("staging", staging).Msg("Failed to remove staging directory")
			if err == nil {
				err = errors.FromOS(rmErr, "remove", staging)
			}
		}
	}()

	for _, name := range names {
		if err := relocate.Relocate(fsys, src, staging, name); err != nil {
			return withPass(err, "stage", name)
		}
	}

	// A child named like the source itself must wait until the source is
	// gone, otherwise it would be merged back into the directory being emptied.
	self := filepath.Base(src)
	drain := make([]string, 0, len(names))
	for _, name := range names {
		if name != self {
			drain = append(drain, name)
		}
	}

	for _, name := range drain {
		logger.Trace().Str("entry", name).Str("destination", dst).Msg("Moving staged entry")
		if err := relocate.Relocate(fsys, staging, dst, name); err != nil {
			return withPass(err, "drain", name)
		}
	}

	if err := fsys.Remove(src); err != nil {
		return errors.FromOS(err, "remove", src)
	}

	// An empty source still leaves the destination behind
	if err := fsys.MkdirAll(dst, 0755); err != nil {
		return errors.FromOS(err, "mkdir", dst)
	}

	if _, statErr := fsys.Lstat(filepath.Join(staging, self)); statErr == nil {
		if err := relocate.Relocate(fsys, staging, dst, self); err != nil {
			return withPass(err, "drain", self)
		}
	}

	logger.Info().
		Str("source", src).
		Str("destination", dst).
		Int("entries", len(names)).
		Msg("Directory merged")
	return nil
}

// checkPaths cleans both paths and rejects layouts a merge cannot satisfy
func checkPaths(fsys types.FS, sourceDir, destDir string) (string, string, error) {
	src, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrInvalidInput, "resolving %s", sourceDir)
	}
	dst, err := filepath.Abs(destDir)
	if err != nil {
		return "", "", errors.Wrapf(err, errors.ErrInvalidInput, "resolving %s", destDir)
	}

	if src == dst {
		return "", "", errors.Newf(errors.ErrInvalidInput, "cannot merge %s into itself", src)
	}
	if isWithin(src, dst) {
		return "", "", errors.Newf(errors.ErrInvalidInput, "destination %s is inside source %s", dst, src).
			WithDetail("source", src).
			WithDetail("destination", dst)
	}

	info, err := fsys.Stat(src)
	if err != nil {
		return "", "", errors.FromOS(err, "stat", src)
	}
	if !info.IsDir() {
		return "", "", errors.Newf(errors.ErrIOFailure, "source %s is not a directory", src).
			WithDetail("path", src)
	}
	return src, dst, nil
}

// checkAncestorClash rejects a merge whose drain pass would land inside the
// source directory itself.
func checkAncestorClash(src, dst string, names []string) error {
	if !isWithin(dst, src) {
		return nil
	}
	rel, err := filepath.Rel(dst, src)
	if err != nil {
		return nil
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) < 2 {
		return nil
	}
	for _, name := range names {
		if name == parts[0] {
			return errors.Newf(errors.ErrInvalidInput,
				"entry %s in %s would be merged back into the source", name, src).
				WithDetail("source", src).
				WithDetail("destination", dst).
				WithDetail("entry", name)
		}
	}
	return nil
}

// restore moves staged entries back into the source directory. An entry
// whose name still exists in the source is left in staging: the source copy
// is the intact one.
func restore(fsys types.FS, logger zerolog.Logger, staging, src string) {
	entries, err := fsys.ReadDir(staging)
	if err != nil || len(entries) == 0 {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if _, err := fsys.Lstat(filepath.Join(src, name)); !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn().
				Err(err).
				Str("entry", name).
				Str("source", src).
				Msg("Entry still present in source, discarding staged copy")
			continue
		}
		if err := relocate.Relocate(fsys, staging, src, name); err != nil {
			logger.Error().
				Err(err).
				Str("entry", name).
				Str("source", src).
				Msg("Failed to restore staged entry")
			continue
		}
		logger.Warn().Str("entry", name).Str("source", src).Msg("Restored staged entry")
	}
}

func withPass(err error, pass, entry string) error {
	return errors.Wrapf(err, errors.GetErrorCode(err), "merge %s pass failed on %s", pass, entry).
		WithDetail("pass", pass).
		WithDetail("entry", entry)
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
