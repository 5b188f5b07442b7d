// Package promote flattens a generated project directory into a target
// directory. Unlike a merge, promotion replaces same-named destination
// entries wholesale: a directory at the destination is discarded, not
// merged into.
package promote

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/relocate"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a promotion
type Options struct {
	// TargetDir receives the generated entries
	TargetDir string
	// ProjectName is the generated directory's name
	ProjectName string
	// FileSystem defaults to the OS filesystem when nil
	FileSystem types.FS
}

// Result describes what a promotion did
type Result struct {
	GeneratedDir string
	TargetDir    string
	UsedFallback bool
	// InPlace is set when the generated directory already is the target
	InPlace   bool
	Moved     []string
	Clobbered []string
	Failed    []string
}

// Promote moves every entry of the generated directory into the target
// directory, replacing what is already there, then removes the generated
// directory. Removal of a conflicting destination entry is best-effort: a
// failure is logged and the promotion goes on. A failed move is recorded in
// Result.Failed and reported once all entries were attempted; moves that
// succeeded are never reversed.
func Promote(opts Options) (*Result, error) {
	logger := logging.GetLogger("promote")
	done := logging.LogOperationStart(logger, "promote")
	defer done()

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}

	resolution, err := Resolve(fsys, opts.TargetDir, opts.ProjectName)
	if err != nil {
		return nil, err
	}

	target, err := filepath.Abs(opts.TargetDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "resolving %s", opts.TargetDir)
	}

	result := &Result{
		GeneratedDir: resolution.Dir,
		TargetDir:    target,
		UsedFallback: resolution.UsedFallback,
	}

	logger.Info().
		Str("generated", resolution.Dir).
		Str("target", target).
		Bool("fallback", resolution.UsedFallback).
		Msg("Promoting generated directory")

	// Found through the fallback while already standing inside it
	if resolution.Dir == target {
		logger.Info().Str("target", target).Msg("Generated directory is the target, nothing to move")
		result.InPlace = true
		return result, nil
	}

	entries, err := fsys.ReadDir(resolution.Dir)
	if err != nil {
		return nil, errors.FromOS(err, "readdir", resolution.Dir)
	}

	generated := resolution.Dir
	if filepath.Dir(generated) == target && containsName(entries, filepath.Base(generated)) {
		// target/<name> is about to be clobbered by the entry of the same
		// name, so the tree must not live at that path anymore
		aside := filepath.Join(target, "."+filepath.Base(generated)+"-"+uuid.NewString())
		if err := fsys.Rename(generated, aside); err != nil {
			return nil, errors.FromOS(err, "rename", generated).WithDetail("destination", aside)
		}
		logger.Debug().Str("from", generated).Str("to", aside).Msg("Moved generated directory aside")
		generated = aside
	}

	for _, entry := range entries {
		name := entry.Name()
		src := filepath.Join(generated, name)
		dest := filepath.Join(target, name)

		if clobber(fsys, logger, dest) {
			result.Clobbered = append(result.Clobbered, name)
		}

		logger.Debug().Str("source", src).Str("destination", dest).Msg("Moving entry")
		if err := relocate.Move(fsys, src, dest); err != nil {
			logger.Error().Err(err).Str("source", src).Str("destination", dest).Msg("Failed to move entry")
			result.Failed = append(result.Failed, name)
			continue
		}
		result.Moved = append(result.Moved, name)
	}

	rmErr := fsys.Remove(generated)
	if rmErr != nil {
		logger.Error().Err(rmErr).Str("path", generated).Msg("Failed to remove generated directory")
	} else {
		logger.Info().Str("path", generated).Msg("Removed generated directory")
	}

	if len(result.Failed) > 0 {
		failErr := errors.Newf(errors.ErrIOFailure, "promotion left %d entries behind", len(result.Failed))
		if rmErr != nil {
			failErr = errors.Wrapf(rmErr, errors.ErrIOFailure, "promotion left %d entries behind", len(result.Failed))
		}
		return result, failErr.
			WithDetail("failed", result.Failed).
			WithDetail("generated", generated)
	}
	if rmErr != nil {
		return result, errors.FromOS(rmErr, "remove", generated)
	}

	logger.Info().
		Int("moved", len(result.Moved)).
		Int("clobbered", len(result.Clobbered)).
		Msg("Promotion completed")
	return result, nil
}

// clobber removes dest if it exists and reports whether something was there.
// Errors are logged, never returned.
func clobber(fsys types.FS, logger zerolog.Logger, dest string) bool {
	info, err := fsys.Lstat(dest)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			logger.Warn().Err(err).Str("path", dest).Msg("Cannot inspect existing destination")
		}
		return false
	}

	if info.IsDir() {
		err = fsys.RemoveAll(dest)
	} else {
		err = fsys.Remove(dest)
	}
	if err != nil {
		logger.Warn().Err(err).Str("path", dest).Msg("Failed to remove existing destination, continuing")
	}
	return true
}

func containsName(entries []fs.DirEntry, name string) bool {
	for _, entry := range entries {
		if entry.Name() == name {
			return true
		}
	}
	return false
}
