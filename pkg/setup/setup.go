// Package setup runs the post-generation pipeline for a freshly generated
// project: env file, IDE rules, virtual environment and, when requested,
// promotion of the project into the target directory.
package setup

import (
	"context"

	"github.com/arthur-debert/postgen/pkg/bootstrap"
	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/envfile"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/filesystem"
	"github.com/arthur-debert/postgen/pkg/iderules"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/promote"
	"github.com/arthur-debert/postgen/pkg/types"
	"github.com/google/uuid"
)

// Options configures a pipeline run
type Options struct {
	Config *config.Config
	// FileSystem defaults to the OS filesystem when nil
	FileSystem types.FS
	// Runner defaults to an os/exec runner when nil
	Runner bootstrap.Runner
}

// Result summarizes every step for display
type Result struct {
	RunID        string
	ProjectDir   string
	UsedFallback bool

	Env       envfile.Outcome
	Rules     *iderules.Result
	Bootstrap *bootstrap.Result
	// BootstrapErr is kept apart: a failed venv does not stop the run
	BootstrapErr error
	Promotion    *promote.Result

	ActivationHint string
}

// Run executes the pipeline. Env file and IDE rule failures abort the run,
// a bootstrap failure is recorded and the run continues.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New(errors.ErrInvalidInput, "setup requires a configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fsys := opts.FileSystem
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	runner := opts.Runner
	if runner == nil {
		runner = bootstrap.NewExecRunner()
	}

	runID := uuid.NewString()
	logger := logging.WithFields(map[string]interface{}{
		"component": "setup",
		"run":       runID,
		"project":   cfg.ProjectName,
	})
	done := logging.LogOperationStart(logger, "setup")
	defer done()

	resolution, err := promote.Resolve(fsys, cfg.TargetDir, cfg.ProjectName)
	if err != nil {
		return nil, err
	}
	result := &Result{
		RunID:        runID,
		ProjectDir:   resolution.Dir,
		UsedFallback: resolution.UsedFallback,
	}
	logger.Info().Str("dir", resolution.Dir).Bool("fallback", resolution.UsedFallback).Msg("Found generated project")

	outcome, err := envfile.Setup(fsys, resolution.Dir, cfg)
	if err != nil {
		return result, errors.Wrap(err, errors.ErrEnvFile, "failed to set up env file")
	}
	result.Env = outcome

	rules, err := iderules.Prune(fsys, resolution.Dir, cfg.ProjectType, cfg.LLMProvider)
	if err != nil {
		return result, err
	}
	result.Rules = rules

	if err := ctx.Err(); err != nil {
		return result, errors.Wrap(err, errors.ErrInternal, "setup cancelled")
	}

	boot, err := bootstrap.Bootstrap(ctx, fsys, runner, resolution.Dir, cfg.Bootstrap)
	result.Bootstrap = boot
	if err != nil {
		logger.Warn().Err(err).Msg("Virtual environment setup failed, continuing")
		result.BootstrapErr = err
	}
	result.ActivationHint = bootstrap.ActivationHint(cfg.Bootstrap.VenvDir)

	if !cfg.UseCurrentDirectory {
		return result, nil
	}

	promotion, err := promote.Promote(promote.Options{
		TargetDir:   cfg.TargetDir,
		ProjectName: cfg.ProjectName,
		FileSystem:  fsys,
	})
	result.Promotion = promotion
	if err != nil {
		return result, err
	}
	result.ProjectDir = promotion.TargetDir
	return result, nil
}
