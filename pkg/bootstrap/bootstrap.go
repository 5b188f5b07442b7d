// Package bootstrap creates the generated project's Python virtual
// environment and installs its requirements.
package bootstrap

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Result records which bootstrap steps ran
type Result struct {
	VenvCreated bool
	Installed   bool
	// SkipReason is set when a step was not attempted
	SkipReason string
}

// Bootstrap runs `<python> -m venv <venv>` in dir and then installs the
// requirements file with the venv's pip. The install step is skipped when
// the requirements file is missing.
func Bootstrap(ctx context.Context, fsys types.FS, runner Runner, dir string, cfg config.BootstrapConfig) (*Result, error) {
	return bootstrapFor(ctx, runtime.GOOS, fsys, runner, dir, cfg)
}

func bootstrapFor(ctx context.Context, goos string, fsys types.FS, runner Runner, dir string, cfg config.BootstrapConfig) (*Result, error) {
	logger := logging.GetLogger("bootstrap")
	result := &Result{}

	if !cfg.Enabled {
		result.SkipReason = "disabled"
		return result, nil
	}
	if cfg.Python == "" || cfg.VenvDir == "" {
		return result, errors.New(errors.ErrInvalidInput, "bootstrap needs a python interpreter and a venv directory")
	}

	done := logging.LogOperationStart(logger, "bootstrap")
	defer done()

	if err := runner.Run(ctx, dir, cfg.Python, "-m", "venv", cfg.VenvDir); err != nil {
		return result, errors.Wrap(err, errors.ErrBootstrap, "failed to create virtual environment").
			WithDetail("venv", cfg.VenvDir)
	}
	result.VenvCreated = true

	requirements := filepath.Join(dir, cfg.Requirements)
	if cfg.Requirements == "" {
		result.SkipReason = "no requirements file configured"
		return result, nil
	}
	if _, err := fsys.Stat(requirements); err != nil {
		logger.Debug().Str("path", requirements).Msg("Requirements file not found, skipping install")
		result.SkipReason = "requirements file not found"
		return result, nil
	}

	pip := PipPath(goos, dir, cfg.VenvDir)
	if err := runner.Run(ctx, dir, pip, "install", "-r", cfg.Requirements); err != nil {
		return result, errors.Wrap(err, errors.ErrBootstrap, "failed to install requirements").
			WithDetail("requirements", cfg.Requirements)
	}
	result.Installed = true
	return result, nil
}

// PipPath returns the pip executable inside the venv for goos
func PipPath(goos, dir, venvDir string) string {
	if goos == "windows" {
		return filepath.Join(dir, venvDir, "Scripts", "pip")
	}
	return filepath.Join(dir, venvDir, "bin", "pip3")
}

// ActivationHint is the shell command that activates the venv on this platform
func ActivationHint(venvDir string) string {
	return ActivationHintFor(runtime.GOOS, venvDir)
}

// ActivationHintFor is ActivationHint for an explicit goos
func ActivationHintFor(goos, venvDir string) string {
	if goos == "windows" {
		return venvDir + `\Scripts\activate`
	}
	return "source " + venvDir + "/bin/activate"
}
