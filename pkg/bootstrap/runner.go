package bootstrap

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
)

// Runner runs an external command inside dir
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs commands with os/exec, streaming their output
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner attached to the process's stdout and stderr
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	logger := logging.GetLogger("bootstrap.exec")
	logger.Info().
		Str("command", name).
		Strs("args", args).
		Str("workingDir", dir).
		Msg("Executing command")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.Stdout
	cmd.Stderr = &stderr
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	}

	if err := cmd.Run(); err != nil {
		logger.Debug().Str("stderr", stderr.String()).Msg("Command failed")
		return errors.Wrapf(err, errors.ErrBootstrap, "command failed: %s %s", name, strings.Join(args, " ")).
			WithDetail("dir", dir).
			WithDetail("stderr", strings.TrimSpace(stderr.String()))
	}
	return nil
}
