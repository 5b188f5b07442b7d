package promote

import (
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/types"
)

// Resolution is where the generated directory was found
type Resolution struct {
	Dir          string
	UsedFallback bool
	Candidates   []string
}

// Resolve locates the generated directory named name. The first candidate
// is targetDir/name, the fallback is parent(targetDir)/name: the template
// engine may or may not have changed the working directory while generating.
func Resolve(fsys types.FS, targetDir, name string) (*Resolution, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	target, err := filepath.Abs(targetDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "resolving %s", targetDir)
	}

	candidates := []string{
		filepath.Join(target, name),
		filepath.Join(filepath.Dir(target), name),
	}

	for i, candidate := range candidates {
		info, err := fsys.Stat(candidate)
		if err != nil || !info.IsDir() {
			continue
		}
		return &Resolution{
			Dir:          candidate,
			UsedFallback: i > 0,
			Candidates:   candidates,
		}, nil
	}

	return nil, errors.Newf(errors.ErrResolutionFailure, "generated directory %q not found", name).
		WithDetail("candidates", candidates).
		WithDetail("target", target)
}

// ValidateName rejects project names that cannot be a single directory entry
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "project name is empty")
	}
	if name == "." || name == ".." || filepath.Base(name) != name {
		return errors.Newf(errors.ErrInvalidInput, "project name %q is not a plain directory name", name)
	}
	return nil
}
