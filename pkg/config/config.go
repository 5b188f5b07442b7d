package config

import (
	_ "embed"
	"path/filepath"

	"github.com/arthur-debert/postgen/pkg/errors"
	toml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Provider names used as LLMProvider values
const (
	ProviderNone = "None"
	// LocalSuffix marks providers that run on the user's machine
	LocalSuffix = "(Local)"
)

// Config is the effective configuration of one postgen run
type Config struct {
	ProjectName         string          `koanf:"project_name" toml:"project_name"`
	UseCurrentDirectory bool            `koanf:"use_current_directory" toml:"use_current_directory"`
	ProjectType         string          `koanf:"project_type" toml:"project_type"`
	LLMProvider         string          `koanf:"llm_provider" toml:"llm_provider"`
	TargetDir           string          `koanf:"target_dir" toml:"target_dir"`
	EnvFile             string          `koanf:"env_file" toml:"env_file"`
	APIKeyFile          string          `koanf:"api_key_file" toml:"api_key_file"`
	Bootstrap           BootstrapConfig `koanf:"bootstrap" toml:"bootstrap"`
}

// BootstrapConfig controls virtual environment creation
type BootstrapConfig struct {
	Enabled      bool   `koanf:"enabled" toml:"enabled"`
	Python       string `koanf:"python" toml:"python"`
	VenvDir      string `koanf:"venv_dir" toml:"venv_dir"`
	Requirements string `koanf:"requirements" toml:"requirements"`
}

// HasProvider reports whether an LLM provider was chosen
func (c *Config) HasProvider() bool {
	return c.LLMProvider != "" && c.LLMProvider != ProviderNone
}

// Validate checks the values the setup pipeline depends on
func (c *Config) Validate() error {
	if c.ProjectName == "" {
		return errors.New(errors.ErrConfigValid, "project_name is required")
	}
	if c.ProjectName == "." || c.ProjectName == ".." || filepath.Base(c.ProjectName) != c.ProjectName {
		return errors.Newf(errors.ErrConfigValid, "project_name %q must be a plain directory name", c.ProjectName).
			WithDetail("project_name", c.ProjectName)
	}
	if c.EnvFile == "" {
		return errors.New(errors.ErrConfigValid, "env_file must not be empty")
	}
	if c.Bootstrap.Enabled && c.Bootstrap.Python == "" {
		return errors.New(errors.ErrConfigValid, "bootstrap.python is required when bootstrap is enabled")
	}
	if c.Bootstrap.Enabled && c.Bootstrap.VenvDir == "" {
		return errors.New(errors.ErrConfigValid, "bootstrap.venv_dir is required when bootstrap is enabled")
	}
	return nil
}

// Render returns the configuration as TOML
func Render(cfg *Config) ([]byte, error) {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return out, nil
}

// DefaultContent returns the embedded defaults file
func DefaultContent() string {
	return string(defaultConfig)
}
