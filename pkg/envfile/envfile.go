// Package envfile writes KEY=VALUE lines into a project's .env file and
// turns the LLM provider answer into the matching variables.
package envfile

import (
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/postgen/pkg/config"
	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/arthur-debert/postgen/pkg/types"
)

// ProviderKeys maps hosted providers to the variable holding their API key
var ProviderKeys = map[string]string{
	"OpenAI":       "OPENAI_API_KEY",
	"Anthropic":    "ANTHROPIC_API_KEY",
	"DeepSeek":     "DEEPSEEK_API_KEY",
	"Google":       "GOOGLE_API_KEY",
	"Azure OpenAI": "AZURE_OPENAI_API_KEY",
	"Siliconflow":  "SILICONFLOW_API_KEY",
}

// LocalEndpoints maps local providers to their base URL variable
var LocalEndpoints = map[string][2]string{
	"Ollama (Local)":    {"OLLAMA_BASE_URL", "http://localhost:11434"},
	"LM Studio (Local)": {"LM_STUDIO_BASE_URL", "http://localhost:1234"},
}

// Outcome says what Setup did
type Outcome string

const (
	OutcomeNone       Outcome = "none"
	OutcomeLocal      Outcome = "local-endpoint"
	OutcomeKeyWritten Outcome = "api-key"
	OutcomeSkipped    Outcome = "skipped"
)

// Setup prepares dir's env file for the configured provider.
//
// A local provider gets its base URL, but only when no env file exists yet.
// A hosted provider gets the key saved earlier in the API key file; that
// file is deleted once read.
func Setup(fsys types.FS, dir string, cfg *config.Config) (Outcome, error) {
	logger := logging.GetLogger("envfile")
	envPath := filepath.Join(dir, cfg.EnvFile)
	provider := cfg.LLMProvider

	if strings.HasSuffix(provider, config.LocalSuffix) {
		if exists(fsys, envPath) {
			logger.Debug().Str("path", envPath).Msg("Env file exists, leaving local provider settings alone")
			return OutcomeSkipped, nil
		}
		endpoint, ok := LocalEndpoints[provider]
		if !ok {
			logger.Warn().Str("provider", provider).Msg("Unknown local provider, creating empty env file")
			return OutcomeSkipped, write(fsys, envPath, nil)
		}
		if err := write(fsys, envPath, []byte(endpoint[0]+"="+endpoint[1]+"\n")); err != nil {
			return OutcomeNone, err
		}
		logger.Info().Str("provider", provider).Str("path", envPath).Msg("Wrote local endpoint")
		return OutcomeLocal, nil
	}

	if !cfg.HasProvider() {
		return OutcomeNone, nil
	}

	keyPath := filepath.Join(dir, cfg.APIKeyFile)
	if !exists(fsys, keyPath) {
		logger.Debug().Str("path", keyPath).Msg("No saved API key")
		return OutcomeSkipped, nil
	}

	data, err := fsys.ReadFile(keyPath)
	if err != nil {
		return OutcomeNone, errors.FromOS(err, "read", keyPath)
	}
	if err := fsys.Remove(keyPath); err != nil {
		return OutcomeNone, errors.FromOS(err, "remove", keyPath)
	}

	key := strings.TrimSpace(string(data))
	if key == "" {
		return OutcomeSkipped, nil
	}

	name, ok := ProviderKeys[provider]
	if !ok {
		logger.Warn().Str("provider", provider).Msg("No API key variable known for provider")
		return OutcomeSkipped, nil
	}

	if err := Upsert(fsys, envPath, name, key); err != nil {
		return OutcomeNone, err
	}
	logger.Info().Str("provider", provider).Str("variable", name).Msg("Stored API key in env file")
	return OutcomeKeyWritten, nil
}

// Upsert sets key=value in the env file at path, replacing the first line
// that assigns key and appending otherwise. The file is created if needed.
func Upsert(fsys types.FS, path, key, value string) error {
	if key == "" || strings.ContainsAny(key, "=\n") {
		return errors.Newf(errors.ErrInvalidInput, "invalid env key %q", key)
	}

	var lines []string
	data, err := fsys.ReadFile(path)
	switch {
	case err == nil:
		lines = strings.SplitAfter(string(data), "\n")
		if last := len(lines) - 1; last >= 0 && lines[last] == "" {
			lines = lines[:last]
		}
	case !stderrors.Is(err, fs.ErrNotExist):
		return errors.FromOS(err, "read", path)
	}

	entry := key + "=" + value + "\n"
	found := false
	for i, line := range lines {
		if strings.HasPrefix(line, key+"=") {
			lines[i] = entry
			found = true
			break
		}
	}
	if !found {
		if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
			lines[n-1] += "\n"
		}
		lines = append(lines, entry)
	}

	return write(fsys, path, []byte(strings.Join(lines, "")))
}

// Lookup returns the value assigned to key, if any
func Lookup(fsys types.FS, path, key string) (string, bool, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, errors.FromOS(err, "read", path)
	}
	for _, line := range strings.Split(string(data), "\n") {
		if value, ok := strings.CutPrefix(line, key+"="); ok {
			return strings.TrimRight(value, "\r"), true, nil
		}
	}
	return "", false, nil
}

func write(fsys types.FS, path string, data []byte) error {
	if err := fsys.WriteFile(path, data, 0600); err != nil {
		return errors.FromOS(err, "write", path)
	}
	return nil
}

func exists(fsys types.FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
