package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/tidwall/jsonc"

	"github.com/arthur-debert/postgen/pkg/errors"
)

// replayKey wraps the answers in template engine replay files
const replayKey = "cookiecutter"

// ReadAnswers reads a template answers file into a map with normalized keys.
// The format follows the extension: .toml, .yaml/.yml, anything else is
// read as JSON that may contain comments and trailing commas.
func ReadAnswers(path string) (map[string]interface{}, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	}

	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, errors.FromOS(err, "read", path)
	}

	// Prompt-style keys contain dots, so the map is parsed directly rather
	// than loaded into koanf, which would split them into nested keys.
	var raw map[string]interface{}
	if parser != nil {
		raw, err = parser.Unmarshal(data)
	} else {
		err = json.Unmarshal(jsonc.ToJSON(data), &raw)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to parse answers file %s", path)
	}

	if nested, ok := raw[replayKey].(map[string]interface{}); ok {
		raw = nested
	}
	return NormalizeAnswers(raw), nil
}

// NormalizeAnswers strips prompt decorations from answer keys, so
// "llm_provider [Optional. Press Enter to use None]" becomes "llm_provider".
// Keys are lower-cased and spaces become underscores.
func NormalizeAnswers(raw map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		name := key
		if i := strings.Index(name, "["); i >= 0 {
			name = name[:i]
		}
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.Join(strings.Fields(name), "_")
		if name == "" {
			continue
		}
		if nested, ok := value.(map[string]interface{}); ok {
			value = NormalizeAnswers(nested)
		}
		out[name] = value
	}
	return out
}
