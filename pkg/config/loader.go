package config

import (
	"errors"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	pgerrors "github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
)

// EnvPrefix is the prefix of environment variables read by Load
const EnvPrefix = "POSTGEN_"

// LoadOptions selects the sources layered over the defaults
type LoadOptions struct {
	// AnswersFile is the template engine's answers file, optional
	AnswersFile string
	// Overrides are applied last, keys use koanf dotted paths
	Overrides map[string]interface{}
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the effective configuration
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, pgerrors.Wrap(err, pgerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Answers file
	if opts.AnswersFile != "" {
		answers, err := ReadAnswers(opts.AnswersFile)
		if err != nil {
			return nil, err
		}
		if err := k.Load(confmap.Provider(answers, "."), nil); err != nil {
			return nil, pgerrors.Wrapf(err, pgerrors.ErrConfigLoad, "failed to load answers from %s", opts.AnswersFile)
		}
		logger.Debug().Str("path", opts.AnswersFile).Int("keys", len(answers)).Msg("Loaded answers file")
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, pgerrors.Wrap(err, pgerrors.ErrConfigLoad, "failed to load environment")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, pgerrors.Wrap(err, pgerrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				yesNoHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, pgerrors.Wrap(err, pgerrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if cfg.TargetDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, pgerrors.Wrap(err, pgerrors.ErrConfigLoad, "failed to determine working directory")
		}
		cfg.TargetDir = wd
	}
	cfg.LLMProvider = strings.TrimSpace(cfg.LLMProvider)
	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderNone
	}
	cfg.ProjectType = strings.ToLower(strings.TrimSpace(cfg.ProjectType))

	logger.Debug().
		Str("project", cfg.ProjectName).
		Str("projectType", cfg.ProjectType).
		Str("provider", cfg.LLMProvider).
		Bool("useCurrentDirectory", cfg.UseCurrentDirectory).
		Msg("Configuration loaded")

	return &cfg, nil
}

// yesNoHookFunc lets template answers such as "y" or "no" fill bool fields
func yesNoHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		switch strings.ToLower(strings.TrimSpace(data.(string))) {
		case "y", "yes", "true", "1", "on":
			return true, nil
		case "n", "no", "false", "0", "off", "":
			return false, nil
		default:
			return nil, pgerrors.Newf(pgerrors.ErrConfigValid, "%q is not a yes/no value", data)
		}
	}
}
