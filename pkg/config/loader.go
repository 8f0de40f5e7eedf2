package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"

	"github.com/arthur-debert/snipsync/pkg/logging"
	"github.com/arthur-debert/snipsync/pkg/region"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	snipErrors "github.com/arthur-debert/snipsync/pkg/errors"
)

// EnvPrefix prefixes every environment override, e.g.
// SNIPSYNC_SNIPPETS_ROOT sets snippets.root.
const EnvPrefix = "SNIPSYNC_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		// The embedded file is part of the binary; failing here is a build
		// defect.
		panic(err)
	}
	return cfg
}

// Load builds the configuration from, in order: the embedded defaults, the
// file at configPath when it exists, SNIPSYNC_* environment variables and
// overrides (dotted keys, typically from command-line flags).
func Load(configPath string, overrides map[string]interface{}) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, snipErrors.Wrap(err, snipErrors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Workspace config if it exists
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, snipErrors.Wrapf(err, snipErrors.ErrConfigParse, "failed to load config from %s", configPath).
					WithDetail("path", configPath)
			}
			logger.Debug().Str("path", configPath).Msg("Loaded workspace config")
		} else if !os.IsNotExist(err) {
			return nil, snipErrors.Wrapf(err, snipErrors.ErrConfigLoad, "failed to stat config %s", configPath)
		}
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, snipErrors.Wrap(err, snipErrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, snipErrors.Wrap(err, snipErrors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, snipErrors.Wrap(err, snipErrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps SNIPSYNC_SECTION_KEY_NAME to section.key_name. Only the first
// underscore separates the section.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func validate(cfg *Config) error {
	if _, err := region.ParseJoinMode(cfg.Snippets.Join); err != nil {
		return snipErrors.Wrapf(err, snipErrors.ErrConfigValid, "invalid snippets.join %q", cfg.Snippets.Join)
	}
	if strings.TrimSpace(cfg.Snippets.Root) == "" {
		return snipErrors.New(snipErrors.ErrConfigValid, "snippets.root must not be empty")
	}
	if cfg.Watch.Debounce < 0 {
		return snipErrors.Newf(snipErrors.ErrConfigValid, "watch.debounce must not be negative, got %s", cfg.Watch.Debounce)
	}
	cfg.Documents.Extensions = normalizeExtensions(cfg.Documents.Extensions)
	if len(cfg.Documents.Extensions) == 0 {
		return snipErrors.New(snipErrors.ErrConfigValid, "documents.extensions must name at least one extension")
	}
	if len(cfg.Documents.Dirs) == 0 {
		cfg.Documents.Dirs = []string{"."}
	}
	return nil
}
