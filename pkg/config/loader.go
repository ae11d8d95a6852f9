package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes environment overrides; "__" separates key levels
	EnvPrefix = "KNITKIT_"
	// ProjectConfigName is the project-local settings file
	ProjectConfigName = "knitkit.toml"
)

// LoadOptions controls where settings are read from
type LoadOptions struct {
	// UserConfigDir holds config.toml or config.yaml. Empty means $XDG_CONFIG_HOME/knitkit.
	UserConfigDir string
	// ProjectDir is searched for knitkit.toml. Empty skips the project layer.
	ProjectDir string
	// Overrides are applied last, keyed by dotted path (e.g. "templates.dir")
	Overrides map[string]interface{}
}

// UserConfigDir is the default directory for the user settings file
func UserConfigDir() string {
	return paths.ConfigDir()
}

// Load merges every settings layer and returns the validated result
func Load(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load default settings")
	}

	// 2. User settings
	userDir := opts.UserConfigDir
	if userDir == "" {
		userDir = UserConfigDir()
	}
	for _, candidate := range []struct {
		name   string
		parser koanf.Parser
	}{
		{"config.toml", toml.Parser()},
		{"config.yaml", yaml.Parser()},
		{"config.yml", yaml.Parser()},
	} {
		path := filepath.Join(userDir, candidate.name)
		loaded, err := loadFile(k, path, candidate.parser)
		if err != nil {
			return nil, err
		}
		if loaded {
			logger.Debug().Str("path", path).Msg("loaded user settings")
			break
		}
	}

	// 3. Project settings
	if opts.ProjectDir != "" {
		path := filepath.Join(opts.ProjectDir, ProjectConfigName)
		loaded, err := loadFile(k, path, toml.Parser())
		if err != nil {
			return nil, err
		}
		if loaded {
			logger.Debug().Str("path", path).Msg("loaded project settings")
		}
	}

	// 4. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment settings")
	}

	// 5. Command line overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	// 6. Unmarshal
	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode settings")
	}

	// 7. Post-process
	s.resolvePaths()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Str("hierarchy", s.Hierarchy.File).
		Str("templates", s.Templates.Dir).
		Msg("settings loaded")
	return &s, nil
}

// loadFile merges path into k when it exists
func loadFile(k *koanf.Koanf, path string, parser koanf.Parser) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrConfigLoad, "cannot access %s", path).
			WithDetail("file", path)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return false, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", path).
			WithDetail("file", path)
	}
	return true, nil
}
