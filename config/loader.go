package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	serrors "github.com/YuminosukeSato/sensorbench/pkg/errors"
)

// Load builds a Config by layering defaults, an optional YAML file, and
// environment variables.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if path is non-empty
//  3. env (prefix SENSORBENCH_)
func Load(path string) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, serrors.NewStorageError("read", path, err)
		}
	}

	// Environment variables: SENSORBENCH_DATASET, SENSORBENCH_TRAIN_FRACTION, ...
	// Map env keys like SENSORBENCH_CACHE_DIR -> cache_dir (flat keys).
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("SENSORBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "sensorbench_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, serrors.Wrap(err, "loading environment overrides")
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, serrors.Wrap(err, "unmarshaling configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// EnvConfigPath returns the config file path from SENSORBENCH_CONFIG, or "".
func EnvConfigPath() string {
	return os.Getenv("SENSORBENCH_CONFIG")
}
